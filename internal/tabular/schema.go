package tabular

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

//go:embed contracts.yaml
var contractsYAML []byte

// ColumnKind is the semantic type a contract declares for a column. Kinds
// id, category and text all coerce to string cells; number and date coerce
// with per-cell degradation to missing.
type ColumnKind string

const (
	ColumnID       ColumnKind = "id"
	ColumnCategory ColumnKind = "category"
	ColumnText     ColumnKind = "text"
	ColumnNumber   ColumnKind = "number"
	ColumnDate     ColumnKind = "date"
)

// ColumnSpec declares one column of an input contract.
type ColumnSpec struct {
	Name     string     `yaml:"name" validate:"required"`
	Aliases  []string   `yaml:"aliases"`
	Kind     ColumnKind `yaml:"kind" validate:"required,oneof=id category text number date"`
	Required bool       `yaml:"required"`
}

// Contract declares the canonical column set of one named input table.
// When NaturalKey is set, exact-duplicate rows are removed at the schema
// boundary as an explicit, counted policy.
type Contract struct {
	Table      string       `yaml:"table" validate:"required"`
	NaturalKey []string     `yaml:"natural_key"`
	Columns    []ColumnSpec `yaml:"columns" validate:"required,min=1,dive"`
}

type contractsFile struct {
	Contracts []Contract `yaml:"contracts" validate:"required,min=1,dive"`
}

var (
	contractsOnce sync.Once
	contractsMap  map[string]Contract
	contractsErr  error
)

func loadContracts() {
	var file contractsFile
	if err := yaml.Unmarshal(contractsYAML, &file); err != nil {
		contractsErr = fmt.Errorf("parse embedded contracts: %w", err)
		return
	}
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(&file); err != nil {
		contractsErr = fmt.Errorf("validate embedded contracts: %w", err)
		return
	}
	contractsMap = make(map[string]Contract, len(file.Contracts))
	for _, c := range file.Contracts {
		contractsMap[c.Table] = c
	}
}

// ContractFor returns the declared contract for a named input table.
func ContractFor(table string) (Contract, error) {
	contractsOnce.Do(loadContracts)
	if contractsErr != nil {
		return Contract{}, contractsErr
	}
	c, ok := contractsMap[table]
	if !ok {
		return Contract{}, NewSchemaError(table, "", "no contract declared")
	}
	return c, nil
}

// matches reports whether a raw header cell names this column, canonically
// or through an alias.
func (s ColumnSpec) matches(header string) bool {
	h := canonicalHeader(header)
	if strings.EqualFold(h, s.Name) {
		return true
	}
	for _, a := range s.Aliases {
		if strings.EqualFold(h, a) {
			return true
		}
	}
	return false
}

// canonicalHeader strips the UTF-8 BOM and surrounding whitespace from a raw
// header cell. Exported spreadsheets routinely carry both.
func canonicalHeader(h string) string {
	h = strings.TrimSpace(h)
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.TrimLeft(h, "\u200B\u200C\u200D\u2060\uFEFF")
	return strings.TrimSpace(h)
}
