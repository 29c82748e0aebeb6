package domain

// Issuer represents a municipal bond issuer. One row per issuer; referenced
// by many bonds through Bond.IssuerID.
type Issuer struct {
	ID    string `json:"issuer_id" validate:"required"`
	State string `json:"state" validate:"required,len=2"`
	Name  string `json:"issuer_name" validate:"required"`
}

// Purpose represents a bond purpose (sector) dimension. One row per purpose;
// referenced by many bonds through Bond.PurposeID.
type Purpose struct {
	ID          string `json:"purpose_id" validate:"required"`
	Category    string `json:"purpose_category" validate:"required"`
	Description string `json:"description,omitempty"`
}
