package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths resolves the filesystem locations derived from PathsConfig. All
// exporters and the loader go through it rather than assembling paths
// inline.
type Paths struct {
	DataDir    string
	ReportsDir string
	LogsDir    string
}

// NewPaths builds a Paths from configuration.
func NewPaths(cfg PathsConfig) *Paths {
	return &Paths{
		DataDir:    cfg.DataDir,
		ReportsDir: cfg.ReportsDir,
		LogsDir:    cfg.LogsDir,
	}
}

// GetDataPath returns the path of a raw input file.
func (p *Paths) GetDataPath(name string) string {
	return filepath.Join(p.DataDir, name)
}

// GetReportPath returns the path of a derived output file.
func (p *Paths) GetReportPath(name string) string {
	return filepath.Join(p.ReportsDir, name)
}

// GetLogPath returns the path of a log file.
func (p *Paths) GetLogPath(name string) string {
	return filepath.Join(p.LogsDir, name)
}

// EnsureDirectories creates the output directories if absent. The data
// directory is only read, never created.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.ReportsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
