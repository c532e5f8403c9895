// Package file implements table loading and run storage on the local filesystem.
package file

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/mealy/pkg/domain"
	"github.com/aretw0/mealy/pkg/dsl"
)

// Extensions recognised as table files.
var Extensions = []string{".fsm", ".yaml", ".yml", ".json"}

// IsTableFile reports whether path has a table file extension.
func IsTableFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// TableName derives a table name from a file path: the base name without extension.
func TableName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// LoadTable reads and validates a single table file. The format is chosen by
// extension: .yaml/.yml for YAML, .json for a JSON Definition, anything else
// for the line format.
func LoadTable(path string) (*domain.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read table file: %w", err)
	}
	name := TableName(path)

	var def *domain.Definition
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		def, err = dsl.ParseYAML(name, data)
	case ".json":
		def = &domain.Definition{}
		if err = json.Unmarshal(data, def); err == nil && def.Name == "" {
			def.Name = name
		}
	default:
		def, err = dsl.ParseString(name, string(data))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	table, err := domain.NewTable(*def)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}
