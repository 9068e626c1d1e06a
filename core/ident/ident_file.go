package ident

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadFile reads a canonical -> aliases table from a JSON file. A missing or
// malformed file returns an empty resolver alongside the error so callers
// can warn and continue.
func LoadFile(path string) (*Resolver, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return NewResolver(nil), fmt.Errorf("read aliases file: %w", err)
	}

	var table map[string][]string
	if err := json.Unmarshal(data, &table); err != nil {
		return NewResolver(nil), fmt.Errorf("parse aliases file %s: %w", path, err)
	}
	return NewResolver(table), nil
}

// SaveFile writes the resolver's table back to a JSON file.
func (r *Resolver) SaveFile(path string) error {
	data, err := json.MarshalIndent(r.Table(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode aliases: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write aliases file: %w", err)
	}
	return nil
}
