package io

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/autosplice/autosplice/pkg/observability"
	"github.com/autosplice/autosplice/pkg/scoper"
)

// registryFile is the on-disk JSON shape of a relocation registry.
type registryFile struct {
	Prefix    string              `json:"prefix"`
	Classes   []scoper.Relocation `json:"classes,omitempty"`
	Functions []scoper.Relocation `json:"functions,omitempty"`
}

// WriteJSON encodes a relocation registry as JSON and writes it to w.
// The output preserves recording order and can be re-imported with
// [ReadJSON] for round-trip processing.
func WriteJSON(reg *scoper.Registry, w io.Writer) error {
	out := registryFile{
		Prefix:    reg.Prefix(),
		Classes:   reg.Classes(),
		Functions: reg.Functions(),
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a relocation registry to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(reg *scoper.Registry, path string) error {
	f, err := os.Create(path)
	if err != nil {
		err = fmt.Errorf("create %s: %w", path, err)
		observability.Registry().OnRegistryStore(context.Background(), path, reg.Count(), err)
		return err
	}
	defer f.Close()

	err = WriteJSON(reg, f)
	observability.Registry().OnRegistryStore(context.Background(), path, reg.Count(), err)
	return err
}
