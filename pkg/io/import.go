package io

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/autosplice/autosplice/pkg/errors"
	"github.com/autosplice/autosplice/pkg/observability"
	"github.com/autosplice/autosplice/pkg/scoper"
)

// ReadJSON decodes a JSON relocation registry from r.
//
// The input must be a JSON object with a "prefix" field and optional
// "classes" and "functions" arrays:
//
//	{
//	  "prefix": "Isolated",
//	  "classes": [{"from": "Acme\\Foo", "to": "Isolated\\Acme\\Foo"}]
//	}
//
// ReadJSON returns an error if:
//   - The JSON is malformed
//   - The prefix is not a valid PHP namespace prefix
//   - A relocation holds an invalid PHP symbol name
//
// Errors are wrapped with context describing which relocation caused the
// problem. Use errors.Is or errors.GetCode to check for specific codes.
//
// The returned registry is independent of r and can be modified safely
// after ReadJSON returns. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*scoper.Registry, error) {
	var data registryFile
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSymbols, err, "decode symbols registry")
	}

	if data.Prefix != "" {
		if err := errors.ValidatePrefix(data.Prefix); err != nil {
			return nil, err
		}
	}

	reg := scoper.NewRegistry(data.Prefix)
	for _, c := range data.Classes {
		if err := errors.ValidateSymbolName(c.From); err != nil {
			return nil, fmt.Errorf("class %q: %w", c.From, err)
		}
		if err := errors.ValidateSymbolName(c.To); err != nil {
			return nil, fmt.Errorf("class %q: %w", c.From, err)
		}
		reg.RecordClass(c.From, c.To)
	}
	for _, fn := range data.Functions {
		if err := errors.ValidateSymbolName(fn.From); err != nil {
			return nil, fmt.Errorf("function %q: %w", fn.From, err)
		}
		if err := errors.ValidateSymbolName(fn.To); err != nil {
			return nil, fmt.Errorf("function %q: %w", fn.From, err)
		}
		reg.RecordFunction(fn.From, fn.To)
	}

	return reg, nil
}

// ImportJSON reads a JSON file at path and returns the decoded registry.
//
// ImportJSON opens the file, decodes it using [ReadJSON], and closes the
// file. If the file cannot be opened, or if decoding fails, ImportJSON
// returns an error describing the failure. The error wraps the underlying
// cause with the file path for context.
func ImportJSON(path string) (*scoper.Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		err = errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		observability.Registry().OnRegistryLoad(context.Background(), path, 0, err)
		return nil, err
	}
	defer f.Close()

	reg, err := ReadJSON(f)
	if err != nil {
		err = fmt.Errorf("import %s: %w", path, err)
		observability.Registry().OnRegistryLoad(context.Background(), path, 0, err)
		return nil, err
	}

	observability.Registry().OnRegistryLoad(context.Background(), path, reg.Count(), nil)
	return reg, nil
}
