// Package io provides JSON import and export for symbol relocation
// registries.
//
// # Overview
//
// A prefixing run over a PHP code base produces a registry of relocated
// symbols (see the scoper package). This package serializes that registry
// so the prefixing step and the autoload rewrite step can run as separate
// processes:
//
//   - A prefixing tool records relocations and exports them once
//   - The autoload rewrite imports them when splicing the loader
//   - Inspection commands read them for reporting
//
// # JSON Format
//
// The format has a required "prefix" field and two optional arrays:
//
//	{
//	  "prefix": "Isolated",
//	  "classes": [
//	    {"from": "Acme\\Client", "to": "Isolated\\Acme\\Client"}
//	  ],
//	  "functions": [
//	    {"from": "dump", "to": "Isolated\\dump"}
//	  ]
//	}
//
// Each relocation must have "from" and "to" fields holding fully-qualified
// PHP symbol names. Backslashes are escaped per JSON rules.
//
// # Import
//
// Use [ImportJSON] to read a registry from a file path, or [ReadJSON] to
// read from any io.Reader:
//
//	reg, err := io.ImportJSON("symbols.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Both functions validate the prefix and every symbol name. Errors are
// wrapped with context about which relocation caused the problem.
//
// # Export
//
// Use [ExportJSON] to write a registry to a file, or [WriteJSON] to write
// to any io.Writer:
//
//	err := io.ExportJSON(reg, "symbols.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The export preserves recording order, so import followed by export
// round-trips identically.
//
// # Concurrency
//
// All functions in this package are safe to call concurrently with other
// readers of the same registry, but not with concurrent modifications. The
// [ReadJSON] and [ImportJSON] functions create independent registries that
// can be used and modified freely after import.
package io
