// Package pkg provides the core libraries for autosplice.
//
// # Overview
//
// Autosplice finishes the "scoped vendor" step of a PHP build: after an
// external prefixing tool has relocated bundled dependencies into a private
// namespace, autosplice regenerates the Composer class map and rewrites the
// generated autoload entrypoint so relocated symbols stay reachable under
// their original names. The pkg directory is organized into:
//
//  1. [composer] - Executable discovery, subprocess invocation, and the
//     dump-autoload orchestration
//  2. [autoload] - The entrypoint text rewrite and atomic file replacement
//  3. [scoper] - The symbol relocation registry and loader source generation
//  4. [io] - JSON import/export for relocation registries
//  5. [console], [errors], [buildinfo], [observability] - Shared plumbing
//
// # Architecture
//
// The typical data flow through autosplice:
//
//	Relocation Registry (JSON)
//	         ↓
//	composer dump-autoload --classmap-authoritative
//	         ↓
//	composer config vendor-dir
//	         ↓
//	rewrite <vendor-dir>/autoload.php (splice the relocation loader)
//
// The pipeline is linear and single-shot: each stage either succeeds and
// feeds the next or fails the whole operation. The entrypoint file is only
// written after every preceding subprocess has succeeded.
//
// # Quick Start
//
// Regenerate the class map and splice a relocation loader:
//
//	import (
//	    "context"
//	    "github.com/autosplice/autosplice/pkg/composer"
//	    pkgio "github.com/autosplice/autosplice/pkg/io"
//	)
//
//	// 1. Load the registry the prefixing step produced
//	reg, _ := pkgio.ImportJSON("scoper.symbols.json")
//
//	// 2. Build an orchestrator (discovers composer on PATH)
//	orch, _ := composer.New(composer.Options{WorkingDir: "."})
//
//	// 3. Dump the class map and rewrite the entrypoint
//	res, _ := orch.DumpAutoload(context.Background(), reg, reg.Prefix(), true)
//	fmt.Println(res.Entrypoint)
package pkg
