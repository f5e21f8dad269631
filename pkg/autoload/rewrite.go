// Package autoload rewrites Composer-generated autoload entrypoints so
// that a symbol relocation loader runs on top of the original class map.
//
// The rewrite is structural text splicing against another tool's generated
// output, so all matching patterns live in this package and nowhere else.
// If Composer or the loader generator change their output format, this is
// the only place that needs updating.
package autoload

import (
	"regexp"
	"strings"

	"github.com/autosplice/autosplice/pkg/scoper"
)

// Banner replaces the loader generator's self-identifying comment in
// rewritten entrypoints.
const Banner = "// autoload.php @generated by autosplice"

// openTag is the PHP script opening tag. The generated relocation loader
// supplies exactly one; every occurrence in the original bootstrap is
// stripped before splicing.
const openTag = "<?php"

var (
	// returnLoaderRe matches the statement returning the generated
	// Composer initializer. The class name carries a per-project hash
	// suffix, hence the wildcard.
	returnLoaderRe = regexp.MustCompile(`return (ComposerAutoloaderInit\w+::getLoader\(\));`)

	// loaderLineRe matches the single line in the generated relocation
	// loader that constructs the class loader. The converted bootstrap is
	// spliced in its place.
	loaderLineRe = regexp.MustCompile(`(?m)^[ \t]*\$loader = .*$`)

	// blankRunsRe matches two or more consecutive blank lines.
	blankRunsRe = regexp.MustCompile(`\n{3,}`)
)

// SymbolSource is the registry view the rewriter needs: an entry count for
// the no-op fast path and the generated loader source.
//
// *scoper.Registry implements it.
type SymbolSource interface {
	Count() int
	LoaderSource() string
}

// Result holds the outcome of a rewrite.
type Result struct {
	// Contents is the rewritten entrypoint source.
	Contents string

	// LoaderMatched reports whether the bootstrap's loader return
	// statement was found and converted. False means the splice degraded
	// to a pass-through of the unconverted bootstrap, which usually
	// indicates the generator's output format changed.
	LoaderMatched bool
}

// Rewrite splices a relocation loader into a Composer-generated autoload
// entrypoint.
//
// When symbols has no entries the contents pass through unchanged. Otherwise:
//
//  1. Every PHP open tag is stripped from the bootstrap.
//  2. The bootstrap's "return ComposerAutoloaderInitXxx::getLoader();"
//     becomes "$loader = ComposerAutoloaderInitXxx::getLoader();" so the
//     relocation loader can build on the constructed instance.
//  3. Loader source is generated from symbols, its banner is swapped for
//     Banner, and its own loader assignment line is replaced with the
//     converted bootstrap.
//  4. Runs of blank lines collapse to a single blank line.
//
// Rewriting already-rewritten contents is not idempotent: the return
// statement is gone after the first pass, so a second pass reports
// LoaderMatched false.
func Rewrite(contents string, symbols SymbolSource) Result {
	if symbols.Count() == 0 {
		return Result{Contents: contents, LoaderMatched: true}
	}

	bootstrap := strings.ReplaceAll(contents, openTag, "")
	matched := returnLoaderRe.MatchString(bootstrap)
	bootstrap = returnLoaderRe.ReplaceAllString(bootstrap, `$$loader = ${1};`)

	loader := symbols.LoaderSource()
	loader = strings.Replace(loader, scoper.GeneratedBanner, Banner, 1)

	// ReplaceAllStringFunc keeps the bootstrap literal: PHP variables in
	// it would otherwise be expanded as regexp group references.
	spliced := loaderLineRe.ReplaceAllStringFunc(loader, func(string) string {
		return bootstrap
	})

	spliced = blankRunsRe.ReplaceAllString(spliced, "\n\n")

	return Result{Contents: spliced, LoaderMatched: matched}
}
