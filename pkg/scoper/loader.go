package scoper

import (
	"fmt"
	"strings"
)

// GeneratedBanner is the self-identifying comment stamped into generated
// loader source. Rewriters replace it with their own banner.
const GeneratedBanner = "// scoper-autoload.php @generated by PhpScoper"

// loaderRequire is the statement that constructs the original class loader.
// Rewriters splice the real bootstrap in place of this line, so it must
// stay on a single line.
const loaderRequire = "$loader = require_once __DIR__.'/autoload.php';"

// LoaderSource generates PHP source for a loader that first constructs the
// original class loader and then re-exposes every recorded symbol under its
// pre-relocation name. Classes are re-exposed by triggering the autoloader
// on the prefixed name; functions get forwarding wrappers.
//
// When namespaced functions are present, every statement is wrapped in a
// namespace block because PHP forbids mixing braced and unbraced namespace
// forms in one file.
func (r *Registry) LoaderSource() string {
	var b strings.Builder
	blocks := r.hasNamespacedFunctions()

	b.WriteString("<?php\n\n")
	b.WriteString(GeneratedBanner)
	b.WriteString("\n\n")

	writeSection(&b, blocks, "", loaderRequire)

	if len(r.classes) > 0 {
		b.WriteString("// Aliases for the exposed classes.\n\n")
		for _, c := range r.classes {
			writeSection(&b, blocks, "", classAlias(c))
		}
	}

	if len(r.functions) > 0 {
		b.WriteString("// Wrappers for the exposed functions.\n\n")
		for _, f := range r.functions {
			ns, _ := splitNamespace(f.From)
			writeSection(&b, blocks, ns, functionWrapper(f))
		}
	}

	writeSection(&b, blocks, "", "return $loader;")

	return strings.TrimRight(b.String(), "\n") + "\n"
}

// classAlias builds the statement that re-exposes a relocated class under
// its original name. Loading the prefixed class triggers the alias the
// prefixing tool planted in the relocated source file.
func classAlias(rel Relocation) string {
	return fmt.Sprintf(
		"if (!class_exists('%s', false) && !interface_exists('%s', false) && !trait_exists('%s', false)) {\n    spl_autoload_call('%s');\n}",
		rel.From, rel.From, rel.From, rel.To,
	)
}

// functionWrapper builds a forwarding function declared under the original
// name that delegates to the relocated implementation.
func functionWrapper(rel Relocation) string {
	_, base := splitNamespace(rel.From)
	return fmt.Sprintf(
		"if (!function_exists('%s')) {\n    function %s() {\n        return \\%s(...func_get_args());\n    }\n}",
		rel.From, base, rel.To,
	)
}

// splitNamespace splits a fully-qualified name into its namespace and base
// parts. The namespace is empty for global symbols.
func splitNamespace(name string) (ns, base string) {
	if i := strings.LastIndex(name, `\`); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}

// writeSection writes a statement followed by a blank line, wrapping it in
// a namespace block when block namespacing is in effect.
func writeSection(b *strings.Builder, blocks bool, ns, stmt string) {
	if !blocks {
		b.WriteString(stmt)
		b.WriteString("\n\n")
		return
	}
	if ns == "" {
		b.WriteString("namespace {\n")
	} else {
		fmt.Fprintf(b, "namespace %s {\n", ns)
	}
	b.WriteString(indent(stmt, "    "))
	b.WriteString("\n}\n\n")
}

// indent prefixes every non-empty line of s.
func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
