package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// phpLabelRegex matches a single PHP identifier label (namespace segment,
// class name, or function name). PHP accepts ASCII letters, underscores,
// and any byte >= 0x80, which maps to non-ASCII runes here.
var phpLabelRegex = regexp.MustCompile(`^[A-Za-z_\x80-\x{10FFFF}][A-Za-z0-9_\x80-\x{10FFFF}]*$`)

// ValidatePrefix validates a namespace prefix used for symbol relocation.
//
// The validation rules are intentionally conservative:
//   - No empty prefixes (an empty prefix means "no relocation" and is
//     handled by callers before validation)
//   - No leading or trailing namespace separators
//   - Every backslash-separated segment must be a valid PHP label
//   - Maximum length of 256 characters
func ValidatePrefix(prefix string) error {
	if prefix == "" {
		return New(ErrCodeInvalidInput, "prefix cannot be empty")
	}

	if len(prefix) > 256 {
		return New(ErrCodeInvalidInput, "prefix too long (max 256 characters)")
	}

	if strings.HasPrefix(prefix, `\`) || strings.HasSuffix(prefix, `\`) {
		return New(ErrCodeInvalidInput, "prefix cannot start or end with a namespace separator: %q", prefix)
	}

	for _, segment := range strings.Split(prefix, `\`) {
		if !phpLabelRegex.MatchString(segment) {
			return New(ErrCodeInvalidInput, "invalid prefix segment: %q", segment)
		}
	}

	return nil
}

// ValidateSymbolName validates a fully-qualified PHP symbol name recorded
// in a relocation registry.
//
// Validation rules:
//   - Name cannot be empty
//   - Maximum length of 512 characters
//   - No control characters or null bytes
//   - No leading or trailing namespace separators
//   - Every namespace segment must be a valid PHP label
func ValidateSymbolName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidSymbols, "symbol name cannot be empty")
	}

	const maxSymbolLength = 512
	if len(name) > maxSymbolLength {
		return New(ErrCodeInvalidSymbols, "symbol name too long (max %d characters)", maxSymbolLength)
	}

	for _, r := range name {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidSymbols, "symbol name contains invalid characters")
		}
	}

	if strings.HasPrefix(name, `\`) || strings.HasSuffix(name, `\`) {
		return New(ErrCodeInvalidSymbols, "symbol name cannot start or end with a namespace separator: %q", name)
	}

	for _, segment := range strings.Split(name, `\`) {
		if !phpLabelRegex.MatchString(segment) {
			return New(ErrCodeInvalidSymbols, "invalid symbol segment: %q", segment)
		}
	}

	return nil
}
