package composer

import (
	"regexp"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/autosplice/autosplice/pkg/errors"
)

// MinimumVersion is the oldest Composer release whose dump-autoload
// option surface this package relies on.
const MinimumVersion = "2.2.0"

// versionRe extracts the version token from `composer --version` output,
// e.g. "Composer version 2.6.5 2023-10-06 10:11:52".
var versionRe = regexp.MustCompile(`^Composer version (\S+)`)

// parseVersion returns the version token from --version output.
func parseVersion(output string) (string, error) {
	m := versionRe.FindStringSubmatch(strings.TrimSpace(output))
	if m == nil {
		return "", errors.New(errors.ErrCodeVersionCheckFailed,
			"could not determine the composer version from %q", strings.TrimSpace(output))
	}
	return m[1], nil
}

// MeetsMinimum reports whether version is at least min. Versions accept
// the bare "2.6.5" form. Snapshot builds that do not parse as semantic
// versions pass the check; the floor only rejects releases that are
// provably too old.
func MeetsMinimum(version, min string) bool {
	v := "v" + strings.TrimPrefix(version, "v")
	m := "v" + strings.TrimPrefix(min, "v")
	if !semver.IsValid(v) || !semver.IsValid(m) {
		return true
	}
	return semver.Compare(v, m) >= 0
}
