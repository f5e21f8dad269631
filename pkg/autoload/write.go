package autoload

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/autosplice/autosplice/pkg/errors"
	"github.com/autosplice/autosplice/pkg/observability"
)

// ReadFile loads the autoload entrypoint at path.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "read autoload entrypoint %s", path)
	}
	return string(data), nil
}

// WriteFile replaces the autoload entrypoint at path. The contents go
// through a temporary file in the same directory followed by a rename, so
// a crash mid-write never leaves a truncated entrypoint behind.
func WriteFile(path, contents string) error {
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")

	if err := os.WriteFile(tmp, []byte(contents), 0644); err != nil {
		return errors.Wrap(errors.ErrCodeFileWrite, err, "write autoload entrypoint %s", path)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrap(errors.ErrCodeFileWrite, err, "replace autoload entrypoint %s", path)
	}
	return nil
}

// RewriteFile rewrites the autoload entrypoint at path in place and
// reports the outcome through the registered autoload hooks.
//
// The file is only written after a successful rewrite, so a read failure
// leaves it untouched.
func RewriteFile(ctx context.Context, path string, symbols SymbolSource) (Result, error) {
	observability.Autoload().OnRewriteStart(ctx, path)
	start := time.Now()

	contents, err := ReadFile(path)
	if err != nil {
		observability.Autoload().OnRewriteComplete(ctx, path, false, 0, time.Since(start), err)
		return Result{}, err
	}

	res := Rewrite(contents, symbols)

	if err := WriteFile(path, res.Contents); err != nil {
		observability.Autoload().OnRewriteComplete(ctx, path, res.LoaderMatched, 0, time.Since(start), err)
		return Result{}, err
	}

	observability.Autoload().OnRewriteComplete(ctx, path, res.LoaderMatched, len(res.Contents), time.Since(start), nil)
	return res, nil
}
