// Package composer invokes the Composer executable to regenerate a PHP
// project's autoload class map and, when symbol relocation is in effect,
// rewrites the generated autoload entrypoint.
//
// The package is orchestration glue: executable discovery, subprocess
// invocation with a controlled environment, version parsing, and the
// dump-autoload pipeline. The structural text transformation itself lives
// in the autoload package.
package composer

import (
	"context"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/autosplice/autosplice/pkg/autoload"
	"github.com/autosplice/autosplice/pkg/console"
	"github.com/autosplice/autosplice/pkg/errors"
	"github.com/autosplice/autosplice/pkg/observability"
)

const (
	// DefaultBinary is the executable name searched for on PATH.
	DefaultBinary = "composer"

	// PharSuffix is the archive form tried when the bare executable is
	// not installed.
	PharSuffix = ".phar"

	// AllowXdebugEnv is the host environment variable that opts into
	// running Composer with a loaded debugger extension.
	AllowXdebugEnv = "AUTOSPLICE_ALLOW_XDEBUG"

	// composerAllowXdebugEnv is the corresponding variable Composer
	// itself understands.
	composerAllowXdebugEnv = "COMPOSER_ALLOW_XDEBUG"
)

// Find locates the Composer executable on PATH, trying the bare name
// first and the .phar form second.
func Find() (string, error) {
	return FindNamed(DefaultBinary)
}

// FindNamed locates an executable like Find but with a custom name.
func FindNamed(name string) (string, error) {
	for _, candidate := range []string{name, name + PharSuffix} {
		if path, err := exec.LookPath(candidate); err == nil {
			return path, nil
		}
	}
	return "", errors.New(errors.ErrCodeComposerNotFound,
		"could not find a %s executable on PATH (tried %q and %q)", name, name, name+PharSuffix)
}

// Options configures an Orchestrator.
type Options struct {
	// Binary is the executable path. Empty means discover it with Find.
	Binary string

	// WorkingDir is where commands run. Empty means the current directory.
	WorkingDir string

	// AllowXdebug propagates the debugger-allow override into every
	// subprocess. Callers decide how this gets configured; nothing in
	// this package reads the environment for it.
	AllowXdebug bool

	// IO controls the verbosity and color flags forwarded to Composer
	// and whether captured subprocess output is logged. Nil discards.
	IO *console.IO

	// Logger receives command diagnostics. Nil discards.
	Logger *log.Logger

	// Runner executes subprocesses. Nil means ExecRunner.
	Runner Runner
}

// Orchestrator runs Composer commands for one project.
//
// It is stateless apart from its configuration: methods can be called in
// any order and from multiple goroutines, though the underlying project
// directory is mutated by DumpAutoload.
type Orchestrator struct {
	bin         string
	dir         string
	allowXdebug bool
	io          *console.IO
	logger      *log.Logger
	runner      Runner
}

// New creates an Orchestrator, discovering the executable when no binary
// is configured.
func New(opts Options) (*Orchestrator, error) {
	bin := opts.Binary
	if bin == "" {
		found, err := Find()
		if err != nil {
			return nil, err
		}
		bin = found
	}

	sink := opts.IO
	if sink == nil {
		sink = console.Discard()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	runner := opts.Runner
	if runner == nil {
		runner = ExecRunner{}
	}

	return &Orchestrator{
		bin:         bin,
		dir:         opts.WorkingDir,
		allowXdebug: opts.AllowXdebug,
		io:          sink,
		logger:      logger,
		runner:      runner,
	}, nil
}

// Binary returns the executable path commands run with.
func (o *Orchestrator) Binary() string {
	return o.bin
}

// Version returns the version reported by the executable, parsed from the
// "Composer version <token>" line.
func (o *Orchestrator) Version(ctx context.Context) (string, error) {
	res, err := o.run(ctx, "--version")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeVersionCheckFailed, err, "determine the composer version")
	}

	version, err := parseVersion(res.Stdout)
	if err != nil {
		return "", err
	}

	observability.Composer().OnVersionDetected(ctx, version)
	return version, nil
}

// CheckVersion returns the detected version and fails when it is provably
// older than MinimumVersion.
func (o *Orchestrator) CheckVersion(ctx context.Context) (string, error) {
	version, err := o.Version(ctx)
	if err != nil {
		return "", err
	}
	if !MeetsMinimum(version, MinimumVersion) {
		return version, errors.New(errors.ErrCodeIncompatibleComposer,
			"composer %s is not supported, upgrade to %s or newer", version, MinimumVersion)
	}
	return version, nil
}

// VendorDir asks Composer for the configured vendor directory. The value
// is returned as reported, which is usually relative to the project root.
func (o *Orchestrator) VendorDir(ctx context.Context) (string, error) {
	args := []string{"config", "vendor-dir"}
	if o.io.Decorated {
		args = append(args, "--ansi")
	}

	res, err := o.run(ctx, args...)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeVendorDirLookup, err, "look up the vendor directory")
	}
	return strings.TrimSpace(res.Stdout), nil
}

// DumpResult summarizes a DumpAutoload run.
type DumpResult struct {
	// VendorDir is the vendor directory reported by Composer. Empty when
	// no rewrite was requested.
	VendorDir string

	// Entrypoint is the path of the rewritten autoload file. Empty when
	// no rewrite was requested.
	Entrypoint string

	// Rewritten reports whether the entrypoint was rewritten.
	Rewritten bool

	// LoaderMatched reports whether the rewrite found the bootstrap
	// return statement. Meaningful only when Rewritten is true.
	LoaderMatched bool
}

// DumpAutoload regenerates the authoritative class map and, when prefix
// is non-empty, splices the relocation loader into the vendor autoload
// entrypoint.
//
// The class map dump always runs. The entrypoint rewrite only happens for
// a non-empty prefix, and the entrypoint file is never touched when any
// preceding subprocess fails.
func (o *Orchestrator) DumpAutoload(ctx context.Context, symbols autoload.SymbolSource, prefix string, excludeDev bool) (*DumpResult, error) {
	args := []string{"dump-autoload", "--classmap-authoritative"}
	if excludeDev {
		args = append(args, "--no-dev")
	}
	if flag := verbosityFlag(o.io.Verbosity); flag != "" {
		args = append(args, flag)
	}
	if o.io.Decorated {
		args = append(args, "--ansi")
	}

	o.logger.Info("dumping the Composer autoloader", "excludeDev", excludeDev)
	if _, err := o.run(ctx, args...); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDumpFailed, err, "dump the autoloader")
	}

	if prefix == "" {
		o.logger.Debug("no relocation prefix, skipping the autoload rewrite")
		return &DumpResult{}, nil
	}

	vendorDir, err := o.VendorDir(ctx)
	if err != nil {
		return nil, err
	}

	entrypoint := o.EntrypointPath(vendorDir)
	o.logger.Info("rewriting the autoload entrypoint", "path", entrypoint, "symbols", symbols.Count())

	res, err := autoload.RewriteFile(ctx, entrypoint, symbols)
	if err != nil {
		return nil, err
	}
	if !res.LoaderMatched {
		o.logger.Warn("loader return statement not found; relocated symbols may not initialize",
			"path", entrypoint)
	}

	return &DumpResult{
		VendorDir:     vendorDir,
		Entrypoint:    entrypoint,
		Rewritten:     true,
		LoaderMatched: res.LoaderMatched,
	}, nil
}

// EntrypointPath resolves the autoload entrypoint below the reported
// vendor directory, anchored at the working directory for relative paths.
func (o *Orchestrator) EntrypointPath(vendorDir string) string {
	if filepath.IsAbs(vendorDir) {
		return filepath.Join(vendorDir, "autoload.php")
	}
	return filepath.Join(o.dir, vendorDir, "autoload.php")
}

// run executes one Composer command, reports it to the registered hooks,
// and logs captured output at verbose levels.
func (o *Orchestrator) run(ctx context.Context, args ...string) (Result, error) {
	cmd := Command{Bin: o.bin, Args: args, Dir: o.dir, Env: o.envOverlay()}

	o.logger.Debug("running command", "command", cmd.CommandLine())

	observability.Composer().OnCommandStart(ctx, cmd.Bin, cmd.Args)
	start := time.Now()
	res, err := o.runner.Run(ctx, cmd)
	observability.Composer().OnCommandComplete(ctx, cmd.Bin, cmd.Args, res.ExitCode, time.Since(start), err)

	o.logOutput(cmd, res)

	if err != nil {
		return res, errors.Wrap(errors.ErrCodeCommandFailed, err, "run %q", cmd.CommandLine())
	}
	return res, nil
}

// logOutput forwards captured subprocess output when it is non-empty and
// the configured verbosity is at least verbose.
func (o *Orchestrator) logOutput(cmd Command, res Result) {
	if !o.io.IsVerbose() {
		return
	}
	if out := strings.TrimSpace(res.Stdout); out != "" {
		o.logger.Debug("command stdout", "command", cmd.CommandLine(), "output", out)
	}
	if errOut := strings.TrimSpace(res.Stderr); errOut != "" {
		o.logger.Debug("command stderr", "command", cmd.CommandLine(), "output", errOut)
	}
}

// envOverlay builds the environment overrides for a subprocess. Exactly
// one override exists: the debugger-allow flag, propagated only when the
// orchestrator was configured to allow it.
func (o *Orchestrator) envOverlay() map[string]string {
	if !o.allowXdebug {
		return nil
	}
	return map[string]string{composerAllowXdebugEnv: "1"}
}

// verbosityFlag maps an output level to the flag forwarded to Composer:
// debug gets the most verbose flag, very verbose the intermediate one,
// and everything else adds nothing.
func verbosityFlag(v console.Verbosity) string {
	switch {
	case v >= console.Debug:
		return "-vvv"
	case v >= console.VeryVerbose:
		return "-v"
	default:
		return ""
	}
}
