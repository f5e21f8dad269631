package composer

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/autosplice/autosplice/pkg/autoload"
	"github.com/autosplice/autosplice/pkg/console"
	"github.com/autosplice/autosplice/pkg/errors"
	"github.com/autosplice/autosplice/pkg/scoper"
)

const bootstrapFixture = `<?php

// autoload.php @generated by Composer

require_once __DIR__ . '/composer/autoload_real.php';

return ComposerAutoloaderInitf00f::getLoader();
`

// fakeRunner scripts subprocess results keyed by the leading argument.
type fakeRunner struct {
	calls  []Command
	stdout map[string]string
	fail   map[string]bool
}

func (f *fakeRunner) Run(_ context.Context, cmd Command) (Result, error) {
	f.calls = append(f.calls, cmd)

	key := ""
	if len(cmd.Args) > 0 {
		key = cmd.Args[0]
	}
	res := Result{Command: cmd, Stdout: f.stdout[key]}
	if f.fail[key] {
		res.ExitCode = 1
		res.Stderr = "scripted failure"
		return res, &ProcessError{Result: res}
	}
	return res, nil
}

func newOrchestrator(t *testing.T, opts Options) *Orchestrator {
	t.Helper()
	if opts.Binary == "" {
		opts.Binary = "composer"
	}
	o, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return o
}

func testSymbols() *scoper.Registry {
	r := scoper.NewRegistry("Isolated")
	r.RecordClass(`Acme\Foo`, `Isolated\Acme\Foo`)
	return r
}

// newProjectDir lays out a project with a Composer-generated entrypoint.
func newProjectDir(t *testing.T) (dir, entrypoint string) {
	t.Helper()
	dir = t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "vendor"), 0755); err != nil {
		t.Fatal(err)
	}
	entrypoint = filepath.Join(dir, "vendor", "autoload.php")
	if err := os.WriteFile(entrypoint, []byte(bootstrapFixture), 0644); err != nil {
		t.Fatal(err)
	}
	return dir, entrypoint
}

func TestVersion(t *testing.T) {
	runner := &fakeRunner{stdout: map[string]string{
		"--version": "Composer version 2.6.5 2023-10-06 10:11:52\n",
	}}
	o := newOrchestrator(t, Options{Runner: runner})

	got, err := o.Version(context.Background())
	if err != nil {
		t.Fatalf("Version() error = %v", err)
	}
	if got != "2.6.5" {
		t.Errorf("Version() = %q, want %q", got, "2.6.5")
	}
	if len(runner.calls) != 1 || runner.calls[0].Args[0] != "--version" {
		t.Errorf("calls = %+v, want one --version invocation", runner.calls)
	}
}

func TestVersionCommandFails(t *testing.T) {
	runner := &fakeRunner{fail: map[string]bool{"--version": true}}
	o := newOrchestrator(t, Options{Runner: runner})

	_, err := o.Version(context.Background())
	if err == nil {
		t.Fatal("Version() expected error")
	}
	if !errors.Is(err, errors.ErrCodeVersionCheckFailed) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeVersionCheckFailed)
	}
}

func TestVersionUnparsableOutput(t *testing.T) {
	runner := &fakeRunner{stdout: map[string]string{"--version": "garbage output"}}
	o := newOrchestrator(t, Options{Runner: runner})

	_, err := o.Version(context.Background())
	if err == nil {
		t.Fatal("Version() expected error")
	}
	if !errors.Is(err, errors.ErrCodeVersionCheckFailed) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeVersionCheckFailed)
	}
}

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		want     string
		wantCode errors.Code
	}{
		{"supported", "Composer version 2.6.5\n", "2.6.5", ""},
		{"minimum", "Composer version 2.2.0\n", "2.2.0", ""},
		{"too old", "Composer version 1.10.26\n", "1.10.26", errors.ErrCodeIncompatibleComposer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{stdout: map[string]string{"--version": tt.output}}
			o := newOrchestrator(t, Options{Runner: runner})

			got, err := o.CheckVersion(context.Background())
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("CheckVersion() error = %v", err)
				}
			} else {
				if err == nil {
					t.Fatal("CheckVersion() expected error")
				}
				if !errors.Is(err, tt.wantCode) {
					t.Errorf("error code = %v, want %v", errors.GetCode(err), tt.wantCode)
				}
			}
			if got != tt.want {
				t.Errorf("CheckVersion() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVendorDir(t *testing.T) {
	runner := &fakeRunner{stdout: map[string]string{"config": "vendor\n"}}
	o := newOrchestrator(t, Options{Runner: runner})

	got, err := o.VendorDir(context.Background())
	if err != nil {
		t.Fatalf("VendorDir() error = %v", err)
	}
	if got != "vendor" {
		t.Errorf("VendorDir() = %q, want %q", got, "vendor")
	}

	wantArgs := []string{"config", "vendor-dir"}
	if !slices.Equal(runner.calls[0].Args, wantArgs) {
		t.Errorf("args = %v, want %v", runner.calls[0].Args, wantArgs)
	}
}

func TestVendorDirDecorated(t *testing.T) {
	runner := &fakeRunner{stdout: map[string]string{"config": "vendor\n"}}
	o := newOrchestrator(t, Options{
		Runner: runner,
		IO:     console.New(nil, nil, console.Normal, true),
	})

	if _, err := o.VendorDir(context.Background()); err != nil {
		t.Fatalf("VendorDir() error = %v", err)
	}

	wantArgs := []string{"config", "vendor-dir", "--ansi"}
	if !slices.Equal(runner.calls[0].Args, wantArgs) {
		t.Errorf("args = %v, want %v", runner.calls[0].Args, wantArgs)
	}
}

func TestDumpAutoloadArgs(t *testing.T) {
	tests := []struct {
		name       string
		verbosity  console.Verbosity
		decorated  bool
		excludeDev bool
		want       []string
	}{
		{
			name:      "normal",
			verbosity: console.Normal,
			want:      []string{"dump-autoload", "--classmap-authoritative"},
		},
		{
			name:      "verbose adds no flag",
			verbosity: console.Verbose,
			want:      []string{"dump-autoload", "--classmap-authoritative"},
		},
		{
			name:      "very verbose",
			verbosity: console.VeryVerbose,
			want:      []string{"dump-autoload", "--classmap-authoritative", "-v"},
		},
		{
			name:      "debug",
			verbosity: console.Debug,
			want:      []string{"dump-autoload", "--classmap-authoritative", "-vvv"},
		},
		{
			name:       "exclude dev",
			verbosity:  console.Normal,
			excludeDev: true,
			want:       []string{"dump-autoload", "--classmap-authoritative", "--no-dev"},
		},
		{
			name:      "decorated",
			verbosity: console.Normal,
			decorated: true,
			want:      []string{"dump-autoload", "--classmap-authoritative", "--ansi"},
		},
		{
			name:       "everything",
			verbosity:  console.Debug,
			decorated:  true,
			excludeDev: true,
			want:       []string{"dump-autoload", "--classmap-authoritative", "--no-dev", "-vvv", "--ansi"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{}
			o := newOrchestrator(t, Options{
				Runner: runner,
				IO:     console.New(nil, nil, tt.verbosity, tt.decorated),
			})

			if _, err := o.DumpAutoload(context.Background(), testSymbols(), "", tt.excludeDev); err != nil {
				t.Fatalf("DumpAutoload() error = %v", err)
			}

			if !slices.Equal(runner.calls[0].Args, tt.want) {
				t.Errorf("args = %v, want %v", runner.calls[0].Args, tt.want)
			}
		})
	}
}

func TestDumpAutoloadRewritesEntrypoint(t *testing.T) {
	dir, entrypoint := newProjectDir(t)
	runner := &fakeRunner{stdout: map[string]string{"config": "vendor\n"}}
	o := newOrchestrator(t, Options{Runner: runner, WorkingDir: dir})

	res, err := o.DumpAutoload(context.Background(), testSymbols(), "Isolated", true)
	if err != nil {
		t.Fatalf("DumpAutoload() error = %v", err)
	}

	if !res.Rewritten {
		t.Error("Rewritten = false, want true")
	}
	if !res.LoaderMatched {
		t.Error("LoaderMatched = false, want true")
	}
	if res.VendorDir != "vendor" {
		t.Errorf("VendorDir = %q, want %q", res.VendorDir, "vendor")
	}
	if res.Entrypoint != entrypoint {
		t.Errorf("Entrypoint = %q, want %q", res.Entrypoint, entrypoint)
	}

	// dump-autoload runs before the vendor-dir lookup.
	if len(runner.calls) != 2 {
		t.Fatalf("len(calls) = %d, want 2", len(runner.calls))
	}
	if runner.calls[0].Args[0] != "dump-autoload" || runner.calls[1].Args[0] != "config" {
		t.Errorf("call order = %v", runner.calls)
	}
	if !slices.Contains(runner.calls[0].Args, "--no-dev") {
		t.Errorf("dump args missing --no-dev: %v", runner.calls[0].Args)
	}

	written, err := os.ReadFile(entrypoint)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(written), autoload.Banner) {
		t.Error("entrypoint was not rewritten")
	}
	if !strings.Contains(string(written), "$loader = ComposerAutoloaderInitf00f::getLoader();") {
		t.Error("entrypoint missing converted loader assignment")
	}
}

func TestDumpAutoloadEmptyPrefixSkipsRewrite(t *testing.T) {
	dir, entrypoint := newProjectDir(t)
	runner := &fakeRunner{}
	o := newOrchestrator(t, Options{Runner: runner, WorkingDir: dir})

	res, err := o.DumpAutoload(context.Background(), testSymbols(), "", false)
	if err != nil {
		t.Fatalf("DumpAutoload() error = %v", err)
	}

	if res.Rewritten {
		t.Error("Rewritten = true, want false")
	}
	if len(runner.calls) != 1 {
		t.Errorf("len(calls) = %d, want 1 (no vendor-dir lookup)", len(runner.calls))
	}

	written, _ := os.ReadFile(entrypoint)
	if string(written) != bootstrapFixture {
		t.Error("entrypoint modified despite empty prefix")
	}
}

func TestDumpAutoloadDumpFailure(t *testing.T) {
	dir, entrypoint := newProjectDir(t)
	runner := &fakeRunner{fail: map[string]bool{"dump-autoload": true}}
	o := newOrchestrator(t, Options{Runner: runner, WorkingDir: dir})

	_, err := o.DumpAutoload(context.Background(), testSymbols(), "Isolated", false)
	if err == nil {
		t.Fatal("DumpAutoload() expected error")
	}
	if !errors.Is(err, errors.ErrCodeDumpFailed) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeDumpFailed)
	}
	if len(runner.calls) != 1 {
		t.Errorf("len(calls) = %d, want 1 (abort before vendor-dir lookup)", len(runner.calls))
	}

	written, _ := os.ReadFile(entrypoint)
	if string(written) != bootstrapFixture {
		t.Error("entrypoint modified despite dump failure")
	}
}

func TestDumpAutoloadVendorDirFailure(t *testing.T) {
	dir, entrypoint := newProjectDir(t)
	runner := &fakeRunner{fail: map[string]bool{"config": true}}
	o := newOrchestrator(t, Options{Runner: runner, WorkingDir: dir})

	_, err := o.DumpAutoload(context.Background(), testSymbols(), "Isolated", false)
	if err == nil {
		t.Fatal("DumpAutoload() expected error")
	}
	if !errors.Is(err, errors.ErrCodeVendorDirLookup) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeVendorDirLookup)
	}

	written, _ := os.ReadFile(entrypoint)
	if string(written) != bootstrapFixture {
		t.Error("entrypoint modified despite vendor-dir failure")
	}
}

func TestDumpAutoloadWarnsOnLoaderMismatch(t *testing.T) {
	dir, entrypoint := newProjectDir(t)
	// An entrypoint without the return statement degrades to pass-through.
	if err := os.WriteFile(entrypoint, []byte("<?php\nrequire 'x';\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	runner := &fakeRunner{stdout: map[string]string{"config": "vendor\n"}}
	o := newOrchestrator(t, Options{Runner: runner, WorkingDir: dir, Logger: logger})

	res, err := o.DumpAutoload(context.Background(), testSymbols(), "Isolated", false)
	if err != nil {
		t.Fatalf("DumpAutoload() error = %v", err)
	}
	if res.LoaderMatched {
		t.Error("LoaderMatched = true, want false")
	}
	if !strings.Contains(buf.String(), "loader return statement not found") {
		t.Errorf("missing mismatch warning in log output:\n%s", buf.String())
	}
}

func TestEnvOverlay(t *testing.T) {
	t.Run("xdebug allowed", func(t *testing.T) {
		runner := &fakeRunner{stdout: map[string]string{"--version": "Composer version 2.6.5\n"}}
		o := newOrchestrator(t, Options{Runner: runner, AllowXdebug: true})

		if _, err := o.Version(context.Background()); err != nil {
			t.Fatalf("Version() error = %v", err)
		}
		if got := runner.calls[0].Env["COMPOSER_ALLOW_XDEBUG"]; got != "1" {
			t.Errorf("COMPOSER_ALLOW_XDEBUG = %q, want %q", got, "1")
		}
	})

	t.Run("default", func(t *testing.T) {
		runner := &fakeRunner{stdout: map[string]string{"--version": "Composer version 2.6.5\n"}}
		o := newOrchestrator(t, Options{Runner: runner})

		if _, err := o.Version(context.Background()); err != nil {
			t.Fatalf("Version() error = %v", err)
		}
		if len(runner.calls[0].Env) != 0 {
			t.Errorf("Env = %v, want empty", runner.calls[0].Env)
		}
	})
}

func TestAbsoluteVendorDir(t *testing.T) {
	dir := t.TempDir()
	vendorDir := filepath.Join(dir, "deps")
	if err := os.MkdirAll(vendorDir, 0755); err != nil {
		t.Fatal(err)
	}
	entrypoint := filepath.Join(vendorDir, "autoload.php")
	if err := os.WriteFile(entrypoint, []byte(bootstrapFixture), 0644); err != nil {
		t.Fatal(err)
	}

	runner := &fakeRunner{stdout: map[string]string{"config": vendorDir + "\n"}}
	o := newOrchestrator(t, Options{Runner: runner})

	res, err := o.DumpAutoload(context.Background(), testSymbols(), "Isolated", false)
	if err != nil {
		t.Fatalf("DumpAutoload() error = %v", err)
	}
	if res.Entrypoint != entrypoint {
		t.Errorf("Entrypoint = %q, want %q", res.Entrypoint, entrypoint)
	}
}

func TestFindNamed(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("PATH semantics differ on Windows")
	}

	t.Run("prefers the bare name", func(t *testing.T) {
		dir := t.TempDir()
		bare := filepath.Join(dir, "mytool")
		for _, p := range []string{bare, bare + ".phar"} {
			if err := os.WriteFile(p, []byte("#!/bin/sh\n"), 0755); err != nil {
				t.Fatal(err)
			}
		}
		t.Setenv("PATH", dir)

		got, err := FindNamed("mytool")
		if err != nil {
			t.Fatalf("FindNamed() error = %v", err)
		}
		if got != bare {
			t.Errorf("FindNamed() = %q, want %q", got, bare)
		}
	})

	t.Run("falls back to the phar", func(t *testing.T) {
		dir := t.TempDir()
		phar := filepath.Join(dir, "mytool.phar")
		if err := os.WriteFile(phar, []byte("#!/bin/sh\n"), 0755); err != nil {
			t.Fatal(err)
		}
		t.Setenv("PATH", dir)

		got, err := FindNamed("mytool")
		if err != nil {
			t.Fatalf("FindNamed() error = %v", err)
		}
		if got != phar {
			t.Errorf("FindNamed() = %q, want %q", got, phar)
		}
	})

	t.Run("not found", func(t *testing.T) {
		t.Setenv("PATH", t.TempDir())

		_, err := FindNamed("mytool")
		if err == nil {
			t.Fatal("FindNamed() expected error")
		}
		if !errors.Is(err, errors.ErrCodeComposerNotFound) {
			t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeComposerNotFound)
		}
	})
}

func TestNewDiscoversBinary(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("PATH semantics differ on Windows")
	}

	dir := t.TempDir()
	bin := filepath.Join(dir, "composer")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", dir)

	o, err := New(Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if o.Binary() != bin {
		t.Errorf("Binary() = %q, want %q", o.Binary(), bin)
	}
}

func TestNewMissingBinary(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	_, err := New(Options{})
	if err == nil {
		t.Fatal("New() expected error")
	}
	if !errors.Is(err, errors.ErrCodeComposerNotFound) {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeComposerNotFound)
	}
}
