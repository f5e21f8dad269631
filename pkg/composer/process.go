package composer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
)

// Command describes one subprocess invocation: the executable, its
// arguments, the working directory, and an environment overlay applied on
// top of the inherited host environment.
type Command struct {
	Bin  string
	Args []string
	Dir  string
	Env  map[string]string
}

// CommandLine returns the full command line for diagnostics.
func (c Command) CommandLine() string {
	return strings.Join(append([]string{c.Bin}, c.Args...), " ")
}

// Result captures a finished subprocess.
type Result struct {
	Command  Command
	ExitCode int
	Stdout   string
	Stderr   string
}

// ProcessError reports a subprocess that exited non-zero. It keeps the
// full Result so callers can surface the command line and captured output
// without re-running anything.
type ProcessError struct {
	Result Result
}

func (e *ProcessError) Error() string {
	msg := fmt.Sprintf("%s: exit status %d", e.Result.Command.CommandLine(), e.Result.ExitCode)
	if s := strings.TrimSpace(e.Result.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

// Runner executes subprocesses. ExecRunner is the production
// implementation; tests substitute fakes to script exit codes and output.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ExecRunner runs commands with os/exec, blocking until the child exits.
type ExecRunner struct{}

// Run executes cmd and captures its output. A non-zero exit returns the
// populated Result alongside a *ProcessError; failures to start the
// process at all return the underlying error.
func (ExecRunner) Run(ctx context.Context, cmd Command) (Result, error) {
	c := exec.CommandContext(ctx, cmd.Bin, cmd.Args...)
	c.Dir = cmd.Dir
	c.Env = overlayEnv(os.Environ(), cmd.Env)

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()
	res := Result{
		Command: cmd,
		Stdout:  stdout.String(),
		Stderr:  stderr.String(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, &ProcessError{Result: res}
		}
		return res, fmt.Errorf("start %s: %w", cmd.Bin, err)
	}
	return res, nil
}

// overlayEnv appends overrides to the base environment. Later entries win
// for duplicate keys, so overrides take effect without rewriting base.
// Keys are sorted to keep the environment deterministic.
func overlayEnv(base []string, overrides map[string]string) []string {
	if len(overrides) == 0 {
		return base
	}
	env := make([]string, 0, len(base)+len(overrides))
	env = append(env, base...)

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, k+"="+overrides[k])
	}
	return env
}
