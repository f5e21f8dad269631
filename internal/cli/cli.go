package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/autosplice/autosplice/pkg/buildinfo"
	"github.com/autosplice/autosplice/pkg/composer"
	"github.com/autosplice/autosplice/pkg/console"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for config files and display.
	appName = "autosplice"

	// defaultConfigFile is the per-project config looked up next to composer.json.
	defaultConfigFile = "autosplice.toml"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogWarn  = log.WarnLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	verbosity console.Verbosity
	decorated bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:    newLogger(w, level),
		verbosity: console.Normal,
		decorated: true,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetVerbosity updates the console verbosity and aligns the log level with
// it: quiet maps to warnings only, verbose and above map to debug.
func (c *CLI) SetVerbosity(v console.Verbosity) {
	c.verbosity = v
	switch {
	case v <= console.Quiet:
		c.SetLogLevel(LogWarn)
	case v >= console.Verbose:
		c.SetLogLevel(LogDebug)
	default:
		c.SetLogLevel(LogInfo)
	}
}

// SetDecorated toggles ANSI decoration of command output.
func (c *CLI) SetDecorated(on bool) {
	c.decorated = on
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Autosplice splices scoped class aliases into Composer autoloaders",
		Long:         `Autosplice regenerates a PHP project's Composer class map and rewrites vendor/autoload.php so that namespace-prefixed (scoped) classes and functions stay reachable under their original names.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Attach the shared logger so command helpers can retrieve it from
	// their context. main.go chains its own PersistentPreRunE around this.
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		return nil
	}

	// Register all subcommands
	root.AddCommand(c.dumpCommand())
	root.AddCommand(c.doctorCommand())
	root.AddCommand(c.symbolsCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Orchestrator Factory
// =============================================================================

// newOrchestrator creates a Composer orchestrator for CLI use. An empty
// binary means the executable is discovered on PATH. The environment
// opt-in for xdebug is honored alongside the explicit flag.
func (c *CLI) newOrchestrator(binary, workingDir string, allowDebugger bool) (*composer.Orchestrator, error) {
	return composer.New(composer.Options{
		Binary:      binary,
		WorkingDir:  workingDir,
		AllowXdebug: allowDebugger || allowXdebug(),
		IO:          c.consoleIO(),
		Logger:      c.Logger,
	})
}

// consoleIO builds the output writer pair from the CLI's verbosity state.
func (c *CLI) consoleIO() *console.IO {
	return console.New(os.Stdout, os.Stderr, c.verbosity, c.decorated)
}

// allowXdebug reports whether the host environment opts in to keeping a
// loaded debugger enabled in Composer subprocesses. Only the exact value
// "1" counts as an opt-in.
func allowXdebug() bool {
	return os.Getenv(composer.AllowXdebugEnv) == "1"
}
