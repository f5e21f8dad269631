package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/autosplice/autosplice/pkg/autoload"
	"github.com/autosplice/autosplice/pkg/composer"
	"github.com/autosplice/autosplice/pkg/errors"
	pkgio "github.com/autosplice/autosplice/pkg/io"
	"github.com/autosplice/autosplice/pkg/scoper"
)

// dumpOpts holds the command-line flags for the dump command.
type dumpOpts struct {
	prefix      string // relocation namespace prefix ("" disables the rewrite)
	symbols     string // path to the JSON relocation registry
	noDev       bool   // exclude dev dependencies from the class map
	composerBin string // explicit Composer executable path
	workingDir  string // project directory commands run in
	configPath  string // explicit config file path
	dryRun      bool   // print the rewritten entrypoint instead of writing it
	allowXdebug bool   // keep a loaded debugger enabled in subprocesses
}

// dumpCommand creates the dump command: regenerate the class map and
// splice the relocation loader into vendor/autoload.php.
func (c *CLI) dumpCommand() *cobra.Command {
	opts := dumpOpts{}

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Regenerate the Composer class map and splice the relocation loader",
		Long: `Dump runs "composer dump-autoload --classmap-authoritative" and, when a
relocation prefix is in effect, rewrites vendor/autoload.php so the
relocated (scoped) symbols stay reachable under their original names.

The relocation registry is the JSON file produced by the prefixing step.
Without a prefix only the class map is refreshed; the entrypoint is left
untouched.`,
		Example: `  autosplice dump --prefix Isolated --symbols scoper.symbols.json
  autosplice dump --no-dev --prefix Isolated --symbols scoper.symbols.json
  autosplice dump --dry-run --prefix Isolated --symbols scoper.symbols.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDump(cmd, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.prefix, "prefix", "", "relocation namespace prefix (defaults to the registry's prefix)")
	cmd.Flags().StringVarP(&opts.symbols, "symbols", "s", "", "JSON relocation registry file")
	cmd.Flags().BoolVar(&opts.noDev, "no-dev", false, "exclude dev dependencies from the class map")
	cmd.Flags().StringVar(&opts.composerBin, "composer-bin", "", "Composer executable (discovered on PATH if empty)")
	cmd.Flags().StringVarP(&opts.workingDir, "working-dir", "d", ".", "project directory")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (default: autosplice.toml in the project directory)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print the rewritten entrypoint to stdout without writing it")
	cmd.Flags().BoolVar(&opts.allowXdebug, "allow-xdebug", false, "keep a loaded debugger extension enabled in Composer")

	return cmd
}

// runDump executes the dump pipeline: config overlay, registry load,
// version gate, class map dump, and the optional entrypoint rewrite.
func (c *CLI) runDump(cmd *cobra.Command, opts *dumpOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := loadConfig(opts.configPath, opts.workingDir)
	if err != nil {
		return err
	}
	cfg.apply(cmd.Flags().Changed, opts)

	reg, prefix, err := loadRegistry(opts)
	if err != nil {
		return err
	}
	if prefix != "" {
		if err := errors.ValidatePrefix(prefix); err != nil {
			return err
		}
	}

	orch, err := c.newOrchestrator(opts.composerBin, opts.workingDir, opts.allowXdebug)
	if err != nil {
		return err
	}

	version, err := orch.CheckVersion(ctx)
	if err != nil {
		return err
	}
	logger.Debug("composer detected", "binary", orch.Binary(), "version", version)

	if opts.dryRun {
		return c.dumpDryRun(ctx, cmd.OutOrStdout(), orch, reg, prefix)
	}

	prog := newProgress(logger)

	var spin *Spinner
	if c.decorated && !c.consoleIO().IsQuiet() && !c.consoleIO().IsVerbose() {
		spin = newSpinnerWithContext(ctx, "Dumping the Composer autoloader...")
		spin.Start()
	}

	res, err := orch.DumpAutoload(ctx, reg, prefix, opts.noDev)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}

	prog.done("Dumped the Composer autoloader")

	if c.consoleIO().IsQuiet() {
		return nil
	}
	if !res.Rewritten {
		printInfo("Class map refreshed, no relocation prefix configured")
		printDetail("pass --prefix or a symbols file to splice a relocation loader")
		return nil
	}

	printSuccess("Spliced the relocation loader into the autoload entrypoint")
	printFile(res.Entrypoint)
	printStats(len(reg.Classes()), len(reg.Functions()), res.LoaderMatched)
	if !res.LoaderMatched {
		printWarning("loader return statement not found in %s; relocated symbols may not initialize", res.Entrypoint)
	}
	return nil
}

// dumpDryRun prints the rewritten entrypoint without running the class
// map dump or touching any file. The rewritten contents go to out so they
// can be piped; diagnostics stay on the logger.
func (c *CLI) dumpDryRun(ctx context.Context, out io.Writer, orch *composer.Orchestrator, reg *scoper.Registry, prefix string) error {
	if prefix == "" {
		fmt.Fprintln(out, "No relocation prefix configured, nothing to rewrite")
		return nil
	}

	vendorDir, err := orch.VendorDir(ctx)
	if err != nil {
		return err
	}
	entrypoint := orch.EntrypointPath(vendorDir)

	contents, err := autoload.ReadFile(entrypoint)
	if err != nil {
		return err
	}

	res := autoload.Rewrite(contents, reg)
	if !res.LoaderMatched {
		loggerFromContext(ctx).Warn("loader return statement not found; relocated symbols may not initialize", "path", entrypoint)
	}
	fmt.Fprint(out, res.Contents)
	return nil
}

// loadRegistry builds the relocation registry from the symbols file. The
// --prefix flag wins over the registry's recorded prefix; with neither, no
// relocation is requested and the rewrite is skipped.
func loadRegistry(opts *dumpOpts) (*scoper.Registry, string, error) {
	if opts.symbols == "" {
		return scoper.NewRegistry(opts.prefix), opts.prefix, nil
	}

	reg, err := pkgio.ImportJSON(opts.symbols)
	if err != nil {
		return nil, "", err
	}

	prefix := opts.prefix
	if prefix == "" {
		prefix = reg.Prefix()
	}
	return reg, prefix, nil
}
