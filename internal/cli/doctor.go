package cli

import (
	"github.com/spf13/cobra"

	"github.com/autosplice/autosplice/pkg/composer"
)

// doctorCommand creates the doctor command for diagnosing the Composer
// toolchain.
func (c *CLI) doctorCommand() *cobra.Command {
	var (
		composerBin string
		workingDir  string
	)

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the Composer executable, version, and project layout",
		Long: `Doctor locates the Composer executable, parses its reported version,
checks it against the supported minimum, and resolves the project's vendor
directory. Use it to verify a host before wiring autosplice into a build.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			orch, err := c.newOrchestrator(composerBin, workingDir, false)
			if err != nil {
				printError("No Composer executable found on PATH")
				return err
			}
			printKeyValue("binary", orch.Binary())

			version, err := orch.Version(ctx)
			if err != nil {
				printError("Could not determine the Composer version")
				return err
			}
			printKeyValue("version", version)

			if composer.MeetsMinimum(version, composer.MinimumVersion) {
				printKeyValue("supported", "yes (>= "+composer.MinimumVersion+")")
			} else {
				printKeyValue("supported", "no (need >= "+composer.MinimumVersion+")")
			}

			vendorDir, err := orch.VendorDir(ctx)
			if err != nil {
				printError("Could not resolve the vendor directory")
				return err
			}
			printKeyValue("vendor-dir", vendorDir)
			printKeyValue("entrypoint", orch.EntrypointPath(vendorDir))

			printNewline()
			printSuccess("Composer toolchain looks healthy")
			printNextStep("Splice a relocation loader", "autosplice dump --prefix <Prefix> --symbols symbols.json")
			return nil
		},
	}

	cmd.Flags().StringVar(&composerBin, "composer-bin", "", "Composer executable (discovered on PATH if empty)")
	cmd.Flags().StringVarP(&workingDir, "working-dir", "d", ".", "project directory")

	return cmd
}
