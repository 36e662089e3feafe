// internal/app/app.go
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"btyper/internal/appcore"
	"btyper/internal/cli"
	"btyper/internal/config"
	"btyper/internal/pipeline"
	"btyper/internal/version"
)

// newAligner is swapped in tests.
var newAligner appcore.AlignerFunc = appcore.NewTools

const long = `btyper: taxonomic classification of Bacillus cereus group genomes

Assigns species, subspecies and pseudo-gene flow unit by ANI (fastANI),
detects virulence and Bt toxin genes, calls seven-gene MLST and panC group
(BLAST+), and combines them into biovars and a final taxon name.

Configuration precedence: built-in defaults < --config YAML < BTYPER_*
environment variables < flags given on the command line.`

func newRootCommand(stdout, stderr io.Writer, argv []string, code *int) *cobra.Command {
	var opts cli.Options
	cmd := &cobra.Command{
		Use:           "btyper -i genome.fna [-i genome2.fna.gz ...] [flags]",
		Short:         "Bacillus cereus group genome typing",
		Long:          long,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Inputs = append(opts.Inputs, args...)
			if err := opts.Finish(); err != nil {
				return err
			}
			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return err
			}
			opts.Apply(cmd.Flags(), cfg)

			*code = appcore.Run(cmd.Context(), stdout, stderr, cfg,
				appcore.Options{
					Inputs:     opts.Inputs,
					OutDir:     opts.OutDir,
					Categories: pipeline.Categories(opts.Categories()),
					Threads:    opts.Threads,
					FailFast:   opts.FailFast,
					Quiet:      opts.Quiet,
					Verbose:    opts.Verbose,
					Argv:       argv,
				},
				newAligner,
				appcore.NewRecordWriterFactory(opts.Format, opts.Sort, opts.Header),
			)
			return nil
		},
	}
	cmd.SetVersionTemplate("btyper version {{.Version}}\n")
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.Flags().SortFlags = false
	opts.Register(cmd.Flags(), config.Default())
	return cmd
}

// RunContext parses argv, runs the batch and returns the process exit code:
// 0 ok, 2 usage or configuration error, 3 runtime failure, 130 cancelled.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	code := 0
	cmd := newRootCommand(stdout, stderr, argv, &code)
	if len(argv) == 0 {
		argv = []string{"--help"}
	}
	cmd.SetArgs(argv)

	if err := cmd.ExecuteContext(parent); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		fmt.Fprintln(stderr, "Run 'btyper --help' for usage.")
		return 2
	}
	return code
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
