package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"image-finder/internal/cli"
	"image-finder/internal/models"
	"image-finder/internal/services"
)

type copyOptions struct {
	source      string
	destination string
	serialsFile string
	jobFile     string
	yes         bool
	verbose     bool
	lockDir     string
}

func newCopyCommand(ctx *commandContext) *cobra.Command {
	opts := &copyOptions{}

	cmd := &cobra.Command{
		Use:   "copy",
		Short: "Run a search and copy without opening the window",
		Example: `  image-finder copy --source /photos --dest /out --serials serials.txt
  cat serials.txt | image-finder copy --source /photos --dest /out --serials - --yes
  image-finder copy --job job.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCopy(cmd, ctx, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.source, "source", "s", "", "Folder to search recursively")
	flags.StringVarP(&opts.destination, "dest", "d", "", "Folder to copy matches into")
	flags.StringVar(&opts.serialsFile, "serials", "", "File with one serial per line, or - for stdin")
	flags.StringVar(&opts.jobFile, "job", "", "YAML job file with source, destination and serials")
	flags.BoolVarP(&opts.yes, "yes", "y", false, "Copy large match sets without asking")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "List every copied file while running")
	flags.StringVar(&opts.lockDir, "lock-dir", "", "Directory for destination lock files")
	cmd.MarkFlagsMutuallyExclusive("job", "serials")

	return cmd
}

// buildJob merges the job file with flags; flags win.
func (o *copyOptions) buildJob(cmd *cobra.Command) (models.Job, error) {
	var job models.Job
	if o.jobFile != "" {
		loaded, err := cli.LoadJobFile(o.jobFile)
		if err != nil {
			return models.Job{}, err
		}
		job = loaded
	}
	if o.source != "" {
		job.Source = o.source
	}
	if o.destination != "" {
		job.Destination = o.destination
	}
	if o.serialsFile != "" {
		serials, err := cli.ReadSerials(o.serialsFile, cmd.InOrStdin())
		if err != nil {
			return models.Job{}, err
		}
		job.Serials = serials
	}
	return job, nil
}

func runCopy(cmd *cobra.Command, ctx *commandContext, opts *copyOptions) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	log, err := ctx.ensureLogger()
	if err != nil {
		return err
	}

	job, err := opts.buildJob(cmd)
	if err != nil {
		return err
	}
	if err := job.Validate(); err != nil {
		return err
	}

	locks, err := services.NewLockManager(opts.lockDir)
	if err != nil {
		return err
	}
	searchService := services.NewSearchService(services.Settings{
		MatchLimit:       cfg.MatchLimit,
		ConfirmThreshold: cfg.ConfirmThreshold,
		CaseInsensitive:  cfg.CaseInsensitive,
	}, models.NewResultRepository(), models.NewRunStateRepository(), locks, log)

	stderr := cmd.ErrOrStderr()
	reporter := cli.NewProgressReporter(stderr, len(job.Serials), opts.verbose)

	var confirmer services.Confirmer
	switch {
	case opts.yes:
		confirmer = cli.AutoConfirmer(true)
	case opts.serialsFile != "-" && cli.IsTerminal(os.Stdin):
		confirmer = cli.NewPromptConfirmer(cmd.InOrStdin(), stderr, reporter.Clear)
	default:
		// Nobody can answer, so large match sets are skipped.
		confirmer = cli.AutoConfirmer(false)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := searchService.Run(runCtx, job, confirmer, reporter)
	reporter.Finish()
	if err != nil {
		if errors.Is(err, services.ErrDestinationBusy) {
			return fmt.Errorf("%w (%s)", err, job.Destination)
		}
		return err
	}

	out := cmd.OutOrStdout()
	if opts.verbose {
		fmt.Fprintln(out, cli.RenderResults(searchService.Results()))
	}
	fmt.Fprintln(out, cli.RenderSummary(summary))

	if summary.Failed > 0 {
		return fmt.Errorf("%d files could not be copied", summary.Failed)
	}
	return nil
}
