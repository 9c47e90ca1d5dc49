package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/stackrender/internal/app/rendering"
	"github.com/alexisbeaulieu97/stackrender/internal/render"
)

type batchOptions struct {
	Mode        string
	NoFeedback  bool
	Concurrency int
}

func newBatchCmd(root *rootFlags) *cobra.Command {
	opts := batchOptions{}

	cmd := &cobra.Command{
		Use:   "batch <question-file>...",
		Short: "Render many question documents concurrently",
		Long: `Batch renders every document with the same mode. Output keeps the order of
the arguments; a failing document does not stop the others.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, root, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.Mode, "mode", "m", render.ModeQuestion.Name, "Render mode ("+modeNames()+")")
	cmd.Flags().BoolVar(&opts.NoFeedback, "no-feedback", false, "Hide inline feedback")
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", rendering.DefaultConcurrency, "Maximum documents rendered at once")

	return cmd
}

func runBatch(cmd *cobra.Command, root *rootFlags, opts batchOptions, paths []string) error {
	ctx, app, err := newAppContext(cmd, root, "batch")
	if err != nil {
		return err
	}
	defer app.Close() //nolint:errcheck

	items := make([]rendering.BatchItem, 0, len(paths))
	for _, p := range paths {
		items = append(items, rendering.BatchItem{Path: p})
	}

	results, err := app.Service.Batch(ctx, opts.Mode, !opts.NoFeedback, items, opts.Concurrency)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			printError(errOut, r.Path, r.Err)
			continue
		}
		printHeader(out, fmt.Sprintf("==> %s <==", r.Path))
		fmt.Fprintln(out, r.Result.Text)
		printWarnings(errOut, r.Path, r.Result)
	}

	app.Logger.Info(ctx, "batch finished", "documents", len(results), "failed", failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(results))
	}
	return nil
}
