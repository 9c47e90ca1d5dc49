package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/stackrender/internal/app/rendering"
	"github.com/alexisbeaulieu97/stackrender/internal/config"
	"github.com/alexisbeaulieu97/stackrender/internal/render"
	"github.com/alexisbeaulieu97/stackrender/pkg/diff"
)

type diffOptions struct {
	QuestionPath string
	From         string
	To           string
	NoFeedback   bool
	Scope        string
}

func newDiffCmd(root *rootFlags) *cobra.Command {
	opts := diffOptions{}

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Show a unified diff between two render modes of a question",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.QuestionPath, "question", "q", "", "Path to the question document")
	cmd.Flags().StringVar(&opts.From, "from", render.ModeQuestion.Name, "Base render mode")
	cmd.Flags().StringVar(&opts.To, "to", render.ModeBestSolution.Name, "Compared render mode")
	cmd.Flags().BoolVar(&opts.NoFeedback, "no-feedback", false, "Hide inline feedback")
	cmd.Flags().StringVar(&opts.Scope, "scope", "", "Style scope, overriding the configured one")
	cmd.MarkFlagRequired("question") //nolint:errcheck

	return cmd
}

func runDiff(cmd *cobra.Command, root *rootFlags, opts diffOptions) error {
	doc, err := config.ParseDocument(opts.QuestionPath)
	if err != nil {
		return err
	}

	ctx, app, err := newAppContext(cmd, root, "diff")
	if err != nil {
		return err
	}
	defer app.Close() //nolint:errcheck

	texts := make([]string, 2)
	for i, mode := range []string{opts.From, opts.To} {
		res, err := app.Service.Render(ctx, rendering.Request{
			Mode:     mode,
			Document: doc,
			Feedback: !opts.NoFeedback,
			Scope:    opts.Scope,
		})
		if err != nil {
			return err
		}
		texts[i] = res.Text
	}

	out := cmd.OutOrStdout()
	d := diff.Renders(texts[0], texts[1], opts.From, opts.To)
	if d == "" {
		fmt.Fprintf(out, "no differences between %s and %s\n", opts.From, opts.To)
		return nil
	}
	fmt.Fprint(out, d)
	return nil
}
