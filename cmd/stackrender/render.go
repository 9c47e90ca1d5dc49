package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/stackrender/internal/app/rendering"
	"github.com/alexisbeaulieu97/stackrender/internal/config"
	"github.com/alexisbeaulieu97/stackrender/internal/httpapi"
	"github.com/alexisbeaulieu97/stackrender/internal/infrastructure/bootstrap"
	"github.com/alexisbeaulieu97/stackrender/internal/render"
)

type renderOptions struct {
	QuestionPath string
	Mode         string
	NoFeedback   bool
	Scope        string
	Bootstrap    bool
	JSON         bool
	Strict       bool
}

func newRenderCmd(root *rootFlags) *cobra.Command {
	opts := renderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a question document in one mode",
		Long: `Render expands the question document's template in the chosen mode and
prints the markup. Diagnostics are written to stderr.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.QuestionPath, "question", "q", "", "Path to the question document")
	cmd.Flags().StringVarP(&opts.Mode, "mode", "m", render.ModeQuestion.Name, "Render mode ("+modeNames()+")")
	cmd.Flags().BoolVar(&opts.NoFeedback, "no-feedback", false, "Hide inline feedback")
	cmd.Flags().StringVar(&opts.Scope, "scope", "", "Style scope, overriding the configured one")
	cmd.Flags().BoolVar(&opts.Bootstrap, "bootstrap", false, "Append the client validation bootstrap script")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Print the full result as JSON")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Fail when the render produced warnings")
	cmd.MarkFlagRequired("question") //nolint:errcheck

	return cmd
}

func runRender(cmd *cobra.Command, root *rootFlags, opts renderOptions) error {
	doc, err := config.ParseDocument(opts.QuestionPath)
	if err != nil {
		return err
	}

	ctx, app, err := newAppContext(cmd, root, "render")
	if err != nil {
		return err
	}
	defer app.Close() //nolint:errcheck

	res, err := app.Service.Render(ctx, rendering.Request{
		Mode:     opts.Mode,
		Document: doc,
		Feedback: !opts.NoFeedback,
		Scope:    opts.Scope,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(httpapi.NewRenderResponse(res)); err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
	} else {
		fmt.Fprintln(out, res.Text)
		if opts.Bootstrap && len(res.InputsToValidate) > 0 {
			script, err := bootstrap.Script(res.Bootstrap)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, script)
		}
		printWarnings(cmd.ErrOrStderr(), "", res)
	}

	if warnings := res.Warnings(); opts.Strict && len(warnings) > 0 {
		return fmt.Errorf("render produced %d warning(s)", len(warnings))
	}
	return nil
}
