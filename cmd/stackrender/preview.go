package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/stackrender/internal/config"
	"github.com/alexisbeaulieu97/stackrender/internal/tui/preview"
)

func newPreviewCmd(root *rootFlags) *cobra.Command {
	var (
		questionPath string
		noFeedback   bool
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Browse every render mode of a question in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := config.ParseDocument(questionPath)
			if err != nil {
				return err
			}

			ctx, app, err := newBufferedAppContext(cmd, root, "preview")
			if err != nil {
				return err
			}
			defer app.Close() //nolint:errcheck

			m := preview.NewModel(ctx, app.Service, doc, !noFeedback)
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
			if _, err := p.Run(); err != nil {
				app.Logger.Error(ctx, "preview failed", "error", err)
				return fmt.Errorf("failed to run preview: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&questionPath, "question", "q", "", "Path to the question document")
	cmd.Flags().BoolVar(&noFeedback, "no-feedback", false, "Start with inline feedback hidden")
	cmd.MarkFlagRequired("question") //nolint:errcheck

	return cmd
}
