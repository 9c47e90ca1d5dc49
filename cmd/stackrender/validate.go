package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/stackrender/internal/app/rendering"
	"github.com/alexisbeaulieu97/stackrender/internal/config"
	"github.com/alexisbeaulieu97/stackrender/internal/placeholder"
)

func newValidateCmd(root *rootFlags) *cobra.Command {
	var questionPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a question document (and the configuration, when given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, root, questionPath)
		},
	}

	cmd.Flags().StringVarP(&questionPath, "question", "q", "", "Path to the question document")
	cmd.MarkFlagRequired("question") //nolint:errcheck

	return cmd
}

func runValidate(cmd *cobra.Command, root *rootFlags, questionPath string) error {
	if root.configPath != "" {
		if _, err := config.ParseConfig(root.configPath); err != nil {
			return err
		}
	}

	doc, err := config.ParseDocument(questionPath)
	if err != nil {
		return err
	}

	inputs := placeholder.Extract(doc.Text, placeholder.KindInput)
	feedback := placeholder.Extract(doc.Text, placeholder.KindFeedback)
	modes := rendering.Modes(doc)
	modeList := make([]string, 0, len(modes))
	for _, m := range modes {
		modeList = append(modeList, m.Name)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "question %s is valid\n", doc.ID)
	fmt.Fprintf(out, "inputs: %s\n", listOrNone(inputs))
	fmt.Fprintf(out, "feedback: %s\n", listOrNone(feedback))
	fmt.Fprintf(out, "modes: %s\n", strings.Join(modeList, ", "))

	declared := make(map[string]bool, len(doc.Inputs))
	for _, in := range doc.Inputs {
		declared[in.Name] = true
	}
	for _, name := range inputs {
		if !declared[name] {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: input %q is referenced in the template but not declared\n", name)
		}
	}
	return nil
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
