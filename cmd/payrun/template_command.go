package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"payrun/internal/templates"
)

func newTemplateCommand(ctx *commandContext) *cobra.Command {
	templateCmd := &cobra.Command{
		Use:   "template",
		Short: "Notification message template utilities",
	}

	templateCmd.AddCommand(newTemplateShowCommand(ctx))
	templateCmd.AddCommand(newTemplateInitCommand(ctx))

	return templateCmd
}

func newTemplateShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the notification template",
		Long: "Prints the notification template used for recipient messages, creating the\n" +
			"default template file first if none exists yet.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			content, err := templates.LoadOrCreate(cfg.Paths.TemplatePath)
			if err != nil {
				return err
			}
			if _, err := templates.Parse(content); err != nil {
				return fmt.Errorf("template at %s does not compile: %w", cfg.Paths.TemplatePath, err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Template path: %s\n\n", cfg.Paths.TemplatePath)
			fmt.Fprintln(out, content)
			return nil
		},
	}
}

func newTemplateInitCommand(ctx *commandContext) *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default notification template",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			target := cfg.Paths.TemplatePath
			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("template already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check template path: %w", err)
				}
			} else {
				// LoadOrCreate only writes when the file is absent.
				if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("replace template: %w", err)
				}
			}
			if _, err := templates.LoadOrCreate(target); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote default template to %s\n", target)
			return nil
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing template if present")
	return cmd
}
