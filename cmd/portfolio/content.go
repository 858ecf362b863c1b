package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ianmwanzi/portfolio/internal/config"
	"github.com/ianmwanzi/portfolio/internal/content"
	"github.com/ianmwanzi/portfolio/internal/icons"
)

func contentCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Inspects the site content",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Validates the content file and prints a summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := content.Load(cfg.ContentPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			source := cfg.ContentPath
			if source == "" {
				source = "built-in"
			}
			fmt.Fprintf(out, "content: %s\n", source)
			fmt.Fprintf(out, "profile: %s (%s)\n", c.Profile.Name, c.Profile.Title)
			fmt.Fprintf(out, "projects: %d (%d featured)\n", len(c.Projects), len(c.Featured()))
			for _, g := range content.GroupSkills(c.Skills) {
				fmt.Fprintf(out, "skills/%s: %d, average %d%%\n", g.Category, len(g.Skills), g.Average())
			}
			fmt.Fprintf(out, "social links: %d\n", len(c.Social))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "icons",
		Short: "Lists the icon names content may reference",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(icons.Names(), "\n"))
		},
	})

	return cmd
}
