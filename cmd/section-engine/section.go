// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/section-engine/internal/panel"
	"github.com/pdiddy/section-engine/internal/section"
	"github.com/pdiddy/section-engine/pkg/types"
)

var sectionCmd = &cobra.Command{
	Use:   "section",
	Short: "Query a pages or files section from the content index",
	Long: `Section runs a section declared in the blueprint of a model node. The
model is the site by default; pass --model with a page id ("blog/hello" or
"blog+hello") to query a section of a page.`,
}

// --- items subcommand ---

var sectionItemsCmd = &cobra.Command{
	Use:   "items <section>",
	Short: "List the items of a section",
	Args:  cobra.ExactArgs(1),
	RunE:  runSectionItems,
}

func runSectionItems(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	req := section.Request{}
	if cmd.Flags().Changed("page") {
		page, _ := cmd.Flags().GetInt("page")
		req.Page = &page
	}
	if cmd.Flags().Changed("limit") {
		limit, _ := cmd.Flags().GetInt("limit")
		req.Limit = &limit
	}

	res, err := a.service.Items(commandContext(), cliActor(cmd, a.cfg), modelFlag(cmd), args[0], req)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		return writeJSON(res)
	}

	if len(res.Items) == 0 {
		fmt.Printf("No items (page %d, %d total).\n", res.Pagination.Page, res.Pagination.Total)
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-40s  %-30s  %-10s  %s\n", "ID", "Text", "Status", "Template")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
	for _, it := range res.Items {
		fmt.Fprintf(os.Stdout, "%-40s  %-30s  %-10s  %s\n",
			truncate(it.ID, 40), truncate(it.Text, 30), it.Status, it.Template)
	}
	fmt.Fprintf(os.Stdout, "\npage %d of %d, %d total\n",
		res.Pagination.Page, res.Pagination.Pages, res.Pagination.Total)
	return nil
}

// --- summary subcommand ---

var sectionSummaryCmd = &cobra.Command{
	Use:   "summary <section>",
	Short: "Print the section flags sent to the panel",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		sum, err := a.service.Summary(commandContext(), modelFlag(cmd), args[0])
		if err != nil {
			return err
		}
		return writeJSON(sum)
	},
}

// --- blueprints subcommand ---

var sectionBlueprintsCmd = &cobra.Command{
	Use:   "blueprints <section>",
	Short: "List the templates offered when creating a page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		entries, err := a.service.Blueprints(commandContext(), modelFlag(cmd), args[0])
		if err != nil {
			return err
		}

		jsonOutput, _ := cmd.Flags().GetBool("json")
		if jsonOutput {
			return writeJSON(entries)
		}
		for _, e := range entries {
			fmt.Printf("%-20s  %s\n", e.Name, e.Title)
		}
		return nil
	},
}

// --- shared helpers ---

func modelFlag(cmd *cobra.Command) string {
	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		return types.SiteID
	}
	return panel.PageID(model)
}

// cliActor runs the query as --user with the role from the configuration.
// Without --user the local operator acts as admin.
func cliActor(cmd *cobra.Command, cfg types.Config) types.Actor {
	user, _ := cmd.Flags().GetString("user")
	if user == "" {
		return types.Actor{ID: "cli", Role: types.RoleAdmin}
	}
	return types.Actor{ID: user, Role: cfg.Users[user]}
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	sectionCmd.PersistentFlags().String("model", "", "page id whose blueprint declares the section (default: the site)")
	sectionCmd.PersistentFlags().Bool("json", false, "output as JSON")

	sectionItemsCmd.Flags().Int("page", section.DefaultPage, "page number, starting at 1")
	sectionItemsCmd.Flags().Int("limit", section.DefaultLimit, "items per page (default: the section's limit)")
	sectionItemsCmd.Flags().String("user", "", "query as this configured user")

	sectionCmd.AddCommand(sectionItemsCmd)
	sectionCmd.AddCommand(sectionSummaryCmd)
	sectionCmd.AddCommand(sectionBlueprintsCmd)

	rootCmd.AddCommand(sectionCmd)
}
