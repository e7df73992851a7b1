// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the content index to YAML or JSON",
	Long: `Export writes every indexed node to export.yaml or export.json in the
index directory.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	var path string
	switch format {
	case "yaml", "":
		path, err = a.store.ExportYAML(commandContext())
	case "json":
		path, err = a.store.ExportJSON(commandContext())
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Println("Exported to", path)
	return nil
}

func init() {
	exportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	rootCmd.AddCommand(exportCmd)
}
