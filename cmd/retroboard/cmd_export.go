package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/user/retroboard/internal/export"
	"github.com/user/retroboard/internal/types"
)

var (
	exportFormat string
	exportOutput string
)

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "output format: json, jira, yaml, md")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to file instead of stdout (\"-\" for stdout, \"auto\" for the default filename)")
}

var exportCmd = &cobra.Command{
	Use:   "export <session-id>",
	Short: "Export a session's items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		exp, err := export.NewExporter(exportFormat)
		if err != nil {
			return err
		}

		reg, closeStore, err := openLocalRegistry(loadConfig())
		if err != nil {
			return err
		}
		defer closeStore()

		items, err := reg.Items(context.Background(), types.SessionID(args[0]))
		if err != nil {
			return err
		}

		var w io.Writer = os.Stdout
		path := exportOutput
		if path == "auto" {
			path = exp.Filename()
		}
		if path != "" && path != "-" {
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("create output file: %w", err)
			}
			defer f.Close()
			w = f
		}

		if err := exp.Export(items, w); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		if w != io.Writer(os.Stdout) {
			fmt.Fprintf(os.Stderr, "Exported %d items to %s\n", len(items), path)
		}
		return nil
	},
}
