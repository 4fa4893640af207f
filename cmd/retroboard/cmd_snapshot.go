package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/user/retroboard/internal/scheduler"
)

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.AddCommand(snapshotListCmd)
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Write a snapshot of the board document now",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		reg, closeStore, err := openLocalRegistry(cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		snaps := scheduler.New(reg, snapshotDir(cfg), cfg.Snapshot.Keep, nil)
		path, err := snaps.Snapshot(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Snapshot written to %s\n", path)
		return nil
	},
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshots, oldest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		paths, err := scheduler.New(nil, snapshotDir(cfg), cfg.Snapshot.Keep, nil).List()
		if err != nil {
			return fmt.Errorf("list snapshots: %w", err)
		}
		if len(paths) == 0 {
			fmt.Println("No snapshots found.")
			return nil
		}
		for _, p := range paths {
			fmt.Fprintln(os.Stdout, p)
		}
		return nil
	},
}
