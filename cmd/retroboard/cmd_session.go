package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/user/retroboard/internal/types"
)

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionCreateCmd, sessionListCmd, sessionShowCmd, sessionDeleteCmd)
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage retrospective sessions",
}

var sessionCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a session",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, closeStore, err := openLocalRegistry(loadConfig())
		if err != nil {
			return err
		}
		defer closeStore()

		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		s, err := reg.Create(context.Background(), name)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Created session %s (%s).\n", s.ID, s.Name)
		return nil
	},
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all sessions, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, closeStore, err := openLocalRegistry(loadConfig())
		if err != nil {
			return err
		}
		defer closeStore()

		list, err := reg.List(context.Background(), localAdminCode)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Println("No sessions found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tITEMS\tCREATED")
		for _, s := range list {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", s.ID, s.Name, s.ItemCount, s.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		return w.Flush()
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Render a session's board",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, closeStore, err := openLocalRegistry(loadConfig())
		if err != nil {
			return err
		}
		defer closeStore()

		ctx := context.Background()
		id := types.SessionID(args[0])
		s, err := reg.Get(ctx, id)
		if err != nil {
			return err
		}
		timer, err := reg.Timer(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, renderBoard(s, timer))
		return nil
	},
}

var sessionDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a session and its activity log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, closeStore, err := openLocalRegistry(loadConfig())
		if err != nil {
			return err
		}
		defer closeStore()

		if err := reg.Delete(context.Background(), types.SessionID(args[0]), localAdminCode); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Session %s deleted.\n", args[0])
		return nil
	},
}
