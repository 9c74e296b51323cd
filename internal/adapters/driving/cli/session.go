package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage chat sessions",
	Long:  `List, rename or delete stored chat sessions.`,
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List chat sessions",
	Args:  cobra.NoArgs,
	RunE:  runSessionList,
}

var sessionDeleteCmd = &cobra.Command{
	Use:   "delete [session-id]",
	Short: "Delete a chat session and its messages",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionDelete,
}

var sessionRenameCmd = &cobra.Command{
	Use:   "rename [session-id] [title]",
	Short: "Rename a chat session",
	Args:  cobra.ExactArgs(2),
	RunE:  runSessionRename,
}

func init() {
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionDeleteCmd)
	sessionCmd.AddCommand(sessionRenameCmd)
	rootCmd.AddCommand(sessionCmd)
}

func runSessionList(cmd *cobra.Command, _ []string) error {
	if sessionStore == nil {
		return errors.New("session store not configured")
	}

	sessions, err := sessionStore.ListSessions(cmd.Context(), flagTenant)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	if len(sessions) == 0 {
		cmd.Println("No sessions found.")
		return nil
	}

	cmd.Println("Sessions:")
	cmd.Println()
	for i := range sessions {
		cmd.Printf("  %s\n", sessions[i].ID)
		cmd.Printf("    Title:   %s\n", sessions[i].Title)
		cmd.Printf("    Created: %s\n", sessions[i].CreatedAt.Format("2006-01-02 15:04:05"))
		cmd.Println()
	}
	return nil
}

func runSessionDelete(cmd *cobra.Command, args []string) error {
	if sessionStore == nil {
		return errors.New("session store not configured")
	}

	if err := sessionStore.DeleteSession(cmd.Context(), args[0], flagTenant); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	cmd.Printf("Deleted session %s.\n", args[0])
	return nil
}

func runSessionRename(cmd *cobra.Command, args []string) error {
	if sessionStore == nil {
		return errors.New("session store not configured")
	}

	if err := sessionStore.UpdateTitle(cmd.Context(), args[0], flagTenant, args[1]); err != nil {
		return fmt.Errorf("failed to rename session: %w", err)
	}

	cmd.Printf("Renamed session %s.\n", args[0])
	return nil
}
