package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/aidbot-ai/aidbot/internal/adapters/driving/tui"
	"github.com/aidbot-ai/aidbot/internal/core/ports/driving"
)

var chatSession string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Launch the interactive chat",
	Long: `Launch the interactive chat interface.

Answers are grounded in your indexed documents when relevant passages
exist; otherwise the assistant answers from general knowledge.

Controls:
  Enter - Send message
  Esc   - Quit`,
	RunE: runChat,
}

var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Ask a single question",
	Long:  `Runs one chat turn and prints the answer. Use --session to continue an existing conversation.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runAsk,
}

func init() {
	chatCmd.Flags().StringVar(&chatSession, "session", "", "session ID to resume")
	askCmd.Flags().StringVar(&chatSession, "session", "", "session ID to continue")
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(askCmd)
}

func requireChatService() error {
	if chatService == nil {
		return errors.New("chat service not configured (is GEMINI_API_KEY set?)")
	}
	return nil
}

func runChat(cmd *cobra.Command, _ []string) error {
	if err := requireChatService(); err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in chat UI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	model := tui.New(chatService, flagTenant, chatSession).WithContext(cmd.Context())
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat UI error: %w", err)
	}
	return nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := requireChatService(); err != nil {
		return err
	}

	resp, err := chatService.Respond(cmd.Context(), driving.ChatRequest{
		Message:   args[0],
		SessionID: chatSession,
		UserID:    flagTenant,
	})
	if err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}

	cmd.Println(resp.Response)
	cmd.Printf("\n(session %s)\n", resp.SessionID)
	return nil
}
