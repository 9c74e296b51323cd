package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidbot-ai/aidbot/internal/core/domain"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed documents",
	Long: `Retrieves the passages most relevant to the query, without
generating an answer.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 5, "maximum number of passages")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output passages as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	passages, err := documentService.Search(cmd.Context(), args[0], flagTenant, searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, passages)
	}
	return outputSearchText(cmd, passages)
}

func outputSearchJSON(cmd *cobra.Command, passages []domain.RetrievedPassage) error {
	data, err := json.MarshalIndent(passages, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal passages: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchText(cmd *cobra.Command, passages []domain.RetrievedPassage) error {
	if len(passages) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range passages {
		if passages[i].Distance != nil {
			cmd.Printf("  [%d] %s (distance %.3f)\n", i+1, passages[i].SourceFilename, *passages[i].Distance)
		} else {
			cmd.Printf("  [%d] %s\n", i+1, passages[i].SourceFilename)
		}
		cmd.Printf("      %s\n", passages[i].Content)
		cmd.Println()
	}
	return nil
}
