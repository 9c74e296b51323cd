package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aidbot-ai/aidbot/internal/core/domain"
)

var uploadCmd = &cobra.Command{
	Use:   "upload [file]...",
	Short: "Index documents for chat",
	Long: `Extracts text from the given files, splits it into chunks and adds
them to the index. Supported formats: pdf, docx, txt.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	ctx := cmd.Context()
	failed := 0
	for _, path := range args {
		content, err := os.ReadFile(path)
		if err != nil {
			cmd.PrintErrf("  %s: %v\n", path, err)
			failed++
			continue
		}

		result, err := documentService.Upload(ctx, content, displayName(path), flagTenant)
		switch {
		case errors.Is(err, domain.ErrDuplicateDocument):
			cmd.Printf("  %s: already indexed\n", displayName(path))
		case err != nil:
			cmd.PrintErrf("  %s: %v\n", displayName(path), err)
			failed++
		default:
			cmd.Printf("  %s: %d chunks (%d characters)\n",
				result.Filename, result.ChunkCount, result.TotalCharacters)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d uploads failed", failed, len(args))
	}
	return nil
}
