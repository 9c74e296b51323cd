package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/aidbot-ai/aidbot/internal/connectors/filesystem"
)

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and index new files",
	Long: `Indexes every supported file already in the directory, then keeps
running and indexes files as they are added or changed. Files that are
already indexed are skipped. Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}
	if extractorRegistry == nil {
		return errors.New("extractors not configured")
	}

	watcher := filesystem.NewWatcher(
		documentService,
		args[0],
		flagTenant,
		extractorRegistry.SupportedExtensions(),
	)

	cmd.Printf("Watching %s (tenant %s). Press Ctrl-C to stop.\n", args[0], flagTenant)
	return watcher.Run(cmd.Context())
}
