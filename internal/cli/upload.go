package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var uploadConversation string

var uploadCmd = &cobra.Command{
	Use:   "upload <pdf>...",
	Short: "Ingest PDFs into a conversation's document store",
	Long: `Upload one or more PDFs to the server for ingestion.

The server extracts text, tables, and images, chunks the content, and
stores embeddings so later questions in the conversation can retrieve it.

Examples:
  research upload paper.pdf --conversation 4f7c2d9a
  research upload a.pdf b.pdf -c 4f7c2d9a
  research upload list 4f7c2d9a`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

var uploadListCmd = &cobra.Command{
	Use:   "list <conversation-id>",
	Short: "List the documents ingested into a conversation",
	Args:  cobra.ExactArgs(1),
	RunE:  runUploadList,
}

func init() {
	uploadCmd.Flags().StringVarP(&uploadConversation, "conversation", "c", "", "conversation ID (required)")
	uploadCmd.AddCommand(uploadListCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	if uploadConversation == "" {
		return fmt.Errorf("--conversation is required")
	}
	ctx := context.Background()

	for _, path := range args {
		result, err := apiClient.UploadPDF(ctx, uploadConversation, path)
		if err != nil {
			return fmt.Errorf("upload %s: %w", path, err)
		}
		if !result.Success {
			msg := "unknown error"
			if result.Error != nil {
				msg = *result.Error
			}
			return fmt.Errorf("upload %s: %s", path, msg)
		}

		fmt.Printf("Ingested %s: %d pages, %d chunks", result.Filename, result.Pages, result.ChunksStored)
		if result.ImagesProcessed > 0 {
			fmt.Printf(", %d images", result.ImagesProcessed)
		}
		if result.TablesFound > 0 {
			fmt.Printf(", %d tables", result.TablesFound)
		}
		fmt.Println()

		if verbose {
			for _, ev := range result.Trace {
				if ev.Internal() {
					continue
				}
				fmt.Printf("  %s %s %s\n", ev.EventType, ev.AgentName, ev.Message)
			}
		}
	}

	return nil
}

func runUploadList(cmd *cobra.Command, args []string) error {
	uploads, err := apiClient.ListUploads(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("list uploads: %w", err)
	}

	if len(uploads) == 0 {
		fmt.Println("No documents ingested.")
		return nil
	}

	fmt.Printf("Documents (%d):\n\n", len(uploads))
	for _, up := range uploads {
		fmt.Printf("- %s [%s] %d chunks in %s\n", up.Filename, up.FileType, up.DocCount, up.CollectionName)
	}

	return nil
}
