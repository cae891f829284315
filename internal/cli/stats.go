package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show vector store statistics",
	Long: `Show document counts per vector store collection.

Examples:
  research stats`,
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	stats, err := apiClient.VectorStats(context.Background())
	if err != nil {
		return fmt.Errorf("fetch vector store stats: %w", err)
	}

	if len(stats) == 0 {
		fmt.Println("Vector store is empty.")
		return nil
	}

	names := make([]string, 0, len(stats))
	total := 0
	for name, count := range stats {
		names = append(names, name)
		total += count
	}
	sort.Strings(names)

	fmt.Printf("Collections (%d):\n\n", len(names))
	for _, name := range names {
		fmt.Printf("- %s: %d documents\n", name, stats[name])
	}
	fmt.Printf("\nTotal: %d documents\n", total)

	return nil
}
