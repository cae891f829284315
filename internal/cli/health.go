package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check backend connectivity",
	Long: `Check that the research server is reachable and report the state
of its model providers and vector store.

Examples:
  research health`,
	RunE: runHealth,
}

func runHealth(cmd *cobra.Command, args []string) error {
	health, err := apiClient.GetHealth(context.Background())
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}

	fmt.Printf("Server: %s (%s)\n", cfg.ServerURL, health.Status)
	printProvider("ollama", health.Ollama)
	printProvider("openai", health.OpenAI)

	if len(health.VectorDB) > 0 {
		total := 0
		for _, count := range health.VectorDB {
			total += count
		}
		fmt.Printf("Vector store: %d documents in %d collections\n", total, len(health.VectorDB))
	}

	return nil
}

func printProvider(name string, info map[string]any) {
	if len(info) == 0 {
		return
	}
	status := "unknown"
	if s, ok := info["status"].(string); ok {
		status = s
	}
	fmt.Printf("Provider %s: %s\n", name, status)
	if verbose {
		for key, val := range info {
			if key == "status" {
				continue
			}
			fmt.Printf("  %s: %v\n", key, val)
		}
	}
}
