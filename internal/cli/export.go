package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/venkatkonjeti/multi-agent-deep-research/internal/models"
)

var (
	exportOutput string
	exportTrace  bool
)

var exportCmd = &cobra.Command{
	Use:   "export <conversation-id>",
	Short: "Export a conversation transcript to Markdown",
	Long: `Export a conversation transcript as a Markdown document.

Writes to stdout unless --output is given. With --trace, the agent
activity that produced each answer is included as a details section.

Examples:
  research export 4f7c2d9a
  research export 4f7c2d9a --output transcript.md
  research export 4f7c2d9a --trace`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to file instead of stdout")
	exportCmd.Flags().BoolVar(&exportTrace, "trace", false, "include agent activity")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	id := args[0]

	conv, err := apiClient.GetConversation(ctx, id)
	if err != nil {
		return fmt.Errorf("get conversation: %w", err)
	}
	msgs, err := apiClient.ListMessages(ctx, id)
	if err != nil {
		return fmt.Errorf("list messages: %w", err)
	}

	doc := renderTranscript(conv, msgs, exportTrace)

	if exportOutput == "" {
		fmt.Print(doc)
		return nil
	}
	if err := os.WriteFile(exportOutput, []byte(doc), 0644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	fmt.Printf("Exported %d messages to %s\n", len(msgs), exportOutput)
	return nil
}

// renderTranscript formats a conversation as Markdown.
func renderTranscript(conv *models.Conversation, msgs []models.Message, withTrace bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", conv.Title)
	fmt.Fprintf(&b, "Exported %s\n\n", time.Now().Format(time.RFC3339))

	for _, msg := range msgs {
		switch msg.Role {
		case models.RoleUser:
			fmt.Fprintf(&b, "## You\n\n%s\n\n", msg.Content)
		case models.RoleAssistant:
			fmt.Fprintf(&b, "## Assistant\n\n%s\n\n", msg.Content)
		default:
			fmt.Fprintf(&b, "## %s\n\n%s\n\n", msg.Role, msg.Content)
		}

		if len(msg.Sources) > 0 {
			b.WriteString("Sources:\n\n")
			for _, src := range msg.Sources {
				fmt.Fprintf(&b, "- %s\n", src)
			}
			b.WriteString("\n")
		}

		if withTrace && len(msg.AgentTrace) > 0 {
			b.WriteString("<details><summary>Agent activity</summary>\n\n")
			for _, ev := range msg.AgentTrace {
				if ev.Internal() {
					continue
				}
				agent := ev.AgentName
				if agent == "" {
					agent = "system"
				}
				fmt.Fprintf(&b, "- `%s` **%s**: %s\n", ev.EventType, agent, ev.Message)
			}
			b.WriteString("\n</details>\n\n")
		}
	}

	return b.String()
}
