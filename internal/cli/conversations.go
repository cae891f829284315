package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/venkatkonjeti/multi-agent-deep-research/internal/models"
)

var conversationsCmd = &cobra.Command{
	Use:     "conversations",
	Aliases: []string{"conv"},
	Short:   "Manage conversations",
	Long: `Manage conversations on the research server.

Subcommands:
  list    List conversations, most recently updated first (default)
  new     Create a conversation
  show    Print the messages of a conversation
  rename  Rename a conversation
  delete  Delete a conversation and its messages

Examples:
  research conversations
  research conversations new "Quantum computing survey"
  research conversations show 4f7c2d9a
  research conversations rename 4f7c2d9a "Error correction deep dive"
  research conversations delete 4f7c2d9a`,
	RunE: runConversationsList,
}

var conversationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List conversations",
	RunE:  runConversationsList,
}

var conversationsNewCmd = &cobra.Command{
	Use:   "new [title]",
	Short: "Create a conversation",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConversationsNew,
}

var conversationsShowCmd = &cobra.Command{
	Use:     "show <id>",
	Aliases: []string{"messages"},
	Short:   "Print the messages of a conversation",
	Args:    cobra.ExactArgs(1),
	RunE:    runConversationsShow,
}

var conversationsRenameCmd = &cobra.Command{
	Use:   "rename <id> <title>",
	Short: "Rename a conversation",
	Args:  cobra.ExactArgs(2),
	RunE:  runConversationsRename,
}

var conversationsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a conversation and its messages",
	Args:  cobra.ExactArgs(1),
	RunE:  runConversationsDelete,
}

func init() {
	conversationsCmd.AddCommand(conversationsListCmd)
	conversationsCmd.AddCommand(conversationsNewCmd)
	conversationsCmd.AddCommand(conversationsShowCmd)
	conversationsCmd.AddCommand(conversationsRenameCmd)
	conversationsCmd.AddCommand(conversationsDeleteCmd)
}

func runConversationsList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	convs, err := apiClient.ListConversations(ctx)
	if err != nil {
		return fmt.Errorf("list conversations: %w", err)
	}

	if len(convs) == 0 {
		fmt.Println("No conversations found.")
		return nil
	}

	fmt.Printf("Conversations (%d):\n\n", len(convs))
	for _, conv := range convs {
		fmt.Printf("- %s  %s\n", conv.ID, conv.Title)
		if verbose {
			fmt.Printf("  updated %s\n", models.Epoch(conv.UpdatedAt).Format(time.RFC3339))
		}
	}

	return nil
}

func runConversationsNew(cmd *cobra.Command, args []string) error {
	title := "New conversation"
	if len(args) == 1 {
		title = args[0]
	}

	conv, err := apiClient.CreateConversation(context.Background(), title)
	if err != nil {
		return fmt.Errorf("create conversation: %w", err)
	}

	fmt.Printf("Created conversation %s (%s)\n", conv.ID, conv.Title)
	return nil
}

func runConversationsShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	msgs, err := apiClient.ListMessages(ctx, args[0])
	if err != nil {
		return fmt.Errorf("list messages: %w", err)
	}

	if len(msgs) == 0 {
		fmt.Println("No messages yet.")
		return nil
	}

	for _, msg := range msgs {
		fmt.Printf("[%s] %s\n", msg.Role, models.Epoch(msg.Timestamp).Format(time.RFC3339))
		fmt.Println(msg.Content)
		for _, src := range msg.Sources {
			fmt.Printf("  source: %s\n", src)
		}
		if verbose {
			for _, ev := range msg.AgentTrace {
				if ev.Internal() {
					continue
				}
				fmt.Printf("  trace: %s %s %s\n", ev.EventType, ev.AgentName, ev.Message)
			}
		}
		fmt.Println()
	}

	return nil
}

func runConversationsRename(cmd *cobra.Command, args []string) error {
	if err := apiClient.RenameConversation(context.Background(), args[0], args[1]); err != nil {
		return fmt.Errorf("rename conversation: %w", err)
	}
	fmt.Printf("Renamed conversation %s\n", args[0])
	return nil
}

func runConversationsDelete(cmd *cobra.Command, args []string) error {
	if err := apiClient.DeleteConversation(context.Background(), args[0]); err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	fmt.Printf("Deleted conversation %s\n", args[0])
	return nil
}
