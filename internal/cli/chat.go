package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/venkatkonjeti/multi-agent-deep-research/internal/metrics"
	"github.com/venkatkonjeti/multi-agent-deep-research/internal/session"
	"github.com/venkatkonjeti/multi-agent-deep-research/internal/tui"
)

var (
	chatConversation string
	chatNew          bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start the interactive research chat",
	Long: `Start the interactive chat UI.

Answers stream in token by token. Press tab to watch the agent pipeline
work on the question. Conversations are stored on the server; the most
recently updated one is opened unless --conversation is given.

Examples:
  research chat
  research chat --new
  research chat --conversation 4f7c2d9a`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatConversation, "conversation", "c", "", "conversation ID to open")
	chatCmd.Flags().BoolVar(&chatNew, "new", false, "start a new conversation")
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	convs, err := apiClient.ListConversations(ctx)
	if err != nil {
		return fmt.Errorf("list conversations: %w", err)
	}
	store.SetConversations(convs)

	switch {
	case chatNew:
		conv, err := apiClient.CreateConversation(ctx, "New conversation")
		if err != nil {
			return fmt.Errorf("create conversation: %w", err)
		}
		store.Add(*conv)
	case chatConversation != "":
		if !store.Select(chatConversation) {
			return fmt.Errorf("unknown conversation %q", chatConversation)
		}
	case len(convs) == 0:
		conv, err := apiClient.CreateConversation(ctx, "New conversation")
		if err != nil {
			return fmt.Errorf("create conversation: %w", err)
		}
		store.Add(*conv)
	}

	selected := store.Selected()
	msgs, err := apiClient.ListMessages(ctx, selected)
	if err != nil {
		return fmt.Errorf("load messages: %w", err)
	}
	store.SetMessages(selected, msgs)

	updates := make(chan session.Snapshot, 256)
	controller := session.NewController(apiClient, store, collector, logger, func(s session.Snapshot) {
		updates <- s
	})

	if err := tui.Run(controller, store, updates); err != nil {
		return err
	}

	if verbose {
		printSessionStats(collector.Snapshot())
	}
	return nil
}

// printSessionStats summarizes streaming statistics after the UI exits.
func printSessionStats(snap metrics.Snapshot) {
	if snap.Sessions.Sessions == 0 {
		return
	}
	fmt.Printf("Sessions: %d (%d failed)\n", snap.Sessions.Sessions, snap.Sessions.Failed)
	fmt.Printf("Frames: %d decoded, %d malformed dropped\n",
		snap.Sessions.FramesDecoded, snap.Sessions.MalformedDropped)
	fmt.Printf("Tokens: %d, trace events: %d\n",
		snap.Sessions.TokensReceived, snap.Sessions.TraceEvents)
	if snap.FirstToken.Count > 0 {
		fmt.Printf("First token: avg %s (min %s, max %s)\n",
			snap.FirstToken.Avg().Round(time.Millisecond),
			snap.FirstToken.Min.Round(time.Millisecond),
			snap.FirstToken.Max.Round(time.Millisecond))
	}
	if snap.Reconcile.Count > 0 {
		fmt.Printf("Reconcile: avg %s\n", snap.Reconcile.Avg().Round(time.Millisecond))
	}
}
