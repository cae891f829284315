package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// chatRequest is the outbound query payload.
type chatRequest struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
}

// readBufSize is the chunk size for reading the response body. Chunk
// boundaries are arbitrary; the frame decoder owns reassembly.
const readBufSize = 4096

// StreamChat posts a chat query and hands the response body to onChunk
// in raw byte chunks as they arrive. A non-success status is returned as
// *StatusError before any chunk is delivered. An error returned by
// onChunk aborts the read and is returned as-is.
func (c *Client) StreamChat(ctx context.Context, conversationID, message string, onChunk func([]byte) error) error {
	payload, err := json.Marshal(chatRequest{
		ConversationID: conversationID,
		Message:        message,
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.streamClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return statusError(resp, body)
	}

	buf := make([]byte, readBufSize)
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			if cbErr := onChunk(buf[:n]); cbErr != nil {
				return cbErr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read stream: %w", err)
		}
	}
}
