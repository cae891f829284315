// Package api provides the REST/SSE client for the Deep Research backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/venkatkonjeti/multi-agent-deep-research/internal/models"
)

// Client talks to the backend's REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client

	// streamClient has no overall timeout: a chat response is read for
	// as long as the server keeps streaming. Cancellation comes from the
	// request context.
	streamClient *http.Client
}

// New creates a new API client.
// If baseURL is empty, uses RESEARCH_SERVER_URL env var or defaults to
// localhost:8000. Timeout applies to the plain request/response calls,
// not to the chat stream; zero picks the 10 minute default.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("RESEARCH_SERVER_URL")
	}
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	if timeout == 0 {
		timeout = 10 * time.Minute
	}

	return &Client{
		baseURL:      baseURL,
		httpClient:   &http.Client{Timeout: timeout},
		streamClient: &http.Client{},
	}
}

// StatusError is a non-success response from the backend. Detail carries
// the structured error body when the server sent one.
type StatusError struct {
	StatusCode int
	Status     string
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Status
}

// errorBody is the backend's structured error shape.
type errorBody struct {
	Detail string `json:"detail"`
}

// statusError builds a StatusError from a response, preferring the
// structured detail over the transport status text.
func statusError(resp *http.Response, body []byte) *StatusError {
	se := &StatusError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
	}
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil {
		se.Detail = eb.Detail
	}
	return se
}

// doJSON performs a request and decodes the JSON response into result.
func (c *Client) doJSON(ctx context.Context, method, path string, payload, result any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp, data)
	}

	if result != nil && len(data) > 0 {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}

// =============================================================================
// CONVERSATIONS
// =============================================================================

// ListConversations returns all conversations, most recent first.
func (c *Client) ListConversations(ctx context.Context) ([]models.Conversation, error) {
	var result []models.Conversation
	if err := c.doJSON(ctx, http.MethodGet, "/api/conversations", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// CreateConversation creates a new conversation with the given title.
func (c *Client) CreateConversation(ctx context.Context, title string) (*models.Conversation, error) {
	payload := map[string]string{"title": title}
	var result models.Conversation
	if err := c.doJSON(ctx, http.MethodPost, "/api/conversations", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetConversation retrieves a conversation by id.
func (c *Client) GetConversation(ctx context.Context, id string) (*models.Conversation, error) {
	var result models.Conversation
	if err := c.doJSON(ctx, http.MethodGet, "/api/conversations/"+id, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RenameConversation updates a conversation's title.
func (c *Client) RenameConversation(ctx context.Context, id, title string) error {
	payload := map[string]string{"title": title}
	return c.doJSON(ctx, http.MethodPut, "/api/conversations/"+id, payload, nil)
}

// DeleteConversation deletes a conversation and its messages.
func (c *Client) DeleteConversation(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/conversations/"+id, nil, nil)
}

// ListMessages returns the persisted messages of a conversation in
// timestamp order. After a stream completes this is the authoritative
// state, including the final trace and citations.
func (c *Client) ListMessages(ctx context.Context, conversationID string) ([]models.Message, error) {
	var result []models.Message
	if err := c.doJSON(ctx, http.MethodGet, "/api/conversations/"+conversationID+"/messages", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// ListUploads returns the documents uploaded into a conversation.
func (c *Client) ListUploads(ctx context.Context, conversationID string) ([]models.Upload, error) {
	var result []models.Upload
	if err := c.doJSON(ctx, http.MethodGet, "/api/conversations/"+conversationID+"/uploads", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// =============================================================================
// STATUS
// =============================================================================

// Health reports backend and model-provider connectivity.
type Health struct {
	Status   string         `json:"status"`
	Ollama   map[string]any `json:"ollama"`
	OpenAI   map[string]any `json:"openai"`
	VectorDB map[string]int `json:"vector_db"`
}

// GetHealth checks backend health.
func (c *Client) GetHealth(ctx context.Context) (*Health, error) {
	var result Health
	if err := c.doJSON(ctx, http.MethodGet, "/api/health", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// VectorStats returns document counts per vector-store collection.
func (c *Client) VectorStats(ctx context.Context) (map[string]int, error) {
	var result map[string]int
	if err := c.doJSON(ctx, http.MethodGet, "/api/vector-db/stats", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// =============================================================================
// UPLOAD
// =============================================================================

// UploadResult summarizes a PDF ingestion.
type UploadResult struct {
	Success         bool                `json:"success"`
	Filename        string              `json:"filename"`
	Pages           int                 `json:"pages"`
	ChunksStored    int                 `json:"chunks_stored"`
	ImagesProcessed int                 `json:"images_processed"`
	TablesFound     int                 `json:"tables_found"`
	Error           *string             `json:"error,omitempty"`
	Trace           []models.TraceEvent `json:"trace"`
}

// UploadPDF uploads a PDF into a conversation for ingestion.
func (c *Client) UploadPDF(ctx context.Context, conversationID, path string) (*UploadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("copy file: %w", err)
	}
	if err := mw.WriteField("conversation_id", conversationID); err != nil {
		return nil, fmt.Errorf("write field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp, data)
	}

	var result UploadResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &result, nil
}
