// Package chat holds the conversation transcript and the assistant
// service client.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// AssistantClient talks to the conversational assistant service
type AssistantClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewAssistantClient creates a client for the given base URL
func NewAssistantClient(baseURL string) *AssistantClient {
	return &AssistantClient{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{},
	}
}

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

// AskText sends a text question and returns the assistant's answer.
// The answer may be empty when the service responds without one.
func (c *AssistantClient) AskText(ctx context.Context, question string) (string, error) {
	body, err := json.Marshal(askRequest{Question: question})
	if err != nil {
		return "", fmt.Errorf("failed to encode question: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/ask_text", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build ask request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.decodeAnswer(req)
}

// AskAudio uploads a recorded voice clip as a multipart form and
// returns the assistant's answer
func (c *AssistantClient) AskAudio(ctx context.Context, audio []byte) (string, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("audio", "voice-message.wav")
	if err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("failed to write audio form part: %w", err)
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("failed to finish upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/ask_audio", &body)
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	return c.decodeAnswer(req)
}

func (c *AssistantClient) decodeAnswer(req *http.Request) (string, error) {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("assistant request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("assistant returned %s", resp.Status)
	}

	var answer askResponse
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		return "", fmt.Errorf("failed to decode assistant response: %w", err)
	}
	return answer.Answer, nil
}
