package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"dermascan/internal/client/models"
	"dermascan/internal/logging"
)

// FallbackReply is the single user-visible message shown for any chat
// failure, whatever the underlying cause.
const FallbackReply = "Connection error or invalid reply. Please try again."

// ChatClient talks to the chat completion endpoint.
type ChatClient struct {
	url    string
	apiKey string
	model  string
	http   *http.Client
	log    logging.Logger
}

func NewChatClient(url, apiKey, model string, timeout time.Duration, log logging.Logger) *ChatClient {
	return &ChatClient{
		url:    url,
		apiKey: apiKey,
		model:  model,
		http:   &http.Client{Timeout: timeout},
		log:    log,
	}
}

type chatRequest struct {
	Model    string               `json:"model"`
	Messages []models.ChatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message models.ChatMessage `json:"message"`
	} `json:"choices"`
}

// SystemPrompt builds the system turn priming the assistant with the user's
// diagnosis.
func SystemPrompt(diagnosis string) models.ChatMessage {
	return models.ChatMessage{
		Role: models.RoleSystem,
		Content: fmt.Sprintf(
			"You are a medical assistant specialized in %s. Answer clearly and reliably, and only answer medical questions.",
			diagnosis),
	}
}

// Complete sends the system prompt, the prior turns and the new user turn,
// and returns the assistant's reply. Every failure comes back wrapped in
// ErrChatFailed; callers show FallbackReply and keep the conversation alive.
func (c *ChatClient) Complete(ctx context.Context, diagnosis string, history []models.ChatMessage, userTurn string) (string, error) {
	messages := make([]models.ChatMessage, 0, len(history)+2)
	messages = append(messages, SystemPrompt(diagnosis))
	messages = append(messages, history...)
	messages = append(messages, models.ChatMessage{Role: models.RoleUser, Content: userTurn})

	payload, err := json.Marshal(chatRequest{Model: c.model, Messages: messages})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrChatFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrChatFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn(ctx, "chat request failed", "error", err)
		return "", fmt.Errorf("%w: %v", ErrChatFailed, err)
	}
	defer resp.Body.Close()

	var cr chatResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&cr); decodeErr != nil {
		return "", fmt.Errorf("%w: malformed response", ErrChatFailed)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 ||
		len(cr.Choices) == 0 || cr.Choices[0].Message.Content == "" {
		c.log.Warn(ctx, "chat endpoint returned unusable reply", "status", resp.StatusCode)
		return "", fmt.Errorf("%w: unusable reply", ErrChatFailed)
	}

	return cr.Choices[0].Message.Content, nil
}
