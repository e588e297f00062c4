// Package ai holds the HTTP clients for the third-party AI providers:
// chat completions, image generation and speech synthesis.
package ai

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/skylinehq/skybot/internal/storage"
)

// historyLimit caps how many stored turns are replayed into one request.
const historyLimit = 20

var ErrEmptyCompletion = errors.New("provider returned no choices")

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatReply is one assistant answer. ID identifies the stored turn so a
// later request can continue the conversation from it.
type ChatReply struct {
	Text string
	ID   string
}

// MessageStore is the conversation history collaborator.
type MessageStore interface {
	SaveMessage(m storage.ChatMessage) error
	GetMessage(id string) (*storage.ChatMessage, bool)
}

type ChatClient struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	history MessageStore
}

func NewChatClient(apiKey, model string, history MessageStore) *ChatClient {
	return &ChatClient{
		baseURL: "https://api.openai.com/v1",
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: 60 * time.Second},
		history: history,
	}
}

// SendMessage sends the prompt together with the thread it continues
// (walked up from parentID) and stores both the prompt and the reply so the
// thread can be continued again.
func (c *ChatClient) SendMessage(prompt, parentID string) (*ChatReply, error) {
	messages := append(c.thread(parentID), Message{Role: "user", Content: prompt})

	text, err := c.complete(messages)
	if err != nil {
		return nil, err
	}

	userID := uuid.NewString()
	replyID := uuid.NewString()
	if c.history != nil {
		if err := c.history.SaveMessage(storage.ChatMessage{
			ID: userID, ParentID: parentID, Role: "user", Content: prompt,
		}); err != nil {
			return nil, fmt.Errorf("failed to store prompt: %w", err)
		}
		if err := c.history.SaveMessage(storage.ChatMessage{
			ID: replyID, ParentID: userID, Role: "assistant", Content: text,
		}); err != nil {
			return nil, fmt.Errorf("failed to store reply: %w", err)
		}
	}

	return &ChatReply{Text: text, ID: replyID}, nil
}

// Reply is the one-shot form used by the voice reader: no thread, nothing
// stored.
func (c *ChatClient) Reply(prompt string) (string, error) {
	return c.complete([]Message{{Role: "user", Content: prompt}})
}

// thread reconstructs the conversation leading up to parentID, oldest
// first.
func (c *ChatClient) thread(parentID string) []Message {
	if c.history == nil || parentID == "" {
		return nil
	}

	var reversed []Message
	id := parentID
	for id != "" && len(reversed) < historyLimit {
		m, ok := c.history.GetMessage(id)
		if !ok {
			break
		}
		reversed = append(reversed, Message{Role: m.Role, Content: m.Content})
		id = m.ParentID
	}

	messages := make([]Message, 0, len(reversed))
	for i := len(reversed) - 1; i >= 0; i-- {
		messages = append(messages, reversed[i])
	}
	return messages
}

func (c *ChatClient) complete(messages []Message) (string, error) {
	payload := map[string]interface{}{
		"model":    c.model,
		"messages": messages,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 256*1024))
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("chat completion failed: status=%d body=%s", resp.StatusCode, truncate(respBody))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("unmarshal: %w body=%s", err, truncate(respBody))
	}
	if len(parsed.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

func truncate(b []byte) string {
	if len(b) > 200 {
		return string(b[:200]) + "..."
	}
	return string(b)
}
