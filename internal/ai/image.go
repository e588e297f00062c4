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
)

var (
	// ErrPromptFiltered means the provider's safety system rejected the
	// prompt; the user gets a specific message, not a generic failure.
	ErrPromptFiltered = errors.New("prompt rejected by the provider safety system")

	// ErrPromptTooLong means the prompt exceeds the provider's limit.
	ErrPromptTooLong = errors.New("prompt is too long for the provider")
)

// maxImageBytes caps how much of a generated image is read; 256x256 PNGs
// are far below this.
const maxImageBytes = 8 * 1024 * 1024

type ImageClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewImageClient(apiKey string) *ImageClient {
	return &ImageClient{
		baseURL: "https://api.openai.com/v1",
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// Generate creates one 256x256 image for the prompt and returns its URL.
// Content-policy and length rejections are surfaced as typed errors.
func (c *ImageClient) Generate(prompt string) (string, error) {
	payload := map[string]interface{}{
		"prompt": prompt,
		"size":   "256x256",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/images/generations", bytes.NewReader(body))
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
		return "", classifyImageError(resp.StatusCode, respBody)
	}

	var parsed struct {
		Data []struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("unmarshal: %w body=%s", err, truncate(respBody))
	}
	if len(parsed.Data) == 0 {
		return "", errors.New("provider returned no images")
	}
	return parsed.Data[0].URL, nil
}

// Download fetches the generated image so it can be attached to a reply.
func (c *ImageClient) Download(url string) ([]byte, error) {
	resp, err := c.client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image download failed: status=%d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
}

// classifyImageError inspects the provider error payload to tell a
// filtered prompt from a too-long one from everything else.
func classifyImageError(status int, body []byte) error {
	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		msg := parsed.Error.Message
		switch {
		case strings.Contains(msg, "safety system"):
			return ErrPromptFiltered
		case strings.Contains(msg, "is too long"):
			return ErrPromptTooLong
		}
	}
	return fmt.Errorf("image generation failed: status=%d body=%s", status, truncate(body))
}
