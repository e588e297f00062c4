package ai

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"
)

// Voice is one entry of the fixed synthesis voice pool.
type Voice struct {
	Name         string
	LanguageCode string
	VoiceName    string
	Pitch        float64
}

// voicePool is the set of voices an utterance is randomly read with.
var voicePool = []Voice{
	{Name: "espanol", LanguageCode: "es-ES", VoiceName: "es-ES-Neural2-A", Pitch: 19.6},
	{Name: "indian", LanguageCode: "en-IN", VoiceName: "en-IN-Wavenet-C", Pitch: 6},
	{Name: "aussie", LanguageCode: "en-AU", VoiceName: "en-AU-Neural2-A", Pitch: 6.8},
}

type TTSClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewTTSClient(apiKey string) *TTSClient {
	return &TTSClient{
		baseURL: "https://texttospeech.googleapis.com/v1",
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Synthesize renders text as OGG_OPUS audio with a randomly picked voice
// from the pool, and reports which voice it used.
func (c *TTSClient) Synthesize(text string) ([]byte, Voice, error) {
	voice := voicePool[rand.Intn(len(voicePool))]

	payload := map[string]interface{}{
		"input": map[string]string{"text": text},
		"voice": map[string]string{
			"languageCode": voice.LanguageCode,
			"name":         voice.VoiceName,
		},
		"audioConfig": map[string]interface{}{
			"audioEncoding":    "OGG_OPUS",
			"effectsProfileId": []string{"small-bluetooth-speaker-class-device"},
			"pitch":            voice.Pitch,
			"speakingRate":     1.2,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, voice, err
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/text:synthesize?key="+c.apiKey, bytes.NewReader(body))
	if err != nil {
		return nil, voice, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, voice, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 16*1024*1024))
	if err != nil {
		return nil, voice, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, voice, fmt.Errorf("speech synthesis failed: status=%d body=%s", resp.StatusCode, truncate(respBody))
	}

	var parsed struct {
		AudioContent string `json:"audioContent"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, voice, fmt.Errorf("unmarshal: %w body=%s", err, truncate(respBody))
	}
	if parsed.AudioContent == "" {
		return nil, voice, errors.New("provider returned no audio")
	}

	audio, err := base64.StdEncoding.DecodeString(parsed.AudioContent)
	if err != nil {
		return nil, voice, fmt.Errorf("decode audio: %w", err)
	}
	return audio, voice, nil
}
