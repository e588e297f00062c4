package ai

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skylinehq/skybot/internal/storage"
)

type memStore struct {
	mu   sync.Mutex
	msgs map[string]storage.ChatMessage
}

func newMemStore() *memStore {
	return &memStore{msgs: make(map[string]storage.ChatMessage)}
}

func (m *memStore) SaveMessage(msg storage.ChatMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs[msg.ID] = msg
	return nil
}

func (m *memStore) GetMessage(id string) (*storage.ChatMessage, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.msgs[id]
	if !ok {
		return nil, false
	}
	return &msg, true
}

func (m *memStore) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.msgs)
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

// chatServer answers every completion with reply and records the requests.
func chatServer(t *testing.T, reply string) (*httptest.Server, func() []chatRequest) {
	t.Helper()

	var mu sync.Mutex
	var requests []chatRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		mu.Lock()
		requests = append(requests, req)
		mu.Unlock()

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": reply}},
			},
		})
	}))
	t.Cleanup(srv.Close)

	return srv, func() []chatRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]chatRequest(nil), requests...)
	}
}

func TestSendMessageStoresBothTurns(t *testing.T) {
	srv, _ := chatServer(t, "hi there")
	store := newMemStore()

	c := NewChatClient("test-key", "gpt-test", store)
	c.baseURL = srv.URL

	reply, err := c.SendMessage("hello", "")
	require.NoError(t, err)
	assert.Equal(t, "hi there", reply.Text)
	require.NotEmpty(t, reply.ID)

	require.Equal(t, 2, store.len())

	assistant, ok := store.GetMessage(reply.ID)
	require.True(t, ok)
	assert.Equal(t, "assistant", assistant.Role)
	assert.Equal(t, "hi there", assistant.Content)

	user, ok := store.GetMessage(assistant.ParentID)
	require.True(t, ok)
	assert.Equal(t, "user", user.Role)
	assert.Equal(t, "hello", user.Content)
	assert.Empty(t, user.ParentID)
}

func TestSendMessageReplaysThread(t *testing.T) {
	srv, requests := chatServer(t, "hi there")
	store := newMemStore()

	c := NewChatClient("test-key", "gpt-test", store)
	c.baseURL = srv.URL

	first, err := c.SendMessage("hello", "")
	require.NoError(t, err)

	_, err = c.SendMessage("tell me more", first.ID)
	require.NoError(t, err)

	reqs := requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "gpt-test", reqs[1].Model)
	assert.Equal(t, []Message{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi there"},
		{Role: "user", Content: "tell me more"},
	}, reqs[1].Messages)
}

func TestSendMessageUnknownParentStartsFresh(t *testing.T) {
	srv, requests := chatServer(t, "hi there")

	c := NewChatClient("test-key", "gpt-test", newMemStore())
	c.baseURL = srv.URL

	_, err := c.SendMessage("hello", "no-such-id")
	require.NoError(t, err)

	reqs := requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, []Message{{Role: "user", Content: "hello"}}, reqs[0].Messages)
}

func TestReplyIsStateless(t *testing.T) {
	srv, requests := chatServer(t, "one-shot answer")
	store := newMemStore()

	c := NewChatClient("test-key", "gpt-test", store)
	c.baseURL = srv.URL

	text, err := c.Reply("quick question")
	require.NoError(t, err)
	assert.Equal(t, "one-shot answer", text)

	assert.Equal(t, 0, store.len())
	reqs := requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, []Message{{Role: "user", Content: "quick question"}}, reqs[0].Messages)
}

func TestCompleteEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	t.Cleanup(srv.Close)

	c := NewChatClient("test-key", "gpt-test", nil)
	c.baseURL = srv.URL

	_, err := c.Reply("hello")
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestCompleteErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	c := NewChatClient("test-key", "gpt-test", nil)
	c.baseURL = srv.URL

	_, err := c.Reply("hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=429")
}
