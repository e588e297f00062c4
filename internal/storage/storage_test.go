package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "messages.json"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndGetMessage(t *testing.T) {
	s := newTestStore(t)

	msg := ChatMessage{
		ID:       "m1",
		Role:     "user",
		Content:  "hello",
		ParentID: "",
	}
	require.NoError(t, s.SaveMessage(msg))

	got, ok := s.GetMessage("m1")
	require.True(t, ok)
	assert.Equal(t, "user", got.Role)
	assert.Equal(t, "hello", got.Content)
	assert.Empty(t, got.ParentID)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestSaveMessageRequiresID(t *testing.T) {
	s := newTestStore(t)
	assert.Error(t, s.SaveMessage(ChatMessage{Role: "user", Content: "no id"}))
}

func TestSaveMessageKeepsTimestamp(t *testing.T) {
	s := newTestStore(t)

	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveMessage(ChatMessage{ID: "m1", Role: "user", Content: "hi", CreatedAt: created}))

	got, ok := s.GetMessage("m1")
	require.True(t, ok)
	assert.True(t, got.CreatedAt.Equal(created))
}

func TestGetMessageMissing(t *testing.T) {
	s := newTestStore(t)
	got, ok := s.GetMessage("nope")
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestThreadedMessages(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SaveMessage(ChatMessage{ID: "u1", Role: "user", Content: "question"}))
	require.NoError(t, s.SaveMessage(ChatMessage{ID: "a1", ParentID: "u1", Role: "assistant", Content: "answer"}))

	reply, ok := s.GetMessage("a1")
	require.True(t, ok)
	assert.Equal(t, "u1", reply.ParentID)

	parent, ok := s.GetMessage(reply.ParentID)
	require.True(t, ok)
	assert.Equal(t, "question", parent.Content)
}
