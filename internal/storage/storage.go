// Package storage persists the threaded conversation history in a JSON
// key/value datastore, so replies can continue a conversation across
// restarts.
package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/keshon/datastore"
)

const messageKeyPrefix = "chat_message:"

// ChatMessage is one stored conversation turn. ParentID links a turn to
// the one it answered; walking parents reconstructs the thread.
type ChatMessage struct {
	ID        string    `json:"id"`
	ParentID  string    `json:"parent_id,omitempty"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type Store struct {
	ds *datastore.DataStore
}

func New(filePath string) (*Store, error) {
	ds, err := datastore.New(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open datastore: %w", err)
	}
	return &Store{ds: ds}, nil
}

func (s *Store) Close() error {
	return s.ds.Close()
}

func (s *Store) SaveMessage(m ChatMessage) error {
	if m.ID == "" {
		return fmt.Errorf("message id is required")
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	s.ds.Add(messageKeyPrefix+m.ID, m)
	return nil
}

func (s *Store) GetMessage(id string) (*ChatMessage, bool) {
	data, exists := s.ds.Get(messageKeyPrefix + id)
	if !exists {
		return nil, false
	}

	// values loaded from disk come back as generic maps
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, false
	}
	var m ChatMessage
	if err := json.Unmarshal(jsonData, &m); err != nil {
		return nil, false
	}
	return &m, true
}
