// Package music owns the per-guild playback queue: admission of new tracks,
// skip handling, and advancing the queue when a track finishes.
package music

import (
	"errors"
	"io"
	"time"
)

var (
	ErrInsufficientQueue = errors.New("no track in queue to skip to")
	ErrAlreadyStopped    = errors.New("music player is already stopped")
	ErrNothingPlaying    = errors.New("no track is currently playing")
)

// Track is one queued item. Insertion order is play order; the head of the
// queue is the currently playing (or about-to-play) track.
type Track struct {
	Title       string
	Link        string
	Duration    time.Duration
	Thumbnail   string
	RequestedBy string
}

// Streamer opens a playable PCM stream for a track link. Implemented by the
// media client; faked in tests.
type Streamer interface {
	OpenStream(link string) (io.ReadCloser, error)
}

// PlayResult reports the admission decision for an enqueued track.
type PlayResult struct {
	// Started is true when this enqueue brought the queue from empty to
	// one track and playback began for it.
	Started bool
}
