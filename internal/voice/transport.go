package voice

import (
	"errors"
	"io"
)

var (
	ErrNotPlaying     = errors.New("no audio is currently playing")
	ErrAlreadyPaused  = errors.New("playback is already paused")
	ErrAlreadyPlaying = errors.New("playback is already running")
	ErrNotSubscribed  = errors.New("player is not subscribed to a voice connection")
)

// Transport joins voice channels and creates players. The Discord
// implementation lives in this package; tests use the voicetest fakes.
type Transport interface {
	Join(guildID, channelID string) (Connection, error)
	NewPlayer() Player
}

// Connection is a live link to one guild voice channel. A session owns at
// most one connection at a time.
type Connection interface {
	Status() ConnStatus

	// Subscribe binds a player to this connection so its audio is sent
	// over it. Subscribing the same player again is a no-op.
	Subscribe(p Player)

	// Destroy tears the connection down. Safe to call more than once.
	Destroy()
}

// Player plays a single PCM stream (s16le, 48kHz, stereo) at a time.
type Player interface {
	// Play starts playback of src and returns once playback is set up.
	// The player takes ownership of src and closes it when done.
	Play(src io.ReadCloser) error

	Pause() error
	Unpause() error

	// Stop halts playback. The player lands in StatusStopped if it was
	// active, emitting the transition to any subscribed handler.
	Stop()

	Status() PlayerStatus

	// OnStateChange registers fn to be called on every status transition.
	// Setting a new handler replaces the previous one, so re-subscribing
	// on each playback cycle never leaks old listeners.
	OnStateChange(fn func(old, next PlayerStatus))
}
