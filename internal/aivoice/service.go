// Package aivoice reads AI-generated (or user-supplied) text aloud in a
// guild's voice channel. Unlike music there is no queue: one utterance per
// guild at a time, later requests are rejected until it finishes.
package aivoice

import (
	"errors"
	"io"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/skylinehq/skybot/internal/voice"
)

var (
	// ErrBusy rejects a request while an utterance is in flight.
	ErrBusy = errors.New("voice AI is already reading something")

	// ErrSuperseded marks a request whose session was replaced while its
	// synthesis call was pending; the result is discarded silently.
	ErrSuperseded = errors.New("request superseded before playback")
)

// Chatter produces an assistant reply for a prompt.
type Chatter interface {
	Reply(prompt string) (string, error)
}

// Speech turns text into a playable PCM stream.
type Speech interface {
	Synthesize(text string) (io.ReadCloser, error)
}

// MusicStopper silences the guild's music session before an utterance, so
// the two domains never fight over the voice channel.
type MusicStopper interface {
	Stop(guildID string) error
}

// guildSession is a voice session plus the in-flight utterance id.
type guildSession struct {
	*voice.Session
	requestID string
}

type Service struct {
	mu        sync.Mutex
	sessions  *voice.Registry[*guildSession]
	manager   *voice.Manager
	transport voice.Transport
	chat      Chatter
	speech    Speech
	music     MusicStopper
}

func NewService(t voice.Transport, chat Chatter, speech Speech, music MusicStopper) *Service {
	return &Service{
		sessions:  voice.NewRegistry[*guildSession](),
		manager:   voice.NewManager(t),
		transport: t,
		chat:      chat,
		speech:    speech,
		music:     music,
	}
}

// TryAdmit reports whether a new utterance would be accepted for the guild
// right now. A guild is busy while its session has a player and a
// connection that is not in a terminal state.
func (s *Service) TryAdmit(guildID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tryAdmitLocked(guildID)
}

func (s *Service) tryAdmitLocked(guildID string) bool {
	sess, ok := s.sessions.Get(guildID)
	if !ok {
		return true
	}
	if sess.Player == nil || sess.Conn == nil {
		return true
	}
	return sess.Conn.Status().Terminal()
}

// Speak runs one utterance: admit, join the requester's channel with a
// fresh player, generate the text (unless tts passes it verbatim),
// synthesize it and play it. It returns the text that is being read so the
// caller can echo it. When the utterance finishes, the session is torn
// down.
func (s *Service) Speak(guildID, channelID, prompt string, tts bool) (string, error) {
	if s.music != nil {
		if err := s.music.Stop(guildID); err == nil {
			log.Printf("[INFO] Stopped music session on guild %s for voice AI", guildID)
		}
	}

	s.mu.Lock()
	if !s.tryAdmitLocked(guildID) {
		s.mu.Unlock()
		return "", ErrBusy
	}

	requestID := uuid.NewString()

	sess, ok := s.sessions.Get(guildID)
	if !ok {
		sess = &guildSession{Session: voice.NewSession(guildID)}
		s.sessions.Put(guildID, sess)
	}
	if sess.Player != nil {
		// leftover player from a dead connection
		sess.Player.Stop()
	}
	sess.requestID = requestID
	sess.Player = s.transport.NewPlayer()

	if err := s.manager.EnsureConnection(sess.Session, channelID); err != nil {
		// keep the session admissible for a retry
		sess.Player = nil
		s.mu.Unlock()
		return "", err
	}
	player := sess.Player
	s.mu.Unlock()

	text := prompt
	if !tts {
		reply, err := s.chat.Reply(prompt)
		if err != nil {
			s.release(guildID, sess, requestID)
			return "", err
		}
		text = reply
	}

	stream, err := s.speech.Synthesize(text)
	if err != nil {
		s.release(guildID, sess, requestID)
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.sessions.Get(guildID)
	if !ok || cur != sess || sess.requestID != requestID {
		stream.Close()
		return "", ErrSuperseded
	}

	voice.WatchCompletion(player, func() { s.finish(sess, requestID) })

	if err := player.Play(stream); err != nil {
		sess.Player = nil
		return "", err
	}
	log.Printf("[INFO] Voice AI reading on guild %s | request=%s tts=%v", guildID, requestID, tts)
	return text, nil
}

// release clears the player slot after an upstream failure so the guild is
// admissible again; the connection is kept for the retry.
func (s *Service) release(guildID string, sess *guildSession, requestID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.sessions.Get(guildID)
	if !ok || cur != sess || sess.requestID != requestID {
		return
	}
	sess.Player = nil
}

// finish is the completion path: the utterance played to the end (or was
// stopped), tear the session down. A completion whose request id no longer
// matches belongs to a superseded utterance and is ignored.
func (s *Service) finish(sess *guildSession, requestID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.sessions.Get(sess.GuildID)
	if !ok || cur != sess || sess.requestID != requestID {
		return
	}

	s.sessions.Delete(sess.GuildID)
	s.manager.Teardown(sess.Session)
	log.Printf("[INFO] Voice AI session closed for guild %s | request=%s", sess.GuildID, requestID)
}

// HasSession reports whether a guild currently has a voice-AI session.
func (s *Service) HasSession(guildID string) bool {
	_, ok := s.sessions.Get(guildID)
	return ok
}
