package music

import (
	"log"
	"slices"
	"sync"

	"github.com/skylinehq/skybot/internal/voice"
)

// guildSession is a voice session plus the music payload. epoch counts
// playback cycles; a stream setup that finishes after the cycle it belongs
// to was superseded finds a newer epoch and discards its result.
type guildSession struct {
	*voice.Session
	queue []Track
	epoch int
}

// Service is the music domain: one session per guild, each with an ordered
// queue. A single mutex serializes admission and advancement so that
// append-then-check and teardown are atomic steps.
type Service struct {
	mu        sync.Mutex
	sessions  *voice.Registry[*guildSession]
	manager   *voice.Manager
	transport voice.Transport
	streams   Streamer
}

func NewService(t voice.Transport, streams Streamer) *Service {
	return &Service{
		sessions:  voice.NewRegistry[*guildSession](),
		manager:   voice.NewManager(t),
		transport: t,
		streams:   streams,
	}
}

// Play admits a track for a guild. The track is appended to the queue; if
// the append brought the queue to exactly one entry, playback starts for it
// immediately. That tie-break (length one after append, not "queue was empty
// before") guarantees exactly one start per transition into non-empty.
func (s *Service) Play(guildID, channelID string, track Track) (*PlayResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions.Get(guildID)
	if !ok {
		sess = &guildSession{Session: voice.NewSession(guildID)}
		sess.Player = s.transport.NewPlayer()
		s.sessions.Put(guildID, sess)
	}

	if err := s.manager.EnsureConnection(sess.Session, channelID); err != nil {
		if len(sess.queue) == 0 {
			// a session with no queue and no live connection is empty,
			// drop it so the next attempt starts clean
			s.sessions.Delete(guildID)
		}
		return nil, err
	}

	sess.queue = append(sess.queue, track)
	res := &PlayResult{Started: len(sess.queue) == 1}
	if res.Started {
		s.startHead(sess)
	} else {
		log.Printf("[INFO] Queued track %q for guild %s | position=%d", track.Title, guildID, len(sess.queue))
	}
	return res, nil
}

// SkipToNext moves playback to the next track. It needs a current track and
// a successor. A playing head is stopped so the completion watcher advances.
// A head still in stream setup never started, so stopping it would emit no
// transition; that cycle is invalidated and the queue advanced right here.
func (s *Service) SkipToNext(guildID string) (Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions.Get(guildID)
	if !ok || len(sess.queue) < 2 {
		return Track{}, ErrInsufficientQueue
	}

	next := sess.queue[1]
	if sess.Player.Status().Active() {
		sess.Player.Stop()
	} else {
		s.advanceLocked(sess)
	}
	return next, nil
}

// Stop tears down the guild's session: queue cleared, connection destroyed,
// player stopped, registry entry removed.
func (s *Service) Stop(guildID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions.Get(guildID)
	if !ok {
		return ErrAlreadyStopped
	}
	s.teardownLocked(sess)
	return nil
}

// Pause pauses the current track and returns it for display.
func (s *Service) Pause(guildID string) (Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions.Get(guildID)
	if !ok || len(sess.queue) == 0 {
		return Track{}, ErrNothingPlaying
	}
	if err := sess.Player.Pause(); err != nil {
		return Track{}, err
	}
	return sess.queue[0], nil
}

// Resume resumes a paused track and returns it for display.
func (s *Service) Resume(guildID string) (Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions.Get(guildID)
	if !ok || len(sess.queue) == 0 {
		return Track{}, ErrNothingPlaying
	}
	if err := sess.Player.Unpause(); err != nil {
		return Track{}, err
	}
	return sess.queue[0], nil
}

// Queue returns a copy of the guild's queue, head first.
func (s *Service) Queue(guildID string) []Track {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions.Get(guildID)
	if !ok {
		return nil
	}
	return slices.Clone(sess.queue)
}

// startHead begins a playback cycle for the queue head. Caller holds s.mu.
// The stream is opened on its own goroutine so a slow source never blocks
// other guilds' commands; before the opened stream is handed to the player
// the goroutine re-checks that its cycle is still the current one, since a
// stop or skip may have landed during the setup window.
func (s *Service) startHead(sess *guildSession) {
	track := sess.queue[0]
	player := sess.Player
	sess.epoch++
	epoch := sess.epoch

	voice.WatchCompletion(player, func() { s.advance(sess) })

	go func() {
		stream, err := s.streams.OpenStream(track.Link)

		s.mu.Lock()
		defer s.mu.Unlock()
		if !s.currentCycle(sess, epoch) {
			// session torn down or skipped past while the stream was opening
			if stream != nil {
				stream.Close()
			}
			return
		}

		if err != nil {
			log.Printf("[ERR] Failed to open stream for %q on guild %s: %v", track.Title, sess.GuildID, err)
			// skip the broken track
			s.advanceLocked(sess)
			return
		}
		if err := player.Play(stream); err != nil {
			log.Printf("[ERR] Failed to start playback for %q on guild %s: %v", track.Title, sess.GuildID, err)
			s.advanceLocked(sess)
			return
		}
		log.Printf("[INFO] Now playing %q on guild %s", track.Title, sess.GuildID)
	}()
}

// currentCycle reports whether sess is still registered and epoch is still
// its live playback cycle. Caller holds s.mu.
func (s *Service) currentCycle(sess *guildSession, epoch int) bool {
	cur, ok := s.sessions.Get(sess.GuildID)
	return ok && cur == sess && sess.epoch == epoch
}

// advance removes the finished head of the queue and either starts the next
// track or tears the session down when the queue ran out. Completion events
// from a player whose session was already torn down (and possibly recreated)
// are detected by registry identity and ignored.
func (s *Service) advance(sess *guildSession) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.sessions.Get(sess.GuildID)
	if !ok || cur != sess {
		// stale completion from a superseded session
		return
	}
	s.advanceLocked(sess)
}

// advanceLocked shifts the queue head and starts the next cycle, or tears
// down when the queue ran out. Caller holds s.mu and has verified sess is
// the registered session.
func (s *Service) advanceLocked(sess *guildSession) {
	if len(sess.queue) > 0 {
		sess.queue = sess.queue[1:]
	}
	if len(sess.queue) == 0 {
		s.teardownLocked(sess)
		return
	}
	s.startHead(sess)
}

// teardownLocked removes the session from the registry before touching the
// player, so the stop below cannot re-enter advance against a live entry.
// Caller holds s.mu.
func (s *Service) teardownLocked(sess *guildSession) {
	s.sessions.Delete(sess.GuildID)
	s.manager.Teardown(sess.Session)
	sess.queue = nil
	log.Printf("[INFO] Music session closed for guild %s", sess.GuildID)
}

// Sessions exposes the registry size, used by status reporting and tests.
func (s *Service) Sessions() int {
	return s.sessions.Len()
}

// HasSession reports whether a guild currently has a music session.
func (s *Service) HasSession(guildID string) bool {
	_, ok := s.sessions.Get(guildID)
	return ok
}
