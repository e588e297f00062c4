package voice

import (
	"fmt"
	"log"
)

// Manager owns connection lifecycle for sessions: join, reuse or rejoin a
// voice channel and keep the session's player bound to the live connection.
type Manager struct {
	transport Transport
}

func NewManager(t Transport) *Manager {
	return &Manager{transport: t}
}

// EnsureConnection makes sure sess has a live connection to channelID. A
// fresh join happens when there is no connection, the requester moved to a
// different channel, or the existing connection is in a terminal state;
// otherwise the connection is reused. The session's player is re-subscribed
// on every call, not only on a fresh join, because services may replace the
// player between playback cycles.
func (m *Manager) EnsureConnection(sess *Session, channelID string) error {
	needJoin := sess.Conn == nil ||
		sess.ChannelID != channelID ||
		sess.Conn.Status().Terminal()

	if needJoin {
		conn, err := m.transport.Join(sess.GuildID, channelID)
		if err != nil {
			return fmt.Errorf("failed to join voice channel %s: %w", channelID, err)
		}
		log.Printf("[INFO] Joined voice channel %s on guild %s", channelID, sess.GuildID)
		sess.Conn = conn
		sess.ChannelID = channelID
	}

	if sess.Player != nil {
		sess.Conn.Subscribe(sess.Player)
	}
	return nil
}

// Teardown destroys the session's connection and stops its player. It is
// idempotent and tolerates sessions missing either field. Removing the
// session from its registry is the caller's job and must happen before the
// player is stopped, so a completion event from the dying player finds no
// registered session to act on.
func (m *Manager) Teardown(sess *Session) {
	if sess == nil {
		return
	}
	if sess.Conn != nil && sess.Conn.Status() != ConnDestroyed {
		sess.Conn.Destroy()
	}
	if sess.Player != nil {
		sess.Player.Stop()
	}
}
