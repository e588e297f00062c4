package voice

// Session is the live voice state for one guild in one domain: the joined
// channel, the connection, and the player bound to it. Domain payloads
// (music queue, AI request id) live in the owning service, which embeds
// this struct in its own session type.
type Session struct {
	GuildID   string
	ChannelID string
	Conn      Connection
	Player    Player
}

// NewSession returns an empty session for a guild. Connection and player
// are filled in by the session manager on the first admitted request.
func NewSession(guildID string) *Session {
	return &Session{GuildID: guildID}
}
