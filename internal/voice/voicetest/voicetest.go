// Package voicetest provides in-memory fakes of the voice transport for
// exercising session lifecycle and admission logic without Discord.
package voicetest

import (
	"io"
	"sync"

	"github.com/skylinehq/skybot/internal/voice"
)

// Transport records joins and hands out fake connections and players.
type Transport struct {
	mu      sync.Mutex
	conns   []*Conn
	players []*Player

	// JoinErr, when set, makes Join fail.
	JoinErr error
}

func NewTransport() *Transport {
	return &Transport{}
}

func (t *Transport) Join(guildID, channelID string) (voice.Connection, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.JoinErr != nil {
		return nil, t.JoinErr
	}
	c := &Conn{GuildID: guildID, ChannelID: channelID, status: voice.ConnReady}
	t.conns = append(t.conns, c)
	return c, nil
}

func (t *Transport) NewPlayer() voice.Player {
	t.mu.Lock()
	defer t.mu.Unlock()
	p := &Player{status: voice.StatusIdle}
	t.players = append(t.players, p)
	return p
}

func (t *Transport) Joins() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.conns)
}

func (t *Transport) PlayersCreated() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.players)
}

// LastConn returns the most recently joined connection.
func (t *Transport) LastConn() *Conn {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.conns) == 0 {
		return nil
	}
	return t.conns[len(t.conns)-1]
}

// LastPlayer returns the most recently created player.
func (t *Transport) LastPlayer() *Player {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.players) == 0 {
		return nil
	}
	return t.players[len(t.players)-1]
}

// Conn is a fake voice connection.
type Conn struct {
	GuildID   string
	ChannelID string

	mu             sync.Mutex
	status         voice.ConnStatus
	subscribed     voice.Player
	subscribeCalls int
	destroyCalls   int
}

func (c *Conn) Status() voice.ConnStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// SetStatus forces a connection state, e.g. to simulate a gateway drop.
func (c *Conn) SetStatus(s voice.ConnStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = s
}

func (c *Conn) Subscribe(p voice.Player) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribeCalls++
	c.subscribed = p
}

func (c *Conn) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status == voice.ConnDestroyed {
		return
	}
	c.status = voice.ConnDestroyed
	c.destroyCalls++
}

func (c *Conn) Subscribed() voice.Player {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subscribed
}

func (c *Conn) SubscribeCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subscribeCalls
}

func (c *Conn) DestroyCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.destroyCalls
}

// Player is a fake audio player. Play flips it straight to Playing; tests
// drive completion with Finish.
type Player struct {
	mu        sync.Mutex
	status    voice.PlayerStatus
	onState   func(old, next voice.PlayerStatus)
	playCalls int
	stopCalls int
	sources   []io.ReadCloser
}

func (p *Player) Play(src io.ReadCloser) error {
	p.mu.Lock()
	p.playCalls++
	p.sources = append(p.sources, src)
	p.mu.Unlock()

	p.setStatus(voice.StatusBuffering)
	p.setStatus(voice.StatusPlaying)
	return nil
}

func (p *Player) Pause() error {
	switch p.Status() {
	case voice.StatusPaused:
		return voice.ErrAlreadyPaused
	case voice.StatusPlaying, voice.StatusBuffering:
		p.setStatus(voice.StatusPaused)
		return nil
	}
	return voice.ErrNotPlaying
}

func (p *Player) Unpause() error {
	switch p.Status() {
	case voice.StatusPlaying, voice.StatusBuffering:
		return voice.ErrAlreadyPlaying
	case voice.StatusPaused:
		p.setStatus(voice.StatusPlaying)
		return nil
	}
	return voice.ErrNotPlaying
}

func (p *Player) Stop() {
	p.mu.Lock()
	p.stopCalls++
	active := p.status.Active()
	p.mu.Unlock()
	if active {
		p.setStatus(voice.StatusStopped)
	}
}

func (p *Player) Status() voice.PlayerStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

func (p *Player) OnStateChange(fn func(old, next voice.PlayerStatus)) {
	p.mu.Lock()
	p.onState = fn
	p.mu.Unlock()
}

// Finish simulates playback reaching the natural end of its stream.
func (p *Player) Finish() {
	p.setStatus(voice.StatusIdle)
}

func (p *Player) PlayCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playCalls
}

func (p *Player) StopCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stopCalls
}

func (p *Player) setStatus(next voice.PlayerStatus) {
	p.mu.Lock()
	old := p.status
	if old == next {
		p.mu.Unlock()
		return
	}
	p.status = next
	fn := p.onState
	p.mu.Unlock()

	if fn != nil {
		fn(old, next)
	}
}
