package voice

import (
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"layeh.com/gopus"
)

const (
	channels   = 2
	sampleRate = 48000
	frameSize  = 960 // 20ms at 48kHz
)

// DiscordTransport implements Transport over a discordgo session.
type DiscordTransport struct {
	dg *discordgo.Session
}

func NewDiscordTransport(dg *discordgo.Session) *DiscordTransport {
	return &DiscordTransport{dg: dg}
}

func (t *DiscordTransport) Join(guildID, channelID string) (Connection, error) {
	vc, err := t.dg.ChannelVoiceJoin(guildID, channelID, false, true)
	if err != nil {
		return nil, fmt.Errorf("voice join failed: %w", err)
	}
	return &discordConn{vc: vc, status: ConnReady}, nil
}

func (t *DiscordTransport) NewPlayer() Player {
	return &discordPlayer{status: StatusIdle}
}

type discordConn struct {
	mu     sync.Mutex
	vc     *discordgo.VoiceConnection
	status ConnStatus
	bound  *discordPlayer
}

func (c *discordConn) Status() ConnStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status == ConnReady && !c.vc.Ready {
		return ConnDisconnected
	}
	return c.status
}

func (c *discordConn) Subscribe(p Player) {
	dp, ok := p.(*discordPlayer)
	if !ok {
		log.Printf("[WARN] Cannot subscribe foreign player type %T to Discord connection", p)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bound == dp {
		return
	}
	c.bound = dp
	dp.attach(c.vc)
}

func (c *discordConn) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status == ConnDestroyed {
		return
	}
	c.status = ConnDestroyed
	c.bound = nil
	if err := c.vc.Disconnect(); err != nil {
		log.Printf("[WARN] Voice disconnect error: %v", err)
	}
}

// discordPlayer reads s16le PCM from the source, encodes 20ms opus frames
// and pushes them to the bound voice connection.
type discordPlayer struct {
	mu      sync.Mutex
	vc      *discordgo.VoiceConnection
	status  PlayerStatus
	onState func(old, next PlayerStatus)
	stop    chan struct{}
	paused  bool
}

func (p *discordPlayer) attach(vc *discordgo.VoiceConnection) {
	p.mu.Lock()
	p.vc = vc
	p.mu.Unlock()
}

func (p *discordPlayer) Status() PlayerStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

func (p *discordPlayer) OnStateChange(fn func(old, next PlayerStatus)) {
	p.mu.Lock()
	p.onState = fn
	p.mu.Unlock()
}

func (p *discordPlayer) setStatus(next PlayerStatus) {
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

func (p *discordPlayer) Play(src io.ReadCloser) error {
	p.mu.Lock()
	if p.vc == nil {
		p.mu.Unlock()
		src.Close()
		return ErrNotSubscribed
	}
	if p.status.Active() {
		p.mu.Unlock()
		src.Close()
		return ErrAlreadyPlaying
	}
	p.stop = make(chan struct{})
	p.paused = false
	vc := p.vc
	stop := p.stop
	p.mu.Unlock()

	p.setStatus(StatusBuffering)
	go p.stream(vc, src, stop)
	return nil
}

func (p *discordPlayer) stream(vc *discordgo.VoiceConnection, src io.ReadCloser, stop <-chan struct{}) {
	defer src.Close()

	encoder, err := gopus.NewEncoder(sampleRate, channels, gopus.Audio)
	if err != nil {
		log.Printf("[ERR] Opus encoder error: %v", err)
		p.setStatus(StatusIdle)
		return
	}

	if err := vc.Speaking(true); err != nil {
		log.Printf("[WARN] Failed to set speaking state: %v", err)
	}
	defer vc.Speaking(false)

	pcmBuf := make([]byte, frameSize*channels*2)
	intBuf := make([]int16, frameSize*channels)

	for {
		select {
		case <-stop:
			p.setStatus(StatusStopped)
			return
		default:
		}

		if p.isPaused() {
			time.Sleep(20 * time.Millisecond)
			continue
		}

		if _, err := io.ReadFull(src, pcmBuf); err != nil {
			if err != io.EOF && err != io.ErrUnexpectedEOF {
				log.Printf("[WARN] PCM read error: %v", err)
			}
			// natural completion
			p.setStatus(StatusIdle)
			return
		}

		for i := range intBuf {
			intBuf[i] = int16(binary.LittleEndian.Uint16(pcmBuf[i*2 : i*2+2]))
		}

		frame, err := encoder.Encode(intBuf, frameSize, len(pcmBuf))
		if err != nil {
			log.Printf("[ERR] Opus encode error: %v", err)
			p.setStatus(StatusIdle)
			return
		}

		p.setStatus(StatusPlaying)

		select {
		case vc.OpusSend <- frame:
		case <-stop:
			p.setStatus(StatusStopped)
			return
		}
	}
}

func (p *discordPlayer) isPaused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

func (p *discordPlayer) Pause() error {
	p.mu.Lock()
	switch p.status {
	case StatusPaused:
		p.mu.Unlock()
		return ErrAlreadyPaused
	case StatusPlaying, StatusBuffering:
	default:
		p.mu.Unlock()
		return ErrNotPlaying
	}
	p.paused = true
	p.mu.Unlock()

	p.setStatus(StatusPaused)
	return nil
}

func (p *discordPlayer) Unpause() error {
	p.mu.Lock()
	switch p.status {
	case StatusPlaying, StatusBuffering:
		p.mu.Unlock()
		return ErrAlreadyPlaying
	case StatusPaused:
	default:
		p.mu.Unlock()
		return ErrNotPlaying
	}
	p.paused = false
	p.mu.Unlock()

	p.setStatus(StatusPlaying)
	return nil
}

func (p *discordPlayer) Stop() {
	p.mu.Lock()
	stop := p.stop
	p.stop = nil
	p.mu.Unlock()

	if stop != nil {
		close(stop)
	}
}
