package discord

import (
	"context"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/skylinehq/skybot/internal/ai"
	"github.com/skylinehq/skybot/internal/aivoice"
	"github.com/skylinehq/skybot/internal/config"
	"github.com/skylinehq/skybot/internal/media"
	"github.com/skylinehq/skybot/internal/music"
	"github.com/skylinehq/skybot/internal/storage"
	"github.com/skylinehq/skybot/internal/voice"
)

// Bot is the Discord gateway layer: it routes prefix commands to the music
// and AI services and renders their results as embeds.
type Bot struct {
	dg    *discordgo.Session
	cfg   *config.Config
	store *storage.Store

	media   *media.Client
	chat    *ai.ChatClient
	images  *ai.ImageClient
	music   *music.Service
	aivoice *aivoice.Service
}

func NewBot(cfg *config.Config, store *storage.Store) *Bot {
	return &Bot{cfg: cfg, store: store}
}

// Run connects to Discord and blocks until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	dg, err := discordgo.New("Bot " + b.cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	b.dg = dg

	transport := voice.NewDiscordTransport(dg)
	b.media = media.NewClient()
	b.chat = ai.NewChatClient(b.cfg.OpenAIKey, b.cfg.ChatModel, b.store)
	b.images = ai.NewImageClient(b.cfg.OpenAIKey)
	b.music = music.NewService(transport, b.media)
	b.aivoice = aivoice.NewService(
		transport,
		b.chat,
		&speechSynth{tts: ai.NewTTSClient(b.cfg.GoogleTTSKey)},
		b.music,
	)

	b.configureIntents()
	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onMessageCreate)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer dg.Close()

	<-ctx.Done()
	log.Println("[INFO] ❎ Shutdown signal received. Cleaning up...")
	return nil
}

func (b *Bot) configureIntents() {
	b.dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentsMessageContent
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	if err := s.UpdateWatchStatus(0, b.cfg.CommandPrefix+"help"); err != nil {
		log.Println("[WARN] Failed to set activity:", err)
	}
	log.Printf("[INFO] ✅ Skybot is running as %s", r.User.Username)
}
