package discord

import (
	"bytes"
	"errors"
	"io"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/skylinehq/skybot/internal/ai"
	"github.com/skylinehq/skybot/internal/aivoice"
	"github.com/skylinehq/skybot/internal/media"
)

const maxPromptWords = 200

// replyIDPrefix marks the bot's chat embeds so replies to them can be
// recognized as conversation continuations.
const replyIDPrefix = "ID: "

func (b *Bot) handleChat(s *discordgo.Session, m *discordgo.MessageCreate, prompt, parentID string) {
	if !b.validatePrompt(s, m, prompt) {
		return
	}

	reply, err := b.chat.SendMessage(prompt, parentID)
	if err != nil {
		log.Println("[ERR] Chat completion failed:", err)
		b.reply(s, m, genericFailure)
		return
	}

	b.replyEmbed(s, m, &discordgo.MessageEmbed{
		Description: reply.Text,
		Footer:      &discordgo.MessageEmbedFooter{Text: replyIDPrefix + reply.ID},
	})
}

// handleConversationReply continues a conversation when a user replies to
// one of the bot's chat embeds.
func (b *Bot) handleConversationReply(s *discordgo.Session, m *discordgo.MessageCreate, content string) {
	ref := m.MessageReference
	if ref == nil || ref.MessageID == "" {
		return
	}

	parent, err := s.ChannelMessage(m.ChannelID, ref.MessageID)
	if err != nil {
		log.Println("[WARN] Failed to fetch replied-to message:", err)
		return
	}

	if parent.Author == nil || parent.Author.ID != s.State.User.ID {
		return
	}
	if len(parent.Embeds) == 0 || parent.Embeds[0].Footer == nil ||
		!strings.HasPrefix(parent.Embeds[0].Footer.Text, replyIDPrefix) {
		return
	}

	parentID := strings.TrimPrefix(parent.Embeds[0].Footer.Text, replyIDPrefix)
	b.handleChat(s, m, content, parentID)
}

func (b *Bot) handleImage(s *discordgo.Session, m *discordgo.MessageCreate, prompt string) {
	if prompt == "" {
		b.reply(s, m, "No prompt provided")
		return
	}

	url, err := b.images.Generate(prompt)
	if err != nil {
		switch {
		case errors.Is(err, ai.ErrPromptFiltered):
			b.reply(s, m, "Prompt contains filtered words, sorry. :(")
		case errors.Is(err, ai.ErrPromptTooLong):
			b.reply(s, m, "Prompt is too long, sorry. :(")
		default:
			log.Println("[ERR] Image generation failed:", err)
			b.reply(s, m, genericFailure)
		}
		return
	}

	img, err := b.images.Download(url)
	if err != nil {
		log.Println("[ERR] Image download failed:", err)
		b.reply(s, m, genericFailure)
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "AI Generated Image",
		Color: embedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Prompt", Value: prompt},
		},
		Image:     &discordgo.MessageEmbedImage{URL: "attachment://aiimage.png"},
		Timestamp: embedTimestamp(),
		Footer:    requesterFooter(m),
	}

	msg, err := s.ChannelMessageSendComplex(m.ChannelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
		Files: []*discordgo.File{
			{Name: "aiimage.png", ContentType: "image/png", Reader: bytes.NewReader(img)},
		},
		Reference: m.Reference(),
	})
	if err != nil {
		log.Println("[ERR] Failed to send image reply:", err)
		return
	}

	for _, emoji := range []string{"❤️", "😆", "🔥"} {
		if err := s.MessageReactionAdd(m.ChannelID, msg.ID, emoji); err != nil {
			log.Println("[WARN] Failed to add reaction:", err)
		}
	}
}

func (b *Bot) handleVoiceAI(s *discordgo.Session, m *discordgo.MessageCreate, prompt string, tts bool) {
	channelID, err := findUserVoiceState(s, m.GuildID, m.Author.ID)
	if err != nil {
		b.reply(s, m, "You need to be in a voice channel to use Voice AI or TTS.")
		return
	}
	if !b.validatePrompt(s, m, prompt) {
		return
	}

	text, err := b.aivoice.Speak(m.GuildID, channelID, prompt, tts)
	if err != nil {
		switch {
		case errors.Is(err, aivoice.ErrBusy):
			b.reply(s, m, "Voice AI is already reading something, please wait and try again after it's finished.")
		case errors.Is(err, aivoice.ErrSuperseded):
			// a newer request took over, stay silent
		default:
			log.Println("[ERR] Voice AI failed:", err)
			b.reply(s, m, genericFailure)
		}
		return
	}

	title := "Voice AI currently reading"
	if tts {
		title = "TTS currently reading"
	}
	b.replyEmbed(s, m, &discordgo.MessageEmbed{
		Title:       title,
		Description: text,
	})
}

func (b *Bot) validatePrompt(s *discordgo.Session, m *discordgo.MessageCreate, prompt string) bool {
	if prompt == "" {
		b.reply(s, m, "No prompt provided")
		return false
	}
	if len(strings.Fields(prompt)) > maxPromptWords {
		b.reply(s, m, "Prompt exceeds 200 words.")
		return false
	}
	return true
}

// speechSynth adapts the TTS client plus the PCM transcoder to the speech
// interface the voice reader consumes.
type speechSynth struct {
	tts *ai.TTSClient
}

func (x *speechSynth) Synthesize(text string) (io.ReadCloser, error) {
	audio, voice, err := x.tts.Synthesize(text)
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] Synthesized %d bytes of speech | voice=%s", len(audio), voice.Name)
	return media.PCMFromReader(bytes.NewReader(audio))
}
