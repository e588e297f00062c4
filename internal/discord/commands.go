package discord

import (
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// onMessageCreate routes incoming messages: prefix commands, mentions as
// chat prompts, and replies to the bot's chat embeds as conversation
// continuations.
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == s.State.User.ID || m.Author.Bot {
		return
	}

	content := strings.TrimSpace(m.Content)

	mention := "<@" + s.State.User.ID + ">"
	if strings.HasPrefix(content, mention) {
		prompt := strings.TrimSpace(strings.TrimPrefix(content, mention))
		b.handleChat(s, m, prompt, "")
		return
	}

	if strings.HasPrefix(content, b.cfg.CommandPrefix) {
		rest := strings.TrimPrefix(content, b.cfg.CommandPrefix)
		name, arg, _ := strings.Cut(rest, " ")
		b.dispatch(s, m, strings.ToLower(name), strings.TrimSpace(arg))
		return
	}

	if m.MessageReference != nil {
		b.handleConversationReply(s, m, content)
	}
}

func (b *Bot) dispatch(s *discordgo.Session, m *discordgo.MessageCreate, name, arg string) {
	log.Printf("[INFO] Command %q from %s | guild=%s", name, m.Author.Username, m.GuildID)

	switch name {
	case "help":
		b.sendHelp(s, m)
	case "mhelp":
		b.sendMusicHelp(s, m)
	case "mplay":
		b.handleMusicPlay(s, m, arg)
	case "mskip":
		b.handleMusicSkip(s, m)
	case "mstop":
		b.handleMusicStop(s, m)
	case "mpause":
		b.handleMusicPause(s, m)
	case "mresume":
		b.handleMusicResume(s, m)
	case "mqueue":
		b.handleMusicQueue(s, m)
	case "chatai":
		b.handleChat(s, m, arg, "")
	case "imageai":
		b.handleImage(s, m, arg)
	case "voiceai":
		b.handleVoiceAI(s, m, arg, false)
	case "tts":
		b.handleVoiceAI(s, m, arg, true)
	}
}
