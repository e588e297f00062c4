package discord

import (
	"log"
	"time"

	"github.com/bwmarrin/discordgo"
)

const embedColor = 0xffa500

const genericFailure = "Something went wrong :("

func (b *Bot) reply(s *discordgo.Session, m *discordgo.MessageCreate, text string) {
	if _, err := s.ChannelMessageSendReply(m.ChannelID, text, m.Reference()); err != nil {
		log.Println("[ERR] Failed to send reply:", err)
	}
}

func (b *Bot) replyEmbed(s *discordgo.Session, m *discordgo.MessageCreate, embed *discordgo.MessageEmbed) {
	if embed.Color == 0 {
		embed.Color = embedColor
	}
	if _, err := s.ChannelMessageSendEmbedReply(m.ChannelID, embed, m.Reference()); err != nil {
		log.Println("[ERR] Failed to send embed reply:", err)
	}
}

// requesterFooter credits the user who triggered a command, the way all the
// result embeds do.
func requesterFooter(m *discordgo.MessageCreate) *discordgo.MessageEmbedFooter {
	return &discordgo.MessageEmbedFooter{
		Text:    m.Author.Username,
		IconURL: m.Author.AvatarURL(""),
	}
}

func embedTimestamp() string {
	return time.Now().Format(time.RFC3339)
}
