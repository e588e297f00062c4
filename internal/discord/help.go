package discord

import "github.com/bwmarrin/discordgo"

func (b *Bot) sendHelp(s *discordgo.Session, m *discordgo.MessageCreate) {
	p := b.cfg.CommandPrefix
	b.replyEmbed(s, m, &discordgo.MessageEmbed{
		Title: "Skybot Commands",
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  p + "mhelp",
				Value: "Show commands for music player.",
			},
			{
				Name: p + "chatai <prompt>",
				Value: "Start a conversation with the AI model. Make your prompt as descriptive as possible to get best results. " +
					"After getting a response, you can reply to the message from Skybot to continue the conversation while it remembers context. " +
					"You can keep chaining replies to continue the conversation.",
			},
			{
				Name:  "<mention Skybot> <prompt>",
				Value: "This is identical to " + p + "chatai but added for convenience.",
			},
			{
				Name:  p + "imageai <prompt>",
				Value: "Generate an image based on your prompt. Include more details for better results.",
			},
			{
				Name:  p + "voiceai <prompt>",
				Value: "Ask the AI to generate text and then have a randomly selected funny voice (from a pool of 3) read it out in VC.",
			},
			{
				Name:  p + "tts <text>",
				Value: "Have a randomly selected funny voice (from a pool of 3) read out your written text in VC.",
			},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Made with <3 by Skyline"},
	})
}

func (b *Bot) sendMusicHelp(s *discordgo.Session, m *discordgo.MessageCreate) {
	p := b.cfg.CommandPrefix
	b.replyEmbed(s, m, &discordgo.MessageEmbed{
		Title: "Skybot Music Player Commands",
		Fields: []*discordgo.MessageEmbedField{
			{Name: p + "mplay <text to search song by>", Value: "Play or add a song to queue."},
			{Name: p + "mskip", Value: "Skip to next song in the queue."},
			{Name: p + "mstop", Value: "Stop music, reset queue and leave voice channel."},
			{Name: p + "mpause", Value: "Pause the currently playing song."},
			{Name: p + "mresume", Value: "Resume the currently paused song."},
			{Name: p + "mqueue", Value: "Check the song queue."},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Made with <3 by Skyline"},
	})
}
