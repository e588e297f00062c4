package discord

import (
	"errors"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/skylinehq/skybot/internal/media"
	"github.com/skylinehq/skybot/internal/music"
	"github.com/skylinehq/skybot/internal/voice"
)

func (b *Bot) handleMusicPlay(s *discordgo.Session, m *discordgo.MessageCreate, query string) {
	channelID, err := findUserVoiceState(s, m.GuildID, m.Author.ID)
	if err != nil {
		b.reply(s, m, "You need to be in a voice channel to play a song.")
		return
	}
	if query == "" {
		b.reply(s, m, "No search query provided")
		return
	}

	info, err := b.media.Search(query)
	if err != nil {
		log.Printf("[ERR] Track search failed for %q: %v", query, err)
		b.reply(s, m, genericFailure)
		return
	}

	track := music.Track{
		Title:       info.Title,
		Link:        info.Link,
		Duration:    info.Duration,
		Thumbnail:   info.Thumbnail,
		RequestedBy: m.Author.Username,
	}

	res, err := b.music.Play(m.GuildID, channelID, track)
	if err != nil {
		log.Printf("[ERR] Music play failed | guild=%s: %v", m.GuildID, err)
		b.reply(s, m, genericFailure)
		return
	}

	title := "Added to Queue"
	if res.Started {
		title = "Now Playing"
	}
	b.replyEmbed(s, m, trackEmbed(title, track, m))
}

func (b *Bot) handleMusicSkip(s *discordgo.Session, m *discordgo.MessageCreate) {
	if _, err := findUserVoiceState(s, m.GuildID, m.Author.ID); err != nil {
		b.reply(s, m, "You need to be in a voice channel to skip songs.")
		return
	}

	next, err := b.music.SkipToNext(m.GuildID)
	if err != nil {
		if errors.Is(err, music.ErrInsufficientQueue) {
			b.reply(s, m, "No song in queue to skip to.")
			return
		}
		log.Printf("[ERR] Music skip failed | guild=%s: %v", m.GuildID, err)
		b.reply(s, m, genericFailure)
		return
	}

	b.replyEmbed(s, m, trackEmbed("Skipped To", next, m))
}

func (b *Bot) handleMusicStop(s *discordgo.Session, m *discordgo.MessageCreate) {
	if _, err := findUserVoiceState(s, m.GuildID, m.Author.ID); err != nil {
		b.reply(s, m, "You need to be in a voice channel to stop music player.")
		return
	}

	if err := b.music.Stop(m.GuildID); err != nil {
		if errors.Is(err, music.ErrAlreadyStopped) {
			b.reply(s, m, "Music player is already stopped.")
			return
		}
		log.Printf("[ERR] Music stop failed | guild=%s: %v", m.GuildID, err)
		b.reply(s, m, genericFailure)
		return
	}

	b.reply(s, m, "Stopped music player and cleared song queue.")
}

func (b *Bot) handleMusicPause(s *discordgo.Session, m *discordgo.MessageCreate) {
	if _, err := findUserVoiceState(s, m.GuildID, m.Author.ID); err != nil {
		b.reply(s, m, "You need to be in a voice channel to pause or resume music.")
		return
	}

	track, err := b.music.Pause(m.GuildID)
	if err != nil {
		b.replyPlaybackControlError(s, m, err, "Music is already paused.")
		return
	}
	b.replyEmbed(s, m, trackEmbed("Paused", track, m))
}

func (b *Bot) handleMusicResume(s *discordgo.Session, m *discordgo.MessageCreate) {
	if _, err := findUserVoiceState(s, m.GuildID, m.Author.ID); err != nil {
		b.reply(s, m, "You need to be in a voice channel to pause or resume music.")
		return
	}

	track, err := b.music.Resume(m.GuildID)
	if err != nil {
		b.replyPlaybackControlError(s, m, err, "Music is already playing.")
		return
	}
	b.replyEmbed(s, m, trackEmbed("Resumed", track, m))
}

func (b *Bot) replyPlaybackControlError(s *discordgo.Session, m *discordgo.MessageCreate, err error, redundant string) {
	switch {
	case errors.Is(err, voice.ErrAlreadyPaused), errors.Is(err, voice.ErrAlreadyPlaying):
		b.reply(s, m, redundant)
	case errors.Is(err, music.ErrNothingPlaying), errors.Is(err, voice.ErrNotPlaying):
		b.reply(s, m, "No song is currently playing.")
	default:
		log.Printf("[ERR] Playback control failed | guild=%s: %v", m.GuildID, err)
		b.reply(s, m, genericFailure)
	}
}

func (b *Bot) handleMusicQueue(s *discordgo.Session, m *discordgo.MessageCreate) {
	if _, err := findUserVoiceState(s, m.GuildID, m.Author.ID); err != nil {
		b.reply(s, m, "You need to be in a voice channel to check music queue.")
		return
	}

	tracks := b.music.Queue(m.GuildID)
	if len(tracks) == 0 {
		b.reply(s, m, "Queue is empty.")
		return
	}

	var description string
	for i, track := range tracks {
		marker := ""
		if i == 0 {
			marker = "**[Now Playing]** "
		}
		description += fmt.Sprintf("%s%s - **[%s]** - Added by **%s** \n \n",
			marker, track.Title, media.FormatDuration(track.Duration), track.RequestedBy)
	}

	b.replyEmbed(s, m, &discordgo.MessageEmbed{
		Title:       "Music Queue",
		Description: description,
		Timestamp:   embedTimestamp(),
		Footer:      requesterFooter(m),
	})
}

func trackEmbed(title string, track music.Track, m *discordgo.MessageCreate) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: title,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Title:", Value: track.Title},
			{Name: "Duration:", Value: media.FormatDuration(track.Duration)},
		},
		Thumbnail: &discordgo.MessageEmbedThumbnail{URL: track.Thumbnail},
		Timestamp: embedTimestamp(),
		Footer:    requesterFooter(m),
	}
}
