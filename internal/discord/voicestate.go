package discord

import (
	"errors"

	"github.com/bwmarrin/discordgo"
)

var errNotInVoiceChannel = errors.New("user not in any voice channel")

// findUserVoiceState returns the voice channel the user currently sits in.
func findUserVoiceState(s *discordgo.Session, guildID, userID string) (string, error) {
	guild, err := s.State.Guild(guildID)
	if err != nil {
		return "", errNotInVoiceChannel
	}
	for _, vs := range guild.VoiceStates {
		if vs.UserID == userID {
			return vs.ChannelID, nil
		}
	}
	return "", errNotInVoiceChannel
}
