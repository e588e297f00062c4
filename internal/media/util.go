package media

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var watchURLPattern = regexp.MustCompile(`"url":"/watch\?v=([a-zA-Z0-9_-]{11})`)

func extractVideoID(link string) (string, error) {
	switch {
	case strings.Contains(link, "youtu.be/"):
		parts := strings.Split(link, "youtu.be/")
		if len(parts) != 2 {
			return "", errors.New("invalid YouTube URL format")
		}
		return strings.Split(parts[1], "?")[0], nil

	case strings.Contains(link, "youtube.com/watch?v="):
		parts := strings.Split(link, "v=")
		if len(parts) != 2 {
			return "", errors.New("invalid YouTube URL format")
		}
		return strings.Split(parts[1], "&")[0], nil

	default:
		return "", errors.New("unsupported URL format")
	}
}

// FormatDuration renders a track duration the way the queue embeds show it:
// h:mm:ss with the hour omitted when zero, seconds always two digits.
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	switch {
	case hours > 0:
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%d:%02d", minutes, seconds)
	default:
		return fmt.Sprintf("00:%02d", seconds)
	}
}
