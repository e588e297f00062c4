// Package media finds tracks on YouTube and opens playable PCM streams for
// them: search via the results page, metadata and stream URLs via the
// kkdai client, transcoding via ffmpeg.
package media

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	youtube "github.com/kkdai/youtube/v2"
)

var (
	ErrNoVideoMatch   = errors.New("no video found for the given query")
	ErrNoAudioFormats = errors.New("no audio formats available for video")
)

// TrackInfo is the search result for one video.
type TrackInfo struct {
	Link      string
	Title     string
	Duration  time.Duration
	Thumbnail string
}

type Client struct {
	baseURL string
	http    *http.Client
	yt      *youtube.Client
}

func NewClient() *Client {
	return &Client{
		baseURL: "https://www.youtube.com",
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		yt: &youtube.Client{
			HTTPClient: &http.Client{
				Timeout: 15 * time.Second,
			},
		},
	}
}

// Search returns the first video matching the query, with the metadata the
// player embeds need.
func (c *Client) Search(query string) (*TrackInfo, error) {
	videoID, err := c.searchFirstVideoID(query)
	if err != nil {
		return nil, err
	}

	video, err := c.yt.GetVideo(videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch video info: %w", err)
	}

	info := &TrackInfo{
		Link:     fmt.Sprintf("%s/watch?v=%s", c.baseURL, videoID),
		Title:    video.Title,
		Duration: video.Duration,
	}
	if n := len(video.Thumbnails); n > 0 {
		info.Thumbnail = video.Thumbnails[n-1].URL
	}
	return info, nil
}

// OpenStream resolves the best audio format for a video link and returns a
// PCM stream transcoded from it.
func (c *Client) OpenStream(link string) (io.ReadCloser, error) {
	videoID, err := extractVideoID(link)
	if err != nil {
		return nil, err
	}

	video, err := c.yt.GetVideo(videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch video info: %w", err)
	}

	formats := video.Formats.WithAudioChannels()
	if len(formats) == 0 {
		return nil, ErrNoAudioFormats
	}

	streamURL, err := c.yt.GetStreamURL(video, &formats[0])
	if err != nil {
		return nil, fmt.Errorf("failed to get stream URL: %w", err)
	}

	return PCMFromURL(streamURL)
}

// searchFirstVideoID scrapes the results page for the first watchable video
// id, the same way a browser search lands on its first hit.
func (c *Client) searchFirstVideoID(query string) (string, error) {
	searchURL := fmt.Sprintf("%s/results?search_query=%s", c.baseURL, url.QueryEscape(query))

	resp, err := c.http.Get(searchURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search failed with status code %v", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	matches := watchURLPattern.FindStringSubmatch(string(body))
	if len(matches) < 2 {
		return "", ErrNoVideoMatch
	}
	return matches[1], nil
}
