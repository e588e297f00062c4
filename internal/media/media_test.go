package media

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "00:00"},
		{5 * time.Second, "00:05"},
		{59 * time.Second, "00:59"},
		{65 * time.Second, "1:05"},
		{10*time.Minute + 3*time.Second, "10:03"},
		{time.Hour + time.Minute + 40*time.Second, "1:01:40"},
		{2*time.Hour + 5*time.Second, "2:00:05"},
		{90*time.Second + 600*time.Millisecond, "1:31"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.in), "duration %v", tt.in)
	}
}

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name    string
		link    string
		want    string
		wantErr bool
	}{
		{
			name: "watch link",
			link: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			want: "dQw4w9WgXcQ",
		},
		{
			name: "watch link with extra params",
			link: "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s",
			want: "dQw4w9WgXcQ",
		},
		{
			name: "short link",
			link: "https://youtu.be/dQw4w9WgXcQ",
			want: "dQw4w9WgXcQ",
		},
		{
			name: "short link with params",
			link: "https://youtu.be/dQw4w9WgXcQ?si=abc",
			want: "dQw4w9WgXcQ",
		},
		{
			name:    "unsupported host",
			link:    "https://vimeo.com/12345",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractVideoID(tt.link)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSearchFirstVideoID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/results", r.URL.Path)
		assert.Equal(t, "never gonna give you up", r.URL.Query().Get("search_query"))

		// trimmed-down shape of a results page: the first watchable hit wins
		fmt.Fprint(w, `{"contents":[{"videoRenderer":{"navigationEndpoint":`+
			`{"commandMetadata":{"webCommandMetadata":{"url":"/watch?v=dQw4w9WgXcQ"}}}}},`+
			`{"videoRenderer":{"navigationEndpoint":{"commandMetadata":`+
			`{"webCommandMetadata":{"url":"/watch?v=zzzzzzzzzzz"}}}}}]}`)
	}))
	t.Cleanup(srv.Close)

	c := NewClient()
	c.baseURL = srv.URL

	id, err := c.searchFirstVideoID("never gonna give you up")
	require.NoError(t, err)
	assert.Equal(t, "dQw4w9WgXcQ", id)
}

func TestSearchFirstVideoIDNoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body>nothing here</body></html>")
	}))
	t.Cleanup(srv.Close)

	c := NewClient()
	c.baseURL = srv.URL

	_, err := c.searchFirstVideoID("obscure query")
	assert.ErrorIs(t, err, ErrNoVideoMatch)
}

func TestSearchFirstVideoIDBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	c := NewClient()
	c.baseURL = srv.URL

	_, err := c.searchFirstVideoID("anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
