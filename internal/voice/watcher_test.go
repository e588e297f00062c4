package voice_test

import (
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skylinehq/skybot/internal/voice"
	"github.com/skylinehq/skybot/internal/voice/voicetest"
)

func pcm() io.ReadCloser {
	return io.NopCloser(strings.NewReader("pcm"))
}

func TestWatchCompletionFiresOnNaturalEnd(t *testing.T) {
	tr := voicetest.NewTransport()
	p := tr.NewPlayer().(*voicetest.Player)

	var fired atomic.Int32
	voice.WatchCompletion(p, func() { fired.Add(1) })

	require.NoError(t, p.Play(pcm()))
	assert.Equal(t, int32(0), fired.Load())

	p.Finish()
	require.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestWatchCompletionFiresOnStop(t *testing.T) {
	tr := voicetest.NewTransport()
	p := tr.NewPlayer().(*voicetest.Player)

	var fired atomic.Int32
	voice.WatchCompletion(p, func() { fired.Add(1) })

	require.NoError(t, p.Play(pcm()))
	p.Stop()

	require.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestWatchCompletionFiresAtMostOnce(t *testing.T) {
	tr := voicetest.NewTransport()
	p := tr.NewPlayer().(*voicetest.Player)

	var fired atomic.Int32
	voice.WatchCompletion(p, func() { fired.Add(1) })

	require.NoError(t, p.Play(pcm()))
	p.Finish()
	require.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, 5*time.Millisecond)

	// a second playback cycle without re-attaching must not fire again
	require.NoError(t, p.Play(pcm()))
	p.Finish()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load())
}

func TestWatchCompletionIgnoresPauseTransitions(t *testing.T) {
	tr := voicetest.NewTransport()
	p := tr.NewPlayer().(*voicetest.Player)

	var fired atomic.Int32
	voice.WatchCompletion(p, func() { fired.Add(1) })

	require.NoError(t, p.Play(pcm()))
	require.NoError(t, p.Pause())
	require.NoError(t, p.Unpause())

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}

func TestWatchCompletionReplacesPreviousWatcher(t *testing.T) {
	tr := voicetest.NewTransport()
	p := tr.NewPlayer().(*voicetest.Player)

	var first, second atomic.Int32
	voice.WatchCompletion(p, func() { first.Add(1) })
	voice.WatchCompletion(p, func() { second.Add(1) })

	require.NoError(t, p.Play(pcm()))
	p.Finish()

	require.Eventually(t, func() bool { return second.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(0), first.Load())
}
