package media

import (
	"fmt"
	"io"
	"os/exec"
)

const (
	channels   = 2
	sampleRate = 48000
)

// pcmStream is ffmpeg stdout plus the process it belongs to; closing it
// kills the transcoder.
type pcmStream struct {
	io.ReadCloser
	cmd *exec.Cmd
}

func (s *pcmStream) Close() error {
	_ = s.cmd.Process.Kill()
	return s.ReadCloser.Close()
}

// PCMFromURL transcodes a remote audio source to s16le 48kHz stereo PCM.
func PCMFromURL(url string) (io.ReadCloser, error) {
	cmd := exec.Command("ffmpeg",
		"-reconnect", "1",
		"-reconnect_streamed", "1",
		"-reconnect_delay_max", "5",
		"-i", url,
		"-f", "s16le",
		"-ar", fmt.Sprintf("%d", sampleRate),
		"-ac", fmt.Sprintf("%d", channels),
		"-loglevel", "warning",
		"pipe:1",
	)
	return startPCM(cmd)
}

// PCMFromReader transcodes in-memory audio bytes (e.g. OGG_OPUS synthesis
// output) to s16le 48kHz stereo PCM.
func PCMFromReader(r io.Reader) (io.ReadCloser, error) {
	cmd := exec.Command("ffmpeg",
		"-i", "pipe:0",
		"-f", "s16le",
		"-ar", fmt.Sprintf("%d", sampleRate),
		"-ac", fmt.Sprintf("%d", channels),
		"-loglevel", "warning",
		"pipe:1",
	)
	cmd.Stdin = r
	return startPCM(cmd)
}

func startPCM(cmd *exec.Cmd) (io.ReadCloser, error) {
	reader, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe error: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("command start error: %w", err)
	}
	return &pcmStream{ReadCloser: reader, cmd: cmd}, nil
}
