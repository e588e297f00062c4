package voice

// ConnStatus is the lifecycle state of a guild voice connection.
type ConnStatus int

const (
	ConnConnecting ConnStatus = iota
	ConnReady
	ConnDisconnected
	ConnDestroyed
)

func (s ConnStatus) String() string {
	switch s {
	case ConnConnecting:
		return "connecting"
	case ConnReady:
		return "ready"
	case ConnDisconnected:
		return "disconnected"
	case ConnDestroyed:
		return "destroyed"
	}
	return "unknown"
}

// Terminal reports whether the connection is no longer usable and must be
// replaced before playback can start.
func (s ConnStatus) Terminal() bool {
	return s == ConnDisconnected || s == ConnDestroyed
}

// PlayerStatus is the lifecycle state of an audio player.
type PlayerStatus int

const (
	StatusIdle PlayerStatus = iota
	StatusBuffering
	StatusPlaying
	StatusPaused
	StatusStopped
)

func (s PlayerStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusBuffering:
		return "buffering"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	case StatusStopped:
		return "stopped"
	}
	return "unknown"
}

// Active reports whether the player currently holds a playback slot. A
// transition out of an active status into Idle or Stopped is what the
// completion watcher reacts to.
func (s PlayerStatus) Active() bool {
	return s == StatusBuffering || s == StatusPlaying || s == StatusPaused
}
