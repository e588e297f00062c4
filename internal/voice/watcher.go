package voice

import "sync"

// WatchCompletion arranges for fn to run once playback on p finishes: the
// first transition from an active status to Idle or Stopped. Both natural
// end-of-stream and an explicit Stop land there, so a skip that stops the
// player rides the same advance path as a finished track.
//
// fn runs on its own goroutine; handlers take their service lock and must
// re-check session identity before acting, since the event may arrive after
// the session was torn down or replaced.
//
// Attaching a watcher replaces any previous subscription on the player, so
// call it again on every playback cycle.
func WatchCompletion(p Player, fn func()) {
	var once sync.Once
	p.OnStateChange(func(old, next PlayerStatus) {
		if old.Active() && (next == StatusIdle || next == StatusStopped) {
			once.Do(func() { go fn() })
		}
	})
}
