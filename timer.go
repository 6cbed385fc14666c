package main

import (
	"sync"
	"time"

	"github.com/mstarongithub/way2gay/internal/core"
)

// wallTimer implements core.Timer with a plain time.AfterFunc deadline.
// The transaction engine only ever needs one such deadline armed at a
// time, so a single re-armable *time.Timer plus a guard against firing
// a since-disarmed callback is enough.
type wallTimer struct {
	mu      sync.Mutex
	timer   *time.Timer
	epoch   uint64
	onFire  func()
}

func newWallTimer(onFire func()) *wallTimer {
	return &wallTimer{onFire: onFire}
}

func (t *wallTimer) Arm(d time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}
	t.epoch++
	epoch := t.epoch
	t.timer = time.AfterFunc(d, func() {
		t.mu.Lock()
		fire := epoch == t.epoch
		t.mu.Unlock()
		if fire {
			t.onFire()
		}
	})
	return nil
}

func (t *wallTimer) Disarm() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}
	t.epoch++
}

var _ core.Timer = (*wallTimer)(nil)
