package main

import (
	"github.com/mstarongithub/way2gay/internal/core"
	"github.com/swaywm/go-wlroots/wlroots"
)

// sessionLock tracks one live ext-session-lock-v1 request: a LockSurface
// per output for as long as the lock holds. Every output must be
// showing one of these (or nothing, if the client is slow to draw)
// before the compositor may report itself locked.
type sessionLock struct {
	server   *Server
	lock     wlroots.SessionLockV1
	surfaces map[string]*core.LockSurface
}

func (server *Server) handleNewSessionLock(lock wlroots.SessionLockV1) {
	sl := &sessionLock{server: server, lock: lock, surfaces: map[string]*core.LockSurface{}}

	lock.OnNewSurface(sl.handleNewSurface)
	lock.OnUnlock(sl.handleUnlock)
	lock.OnDestroy(sl.handleUnlock)

	lock.SendLocked()
}

func (sl *sessionLock) handleNewSurface(surface wlroots.SessionLockSurfaceV1) {
	ls := core.NewLockSurface(sl.server.root.Scene())
	sl.surfaces[surface.Output().Name()] = ls
	surface.SetData(ls)

	w, h := surface.Output().EffectiveResolution()
	surface.ConfigureSize(uint32(w), uint32(h))

	surface.OnDestroy(func(wlroots.SessionLockSurfaceV1) {
		ls.Tree.Node().Destroy()
		delete(sl.surfaces, surface.Output().Name())
	})
}

// handleUnlock tears down every remaining lock surface. Used for both
// the unlock request and an abnormal destroy (client died without
// unlocking), since either way nothing should keep covering the
// outputs.
func (sl *sessionLock) handleUnlock(wlroots.SessionLockV1) {
	for name, ls := range sl.surfaces {
		ls.Tree.Node().Destroy()
		delete(sl.surfaces, name)
	}
}
