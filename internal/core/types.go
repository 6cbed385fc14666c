// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package core implements the root coordinator of the compositor: the
// scene-graph topology, the output registry, and the two-phase
// transaction pipeline that moves window state from pending through
// inflight to current.
package core

// Box is a layout-coordinate rectangle, width/height in logical pixels.
type Box struct {
	X, Y          int32
	Width, Height int32
}

// Contains reports whether (x, y) falls inside b.
func (b Box) Contains(x, y float64) bool {
	return x >= float64(b.X) && x < float64(b.X+b.Width) &&
		y >= float64(b.Y) && y < float64(b.Y+b.Height)
}

// Clamp returns b moved and shrunk so that it fits entirely within bound.
func (b Box) Clamp(bound Box) Box {
	out := b
	if out.Width > bound.Width {
		out.Width = bound.Width
	}
	if out.Height > bound.Height {
		out.Height = bound.Height
	}
	if out.X < bound.X {
		out.X = bound.X
	}
	if out.Y < bound.Y {
		out.Y = bound.Y
	}
	if out.X+out.Width > bound.X+bound.Width {
		out.X = bound.X + bound.Width - out.Width
	}
	if out.Y+out.Height > bound.Y+bound.Height {
		out.Y = bound.Y + bound.Height - out.Height
	}
	return out
}

// Phase is one of the three snapshots every view and output carries.
type Phase int

const (
	PhasePending Phase = iota
	PhaseInflight
	PhaseCurrent
)

func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseInflight:
		return "inflight"
	case PhaseCurrent:
		return "current"
	default:
		return "unknown"
	}
}

// StackKind distinguishes the two independent orderings every output
// (and the hidden holding area) keeps per phase.
type StackKind int

const (
	// StackFocus orders views by recency of keyboard focus.
	StackFocus StackKind = iota
	// StackWM orders views for window-management / spatial purposes.
	StackWM
)
