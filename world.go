// SPDX-License-Identifier: GPL-2.0-or-later

// Package clipmap answers spatial queries against the static geometry of
// one level: swept segment collision, point classification, leaf to leaf
// visibility and ambient sound levels. All queries are pure functions over
// the immutable level data, concurrent callers need no locking as long as
// the level itself is not being swapped out underneath them.
package clipmap

import (
	"log/slog"

	"clipmap/bsp"
	"clipmap/math/vec"
)

// World wraps one loaded level. It borrows the model for its lifetime and
// never mutates it; discard the World together with the level.
type World struct {
	model *bsp.Model
}

func New(m *bsp.Model) *World {
	return &World{model: m}
}

func (w *World) Model() *bsp.Model {
	return w.model
}

// hull picks the collision tree matching the sweep volume. The trees were
// compiled offline for exactly the point, player and large box volumes;
// anything unrecognized silently falls back to the large hull, which is
// what the maps were built against.
func (w *World) hull(mins, maxs vec.Vec3) *bsp.Hull {
	switch mins[0] {
	case 0:
		return &w.model.Hulls[0]
	case -16:
		return &w.model.Hulls[1]
	default:
		return &w.model.Hulls[2]
	}
}

// Trace sweeps a volume described by mins/maxs relative to the moving
// point from start to end and writes the result into trace. A fraction of
// 1 means the move is unobstructed; a sweep that never leaves solid is
// refused outright with fraction 0.
func (w *World) Trace(start, end, mins, maxs vec.Vec3, trace *bsp.Trace) {
	w.traceHull(w.hull(mins, maxs), start, end, trace)
}

// TraceLine is a point sweep, the degenerate hull 0 volume.
func (w *World) TraceLine(start, end vec.Vec3, trace *bsp.Trace) {
	w.traceHull(&w.model.Hulls[0], start, end, trace)
}

func (w *World) traceHull(h *bsp.Hull, start, end vec.Vec3, trace *bsp.Trace) {
	*trace = bsp.Trace{
		AllSolid: true,
		Fraction: 1,
		EndPos:   end,
	}
	if h.FirstClipNode >= 0 && h.FirstClipNode < len(h.ClipNodes) {
		h.RecursiveCheck(h.FirstClipNode, 0, 1, start, end, trace)
	} else {
		slog.Error("trace: bad head node", "model", w.model.Name(),
			"node", h.FirstClipNode)
	}
	if trace.AllSolid {
		trace.StartSolid = true
	}
	if trace.StartSolid {
		trace.Fraction = 0
	}
	if trace.Fraction == 1 {
		trace.EndPos = end
	} else {
		trace.EndPos = vec.Lerp(start, end, trace.Fraction)
	}
}

// PointContents classifies the space containing p.
func (w *World) PointContents(p vec.Vec3) int {
	h := &w.model.Hulls[0]
	return h.PointContents(h.FirstClipNode, p)
}

// LeafForPoint returns the leaf containing p, nil if the model has no
// point tree.
func (w *World) LeafForPoint(p vec.Vec3) *bsp.MLeaf {
	l, err := w.model.PointInLeaf(p)
	if err != nil {
		slog.Error("LeafForPoint", "err", err)
		return nil
	}
	return l
}

// AmbientLevels returns the four ambient sound levels at p, all zero when
// p resolves to no leaf. The audio subsystem cross fades its loops with
// these, no mixing happens here.
func (w *World) AmbientLevels(p vec.Vec3) [4]byte {
	l := w.LeafForPoint(p)
	if l == nil {
		return [4]byte{}
	}
	return l.AmbientSoundLevel
}

// LeafVisible reports whether to can potentially be seen from from.
func (w *World) LeafVisible(from, to *bsp.MLeaf) bool {
	return w.model.LeafVisible(from, to)
}

// FatPVS is the union of the visibility of all leafs within 8 units of
// org, see Model.FatPVS.
func (w *World) FatPVS(org vec.Vec3) []byte {
	return w.model.FatPVS(org)
}
