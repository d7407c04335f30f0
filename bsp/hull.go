// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"log/slog"

	"clipmap/math"
	"clipmap/math/vec"
)

// distEpsilon (1/32) keeps the crosspoint off the splitting plane to keep
// floating point happy.
const distEpsilon = 0.03125

type TracePlane struct {
	Normal   vec.Vec3
	Distance float32
}

// Trace is the result of sweeping a segment through a hull. Plane is only
// valid after an impact and faces the direction the sweep came from.
// Callers keep and reuse the struct, sweeps never allocate.
type Trace struct {
	AllSolid   bool
	StartSolid bool
	InOpen     bool
	InWater    bool
	Fraction   float32
	EndPos     vec.Vec3
	Plane      TracePlane
}

// PointContents classifies p against the tree below node num. Node numbers
// outside the hull's range classify as solid.
func (h *Hull) PointContents(num int, p vec.Vec3) int {
	for num >= 0 {
		if num < h.FirstClipNode || num > h.LastClipNode {
			slog.Error("PointContents: bad node number", "num", num)
			return CONTENTS_SOLID
		}
		node := h.ClipNodes[num]
		plane := node.Plane
		d := func() float32 {
			if plane.Type < PlaneAny {
				return p[plane.Type] - plane.Dist
			}
			return vec.DoublePrecDot(plane.Normal, p) - plane.Dist
		}()
		if d < 0 {
			num = node.Children[1]
		} else {
			num = node.Children[0]
		}
	}

	return num
}

// RecursiveCheck sweeps the segment p1..p2, covering fractions p1f..p2f of
// the full move, through the tree below node num and fills in trace. It
// returns false once the sweep is blocked.
func (h *Hull) RecursiveCheck(num int, p1f, p2f float32, p1, p2 vec.Vec3, trace *Trace) bool {
	for {
		if num < 0 { // reached a content value
			if num != CONTENTS_SOLID {
				trace.AllSolid = false
				if num == CONTENTS_EMPTY {
					trace.InOpen = true
				} else {
					trace.InWater = true
				}
			} else {
				trace.StartSolid = true
			}
			return true
		}
		if num < h.FirstClipNode || num > h.LastClipNode {
			slog.Error("RecursiveCheck: bad node number", "num", num)
			trace.StartSolid = true
			return true
		}

		node := h.ClipNodes[num]
		plane := node.Plane
		t1, t2 := func() (float32, float32) {
			if plane.Type < PlaneAny {
				return (p1[plane.Type] - plane.Dist),
					(p2[plane.Type] - plane.Dist)
			} else {
				return vec.DoublePrecDot(plane.Normal, p1) - plane.Dist,
					vec.DoublePrecDot(plane.Normal, p2) - plane.Dist
			}
		}()
		// Segments that stay on one side of the plane just walk down,
		// which is the common case and the reason this is a loop.
		if t1 >= 0 && t2 >= 0 {
			num = node.Children[0]
			continue
		}
		if t1 < 0 && t2 < 0 {
			num = node.Children[1]
			continue
		}

		// put the crosspoint distEpsilon units on the near side
		frac := func() float32 {
			d := t1 - t2
			// In the C implementation distEpsilon is a float64..
			if t1 < 0 {
				return (t1 + distEpsilon) / d
			}
			return (t1 - distEpsilon) / d
		}()
		frac = math.Clamp(0, frac, 1)
		midf := math.Lerp(p1f, p2f, frac)
		mid := vec.Lerp(p1, p2, frac)
		side := func() int {
			if t1 < 0 {
				return 1
			}
			return 0
		}()
		// The near side has to be resolved before the far side is even
		// looked at, so this part stays recursive.
		if !h.RecursiveCheck(node.Children[side], p1f, midf, p1, mid, trace) {
			return false
		}
		if h.PointContents(node.Children[side^1], mid) != CONTENTS_SOLID {
			// mid..p2 continues on the far side, same walk
			num = node.Children[side^1]
			p1f, p1 = midf, mid
			continue
		}
		if trace.AllSolid {
			return false // never got out of the solid area
		}
		// the other side of the node is solid, this is the impact point
		if side == 0 {
			trace.Plane.Normal = plane.Normal
			trace.Plane.Distance = plane.Dist
		} else {
			trace.Plane.Normal = vec.Sub(vec.Vec3{}, plane.Normal)
			trace.Plane.Distance = -plane.Dist
		}
		for h.PointContents(h.FirstClipNode, mid) == CONTENTS_SOLID {
			// shouldn't really happen, but does occasionally
			frac -= 0.1
			if frac < 0 {
				trace.Fraction = midf
				trace.EndPos = mid
				slog.Debug("trace backup past 0")
				return false
			}
			midf = math.Lerp(p1f, p2f, frac)
			mid = vec.Lerp(p1, p2, frac)
		}
		trace.Fraction = midf
		trace.EndPos = mid

		return false
	}
}
