// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"testing"

	"clipmap/math/vec"
)

// floorHull is a single solid half-space below z=0.
func floorHull() *Hull {
	plane := &Plane{Normal: vec.Vec3{0, 0, 1}, Dist: 0, Type: PlaneZ}
	return &Hull{
		ClipNodes: []*ClipNode{
			{Plane: plane, Children: [2]int{CONTENTS_EMPTY, CONTENTS_SOLID}},
		},
		Planes:        []*Plane{plane},
		FirstClipNode: 0,
		LastClipNode:  0,
	}
}

// slopeHull is a solid half-space behind a non axial plane.
func slopeHull() *Hull {
	plane := &Plane{Normal: vec.Vec3{0.6, 0, 0.8}, Dist: 0, Type: PlaneAny}
	return &Hull{
		ClipNodes: []*ClipNode{
			{Plane: plane, Children: [2]int{CONTENTS_EMPTY, CONTENTS_SOLID}},
		},
		Planes:        []*Plane{plane},
		FirstClipNode: 0,
		LastClipNode:  0,
	}
}

func sweep(h *Hull, start, end vec.Vec3) Trace {
	trace := Trace{
		AllSolid: true,
		Fraction: 1,
		EndPos:   end,
	}
	h.RecursiveCheck(h.FirstClipNode, 0, 1, start, end, &trace)
	return trace
}

func TestSweepHitsFloor(t *testing.T) {
	h := floorHull()
	tr := sweep(h, vec.Vec3{0, 0, 10}, vec.Vec3{0, 0, -10})
	if tr.Fraction < 0.49 || tr.Fraction > 0.5 {
		t.Errorf("Fraction = %v, want ~0.5", tr.Fraction)
	}
	if tr.Plane.Normal != (vec.Vec3{0, 0, 1}) {
		t.Errorf("Plane.Normal = %v, want (0,0,1)", tr.Plane.Normal)
	}
	if tr.Plane.Distance != 0 {
		t.Errorf("Plane.Distance = %v, want 0", tr.Plane.Distance)
	}
	if tr.StartSolid || tr.AllSolid {
		t.Errorf("StartSolid = %v, AllSolid = %v, want false", tr.StartSolid, tr.AllSolid)
	}
	if !tr.InOpen {
		t.Errorf("InOpen = false, want true")
	}
	// the endpoint sits epsilon above the surface, never inside it
	if tr.EndPos[2] <= 0 || tr.EndPos[2] > 0.1 {
		t.Errorf("EndPos = %v, want z just above 0", tr.EndPos)
	}
}

func TestSweepHitFromBelow(t *testing.T) {
	// a sweep starting in solid is allowed to move out into the open
	h := floorHull()
	tr := sweep(h, vec.Vec3{0, 0, -10}, vec.Vec3{0, 0, 10})
	if !tr.StartSolid {
		t.Errorf("StartSolid = false, want true")
	}
	if tr.AllSolid {
		t.Errorf("AllSolid = true, want false")
	}
}

func TestSweepOpen(t *testing.T) {
	h := floorHull()
	tr := sweep(h, vec.Vec3{0, 0, 10}, vec.Vec3{0, 0, 20})
	if tr.Fraction != 1 {
		t.Errorf("Fraction = %v, want 1", tr.Fraction)
	}
	if !tr.InOpen || tr.InWater {
		t.Errorf("InOpen = %v, InWater = %v, want open", tr.InOpen, tr.InWater)
	}
	if tr.Plane.Normal != (vec.Vec3{}) {
		t.Errorf("Plane.Normal = %v, want none", tr.Plane.Normal)
	}
}

func TestSweepAllSolid(t *testing.T) {
	h := floorHull()
	tr := sweep(h, vec.Vec3{0, 0, -5}, vec.Vec3{0, 0, -8})
	if !tr.AllSolid || !tr.StartSolid {
		t.Errorf("AllSolid = %v, StartSolid = %v, want both", tr.AllSolid, tr.StartSolid)
	}
}

func TestSweepSlope(t *testing.T) {
	h := slopeHull()
	tr := sweep(h, vec.Vec3{0, 0, 10}, vec.Vec3{0, 0, -10})
	// distances to the plane are +8/-8, the crosspoint sits just before 0.5
	if tr.Fraction < 0.49 || tr.Fraction > 0.5 {
		t.Errorf("Fraction = %v, want ~0.5", tr.Fraction)
	}
	if tr.Plane.Normal != (vec.Vec3{0.6, 0, 0.8}) {
		t.Errorf("Plane.Normal = %v", tr.Plane.Normal)
	}
}

func TestHullPointContents(t *testing.T) {
	h := floorHull()
	if got := h.PointContents(h.FirstClipNode, vec.Vec3{0, 0, 5}); got != CONTENTS_EMPTY {
		t.Errorf("PointContents above floor = %v, want empty", got)
	}
	if got := h.PointContents(h.FirstClipNode, vec.Vec3{0, 0, -5}); got != CONTENTS_SOLID {
		t.Errorf("PointContents below floor = %v, want solid", got)
	}
	// distance 0 classifies as the front side
	if got := h.PointContents(h.FirstClipNode, vec.Vec3{0, 0, 0}); got != CONTENTS_EMPTY {
		t.Errorf("PointContents on plane = %v, want empty", got)
	}
}

func TestHullPointContentsBadNode(t *testing.T) {
	h := floorHull()
	if got := h.PointContents(5, vec.Vec3{0, 0, 5}); got != CONTENTS_SOLID {
		t.Errorf("PointContents with bad node = %v, want solid", got)
	}
}

func TestLiquid(t *testing.T) {
	for _, c := range []int{CONTENTS_WATER, CONTENTS_SLIME, CONTENTS_LAVA, CONTENTS_SKY} {
		if !Liquid(c) {
			t.Errorf("Liquid(%d) = false, want true", c)
		}
	}
	for _, c := range []int{CONTENTS_EMPTY, CONTENTS_SOLID} {
		if Liquid(c) {
			t.Errorf("Liquid(%d) = true, want false", c)
		}
	}
}
