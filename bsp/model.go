// SPDX-License-Identifier: GPL-2.0-or-later

// Package bsp holds the static binary space partition of one level and the
// queries running over it: hull sweeps, point classification and the
// potentially visible set. The data is built once per level and read only
// afterwards, so every query is safe to run concurrently.
package bsp

import (
	"clipmap/math/vec"
)

// Content classification of a convex region. The values are negative so
// they can share a field with node numbers.
const (
	_ = -iota
	CONTENTS_EMPTY
	CONTENTS_SOLID
	CONTENTS_WATER
	CONTENTS_SLIME
	CONTENTS_LAVA
	CONTENTS_SKY
)

// Liquid reports whether c classifies as liquid or sky. The content values
// are ordered so the whole range is a single comparison.
func Liquid(c int) bool {
	return c <= CONTENTS_WATER
}

// Plane types. The first three are axis aligned with the normal being the
// unit basis vector, distance tests reduce to one component.
const (
	PlaneX = iota
	PlaneY
	PlaneZ
	PlaneAny
)

type Plane struct {
	Normal vec.Vec3
	Dist   float32
	Type   byte
}

// ClipNode children are either clip node numbers or, when negative,
// content values.
type ClipNode struct {
	Plane    *Plane
	Children [2]int
}

// Hull is one collision tree over the level, expanded for a fixed sweep
// volume so box sweeps reduce to segment sweeps.
type Hull struct {
	ClipNodes     []*ClipNode
	Planes        []*Plane
	FirstClipNode int
	LastClipNode  int
	ClipMins      vec.Vec3
	ClipMaxs      vec.Vec3
}

type NodeBase struct {
	contents int // 0 to differentiate from leafs
}

func (n *NodeBase) Contents() int {
	return n.contents
}

// Node is either an MNode or an MLeaf; leafs have negative contents.
type Node interface {
	Contents() int
}

type MNode struct {
	NodeBase
	Plane    *Plane
	Children [2]Node
}

type MLeaf struct {
	NodeBase
	num               int    // index in Model.Leafs
	CompressedVis     []byte // nil means no vis info, assume all visible
	FirstMarkSurface  int
	MarkSurfaceCount  int
	AmbientSoundLevel [4]byte
}

// Num returns the leaf's index in the model's leaf table.
func (l *MLeaf) Num() int {
	return l.num
}

const (
	MaxMapHulls = 4
	MaxMapLeafs = 70000
)

// Submodel is a separate tree entry point inside the shared tables, the
// level itself is submodel 0.
type Submodel struct {
	Mins         vec.Vec3
	Maxs         vec.Vec3
	Origin       vec.Vec3
	HeadNode     [MaxMapHulls]int
	VisLeafCount int
}

// Model is the queryable form of one level's static geometry.
type Model struct {
	name string

	mins vec.Vec3
	maxs vec.Vec3

	Planes    []*Plane
	Nodes     []*MNode
	Leafs     []*MLeaf
	ClipNodes []*ClipNode
	Submodels []*Submodel
	VisData   []byte

	Hulls [MaxMapHulls]Hull

	// Node is the root of the point tree.
	Node Node
}

func (m *Model) Name() string {
	return m.name
}

func (m *Model) Mins() vec.Vec3 {
	return m.mins
}

func (m *Model) Maxs() vec.Vec3 {
	return m.maxs
}
