// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"github.com/pkg/errors"

	"clipmap/math/vec"
)

// The level loader hands its lumps to the query engine through these
// records. They mirror the on disk layout once endianness and format
// versions are resolved; New links them into a queryable Model.

type PlaneData struct {
	Normal [3]float32
	Dist   float32
	Type   int32
}

// NodeData children are node numbers, a negative child c encodes leaf
// -(c+1).
type NodeData struct {
	Plane    int32
	Children [2]int32
}

// ClipNodeData children are clip node numbers, a negative child is a
// content value.
type ClipNodeData struct {
	Plane    int32
	Children [2]int32
}

type LeafData struct {
	Contents         int32
	VisOfs           int32 // offset into Visibility, -1 for none
	FirstMarkSurface uint32
	MarkSurfaceCount uint32
	Ambients         [4]byte
}

type ModelData struct {
	Mins         [3]float32
	Maxs         [3]float32
	Origin       [3]float32
	HeadNode     [MaxMapHulls]int32
	VisLeafCount int32
}

type Data struct {
	Name       string
	Planes     []PlaneData
	Nodes      []NodeData
	ClipNodes  []ClipNodeData
	Leafs      []LeafData
	Models     []ModelData
	Visibility []byte
}

// The two expanded hulls were compiled offline for exactly these volumes.
var (
	hull1Mins = vec.Vec3{-16, -16, -24}
	hull1Maxs = vec.Vec3{16, 16, 32}
	hull2Mins = vec.Vec3{-32, -32, -24}
	hull2Maxs = vec.Vec3{32, 32, 64}
)

// New builds the immutable Model out of the loader supplied arrays. All
// cross table indices are verified here, the queries only defend against
// ranges this validation cannot see.
func New(d *Data) (*Model, error) {
	if len(d.Models) == 0 {
		return nil, errors.Errorf("%s: no models", d.Name)
	}
	if len(d.Leafs) == 0 {
		return nil, errors.Errorf("%s: no leafs", d.Name)
	}
	if len(d.Leafs) > MaxMapLeafs {
		return nil, errors.Errorf("%s: %d leafs exceeds limit %d",
			d.Name, len(d.Leafs), MaxMapLeafs)
	}
	m := &Model{
		name:    d.Name,
		VisData: d.Visibility,
	}
	m.Planes = make([]*Plane, len(d.Planes))
	for i, p := range d.Planes {
		m.Planes[i] = &Plane{
			Normal: vec.VFromA(p.Normal),
			Dist:   p.Dist,
			Type:   byte(p.Type),
		}
	}
	if err := m.loadLeafs(d); err != nil {
		return nil, err
	}
	if err := m.loadNodes(d); err != nil {
		return nil, err
	}
	if err := m.loadClipNodes(d); err != nil {
		return nil, err
	}
	if err := m.loadSubmodels(d); err != nil {
		return nil, err
	}
	m.setupHulls(d)
	return m, nil
}

func (m *Model) loadLeafs(d *Data) error {
	m.Leafs = make([]*MLeaf, len(d.Leafs))
	for i, l := range d.Leafs {
		leaf := &MLeaf{
			NodeBase:          NodeBase{contents: int(l.Contents)},
			num:               i,
			FirstMarkSurface:  int(l.FirstMarkSurface),
			MarkSurfaceCount:  int(l.MarkSurfaceCount),
			AmbientSoundLevel: l.Ambients,
		}
		if leaf.contents >= 0 {
			return errors.Errorf("%s: leaf %d: contents %d is not a content value",
				m.name, i, l.Contents)
		}
		// a missing or broken vis offset means assume all visible
		if l.VisOfs >= 0 && int(l.VisOfs) < len(d.Visibility) {
			leaf.CompressedVis = d.Visibility[l.VisOfs:]
		}
		m.Leafs[i] = leaf
	}
	return nil
}

func (m *Model) loadNodes(d *Data) error {
	m.Nodes = make([]*MNode, len(d.Nodes))
	for i, n := range d.Nodes {
		if int(n.Plane) < 0 || int(n.Plane) >= len(m.Planes) {
			return errors.Errorf("%s: node %d: bad plane %d", m.name, i, n.Plane)
		}
		m.Nodes[i] = &MNode{Plane: m.Planes[n.Plane]}
	}
	// children can point forward, link them in a second pass
	for i, n := range d.Nodes {
		for j, c := range n.Children {
			if c >= 0 {
				if int(c) >= len(m.Nodes) {
					return errors.Errorf("%s: node %d: bad child node %d", m.name, i, c)
				}
				m.Nodes[i].Children[j] = m.Nodes[c]
			} else {
				l := -(int(c) + 1)
				if l >= len(m.Leafs) {
					return errors.Errorf("%s: node %d: bad child leaf %d", m.name, i, l)
				}
				m.Nodes[i].Children[j] = m.Leafs[l]
			}
		}
	}
	return nil
}

func (m *Model) loadClipNodes(d *Data) error {
	m.ClipNodes = make([]*ClipNode, len(d.ClipNodes))
	for i, c := range d.ClipNodes {
		if int(c.Plane) < 0 || int(c.Plane) >= len(m.Planes) {
			return errors.Errorf("%s: clipnode %d: bad plane %d", m.name, i, c.Plane)
		}
		cn := &ClipNode{Plane: m.Planes[c.Plane]}
		for j, child := range c.Children {
			if int(child) >= len(d.ClipNodes) {
				return errors.Errorf("%s: clipnode %d: bad child %d", m.name, i, child)
			}
			cn.Children[j] = int(child)
		}
		m.ClipNodes[i] = cn
	}
	return nil
}

func (m *Model) loadSubmodels(d *Data) error {
	m.Submodels = make([]*Submodel, len(d.Models))
	for i, s := range d.Models {
		sm := &Submodel{
			Mins:         vec.VFromA(s.Mins),
			Maxs:         vec.VFromA(s.Maxs),
			Origin:       vec.VFromA(s.Origin),
			VisLeafCount: int(s.VisLeafCount),
		}
		if int(s.HeadNode[0]) < 0 || int(s.HeadNode[0]) >= len(m.Nodes) {
			return errors.Errorf("%s: model %d: bad head node %d",
				m.name, i, s.HeadNode[0])
		}
		for h := 0; h < MaxMapHulls; h++ {
			sm.HeadNode[h] = int(s.HeadNode[h])
			if h > 0 && sm.HeadNode[h] >= len(m.ClipNodes) {
				return errors.Errorf("%s: model %d: bad head clipnode %d",
					m.name, i, s.HeadNode[h])
			}
		}
		m.Submodels[i] = sm
	}
	world := m.Submodels[0]
	m.mins = world.Mins
	m.maxs = world.Maxs
	m.Node = m.Nodes[world.HeadNode[0]]
	return nil
}

// makeHull0 duplicates the point tree as a clip hull so the degenerate
// point sweep runs the same algorithm as the expanded hulls. Leaf children
// collapse to their leaf's contents.
func (m *Model) makeHull0(d *Data) []*ClipNode {
	out := make([]*ClipNode, len(d.Nodes))
	for i, n := range d.Nodes {
		cn := &ClipNode{Plane: m.Planes[n.Plane]}
		for j, c := range n.Children {
			if c >= 0 {
				cn.Children[j] = int(c)
			} else {
				cn.Children[j] = m.Leafs[-(int(c) + 1)].contents
			}
		}
		out[i] = cn
	}
	return out
}

func (m *Model) setupHulls(d *Data) {
	world := m.Submodels[0]

	h0 := &m.Hulls[0]
	h0.ClipNodes = m.makeHull0(d)
	h0.Planes = m.Planes
	h0.FirstClipNode = world.HeadNode[0]
	h0.LastClipNode = len(h0.ClipNodes) - 1

	h1 := &m.Hulls[1]
	h1.ClipNodes = m.ClipNodes
	h1.Planes = m.Planes
	h1.FirstClipNode = world.HeadNode[1]
	h1.LastClipNode = len(m.ClipNodes) - 1
	h1.ClipMins = hull1Mins
	h1.ClipMaxs = hull1Maxs

	h2 := &m.Hulls[2]
	h2.ClipNodes = m.ClipNodes
	h2.Planes = m.Planes
	h2.FirstClipNode = world.HeadNode[2]
	h2.LastClipNode = len(m.ClipNodes) - 1
	h2.ClipMins = hull2Mins
	h2.ClipMaxs = hull2Maxs
}
