// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"log/slog"

	"github.com/pkg/errors"

	"clipmap/math/vec"
)

// PointInLeaf descends the point tree to the leaf containing p.
func (m *Model) PointInLeaf(p vec.Vec3) (*MLeaf, error) {
	if m == nil || len(m.Nodes) == 0 {
		return nil, errors.New("PointInLeaf: bad model")
	}

	node := m.Node
	for {
		if node.Contents() < 0 {
			return node.(*MLeaf), nil
		}
		n := node.(*MNode)
		plane := n.Plane
		d := vec.Dot(p, plane.Normal) - plane.Dist
		if d > 0 {
			node = n.Children[0]
		} else {
			node = n.Children[1]
		}
	}
}

// visRow is the byte size of a decompressed visibility set. Leaf 0 is the
// universal solid leaf and carries no bit.
func (m *Model) visRow() int {
	return (len(m.Leafs) + 6) / 8 // (len(Leafs) - 'leaf[0]' + 7)/8
}

// DecompressVis expands the run length encoded visibility set in: a
// nonzero byte is literal, a zero byte is followed by a count of zero
// bytes. A nil or empty set decodes as everything visible.
func (m *Model) DecompressVis(in []byte) []byte {
	row := m.visRow()
	out := make([]byte, row)

	if len(in) == 0 {
		// no vis info, so make all visible
		for i := range out {
			out[i] = 0xff
		}
		return out
	}

	// 'in' is compressed and looks like
	// 70550311
	// and gets uncompressed to
	// 700000500011	(7 5x0 5 3x0 1 1)

	j := 0
	for i := 0; i < len(in) && j < row; i++ {
		if in[i] != 0 {
			out[j] = in[i]
			j++
			continue
		}
		i++
		if i >= len(in) {
			slog.Warn("faulty vis data", "model", m.Name())
			break
		}
		// out starts zeroed, a zero run just advances
		for c := in[i]; c > 0 && j < row; c-- {
			j++
		}
	}
	return out
}

// LeafPVS returns the set of leafs potentially visible from leaf. The solid
// leaf sees everything, as does any leaf the map compiler left without vis
// data.
func (m *Model) LeafPVS(leaf *MLeaf) []byte {
	if leaf == m.Leafs[0] { // Leaf 0 is a solid leaf
		return m.DecompressVis(nil)
	}
	return m.DecompressVis(leaf.CompressedVis)
}

// LeafVisible reports whether to can potentially be seen from from.
func (m *Model) LeafVisible(from, to *MLeaf) bool {
	if from == nil || to == nil {
		return false
	}
	n := to.num - 1
	if n < 0 {
		return false // the solid leaf is never visible
	}
	vis := m.LeafPVS(from)
	if n>>3 >= len(vis) {
		return false
	}
	return vis[n>>3]&(1<<uint(n&7)) != 0
}

/*
The PVS must include a small area around the query point to allow head
bobbing or other small motion on the client side. Otherwise, a bob might
cause an entity that should be visible to not show up, especially when the
bob crosses a waterline.
*/
func (m *Model) addToFatPVS(org vec.Vec3, n Node, fpvs []byte) {
	node := n
	for {
		if node.Contents() < 0 {
			// if this is a leaf, accumulate the pvs bits
			if node.Contents() != CONTENTS_SOLID {
				pvs := m.LeafPVS(node.(*MLeaf))
				for i := range fpvs {
					fpvs[i] |= pvs[i]
				}
			}
			return
		}
		no := node.(*MNode)
		plane := no.Plane
		d := vec.Dot(org, plane.Normal) - plane.Dist
		if d > 8 {
			node = no.Children[0]
		} else if d < -8 {
			node = no.Children[1]
		} else { // go down both
			m.addToFatPVS(org, no.Children[0], fpvs)
			node = no.Children[1]
		}
	}
}

// FatPVS calculates a PVS that is the inclusive or of all leafs within 8
// units of the given point.
func (m *Model) FatPVS(org vec.Vec3) []byte {
	pvs := make([]byte, m.visRow())
	m.addToFatPVS(org, m.Node, pvs)
	return pvs
}
