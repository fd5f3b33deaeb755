// Copyright 2026 The starcoin-core Authors
// This file is part of the starcoin-core library.
//
// The starcoin-core library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The starcoin-core library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the starcoin-core library. If not, see <http://www.gnu.org/licenses/>.

package accumulator

import (
	"github.com/starcoinorg/starcoin-core/common"
	"github.com/starcoinorg/starcoin-core/starerr"
)

// ProofNode is one step of a membership proof: the sibling hash encountered
// while walking from a leaf toward its peak. Left reports the path node's
// own side — true means the path node being proved is the left child, so
// the combine step is H(path, sibling); false means H(sibling, path).
type ProofNode struct {
	Hash common.Hash
	Left bool
}

// Proof is a membership proof for one leaf: the sibling path up to its peak,
// plus every peak hash needed to re-derive the bagged root (the Rust trait's
// get_proof return value).
type Proof struct {
	LeafIndex uint64
	Siblings  []ProofNode
	Peaks     []common.Hash
	PeakIndex int
}

// GetProof builds a membership proof for the leaf at leafIndex.
func (a *Accumulator) GetProof(leafIndex uint64) (*Proof, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if leafIndex >= a.numLeaves {
		return nil, starerr.ErrKeyNotFound
	}

	var siblings []ProofNode
	cur := leafNodeIndex(leafIndex)
	for {
		parent := parentOf(cur)
		ok, err := a.hasNode(parent)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		sib := siblingOf(cur)
		sibHash, err := a.readNode(sib)
		if err != nil {
			return nil, err
		}
		siblings = append(siblings, ProofNode{Hash: sibHash, Left: isLeftChild(cur)})
		cur = parent
	}

	peakIndex := -1
	peakHashes := make([]common.Hash, len(a.peaks))
	for i, p := range a.peaks {
		h, err := a.readNode(p)
		if err != nil {
			return nil, err
		}
		peakHashes[i] = h
		if p == cur {
			peakIndex = i
		}
	}
	if peakIndex < 0 {
		return nil, starerr.NewInvariantViolation("accumulator.GetProof", "path did not terminate at a known peak")
	}

	return &Proof{LeafIndex: leafIndex, Siblings: siblings, Peaks: peakHashes, PeakIndex: peakIndex}, nil
}

// Verify checks that leafHash is a member of the tree rooted at expectedRoot
// according to proof.
func Verify(leafHash common.Hash, proof *Proof, expectedRoot common.Hash) bool {
	if proof == nil || proof.PeakIndex < 0 || proof.PeakIndex >= len(proof.Peaks) {
		return false
	}

	cur := leafHash
	for _, step := range proof.Siblings {
		if step.Left {
			cur = common.Keccak256Hash(cur.Bytes(), step.Hash.Bytes())
		} else {
			cur = common.Keccak256Hash(step.Hash.Bytes(), cur.Bytes())
		}
	}

	if proof.Peaks[proof.PeakIndex] != cur {
		return false
	}

	return bagPeakHashes(proof.Peaks) == expectedRoot
}
