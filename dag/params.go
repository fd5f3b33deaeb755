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

// Package dag implements the block DAG (component C4): block insertion with
// parent validation, GHOSTDAG-style selected-parent choice and k-cluster
// blue/red classification, reachability-index wiring, and pruning-point
// generation, per spec.md §4.4. Grounded on kaspad's blockNode (see
// other_examples/b62cf2b8_KabbalahOracle-kaspad__concensus-blockdag-blocknode.go.go)
// for the blue-score ordering and selected-ancestor walk idiom, and on
// original_source/flexidag/dag/src/reachability/tree.rs's add_tree_block flow
// (already implemented by package reachability) for how a block's acceptance
// is wired into the interval tree.
package dag

// Params tunes the GHOSTDAG-style consensus rules this DAG enforces.
type Params struct {
	// K bounds the blue anticone size: a mergeset block is blue only if its
	// anticone, restricted to blocks already chosen blue in the same merge,
	// has size <= K. Kaspad's mainnet uses a K in this class (dagconfig.KType);
	// this is that same tunable, not hard-coded.
	K uint64
}

// DefaultParams matches kaspad's typical mainnet anticone bound.
var DefaultParams = Params{K: 18}

// DefaultCacheSize bounds each of the DAG's per-CF LRUs.
const DefaultCacheSize = 65535
