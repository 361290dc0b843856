// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package dedupe

import "contact-dedupe/internal/contact"

// unionFind is a disjoint-set forest with path compression and union
// by size.
type unionFind struct {
	parent []int
	size   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), size: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
		uf.size[i] = 1
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	if uf.size[ra] < uf.size[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	uf.size[ra] += uf.size[rb]
}

// Cluster partitions the batch into duplicate groups. Candidate pairs
// come from the blocking index; the detector decides each pair. Every
// record appears in exactly one cluster, singletons included, and
// clusters are ordered by the first appearance of any member in the
// batch.
func Cluster(batch []contact.Contact, idx *Index, det *Detector) [][]int {
	uf := newUnionFind(len(batch))

	for i := range batch {
		for _, j := range idx.Candidates(batch[i].DisplayName()) {
			if j <= i {
				continue
			}
			if det.Match(batch, i, j) {
				uf.union(i, j)
			}
		}
	}

	order := make([]int, 0)
	members := make(map[int][]int)
	for i := range batch {
		root := uf.find(i)
		if _, seen := members[root]; !seen {
			order = append(order, root)
		}
		members[root] = append(members[root], i)
	}

	clusters := make([][]int, 0, len(order))
	for _, root := range order {
		clusters = append(clusters, members[root])
	}
	return clusters
}
