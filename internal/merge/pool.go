// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package merge

import (
	"context"
	"sync"

	"contact-dedupe/internal/contact"
)

// Run merges every cluster of the batch and returns the consolidated
// contacts together with the original members of each cluster, both in
// cluster order. Clusters are merged on up to workers goroutines;
// results land in their cluster's slot so the output order is
// deterministic regardless of scheduling.
func (m *Merger) Run(ctx context.Context, batch []contact.Contact, clusters [][]int, workers int) ([]contact.Contact, [][]contact.Contact) {
	if workers < 1 {
		workers = 1
	}
	if workers > len(clusters) {
		workers = len(clusters)
	}

	groups := make([][]contact.Contact, len(clusters))
	for ci, cluster := range clusters {
		members := make([]contact.Contact, 0, len(cluster))
		for _, i := range cluster {
			members = append(members, batch[i])
		}
		groups[ci] = members
	}

	merged := make([]contact.Contact, len(clusters))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ci := range jobs {
				merged[ci] = m.MergeCluster(ctx, groups[ci])
			}
		}()
	}

	for ci := range clusters {
		select {
		case jobs <- ci:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return merged, groups
		}
	}
	close(jobs)
	wg.Wait()

	return merged, groups
}
