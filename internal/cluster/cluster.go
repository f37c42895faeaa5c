package cluster

import "fmt"

// Mode selects the grouping rule.
type Mode int

const (
	// ModeSeedLink scans documents in index order and joins each later
	// unvisited document to the current group iff its similarity to the
	// group's SEED reaches the threshold. Members are never compared to
	// each other, only to the seed, so the relation is not transitive.
	// This matches the historical grouping behavior exactly.
	ModeSeedLink Mode = iota

	// ModeTransitive groups the connected components of the similarity
	// graph (union-find over every pair at or above the threshold).
	ModeTransitive
)

// ParseMode maps a config string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "seed":
		return ModeSeedLink, nil
	case "transitive":
		return ModeTransitive, nil
	}
	return 0, fmt.Errorf("unknown group mode %q", s)
}

// Groups partitions the indices 0..len(sim)-1 into similarity groups.
// Every index lands in exactly one group; singleton groups are valid.
func Groups(sim [][]float64, threshold float64, mode Mode) [][]int {
	if mode == ModeTransitive {
		return transitiveGroups(sim, threshold)
	}
	return seedLinkGroups(sim, threshold)
}

func seedLinkGroups(sim [][]float64, threshold float64) [][]int {
	n := len(sim)
	groups := make([][]int, 0, n)
	visited := make([]bool, n)
	for i := 0; i < n; i++ {
		if visited[i] {
			continue
		}
		group := []int{i}
		visited[i] = true
		for j := i + 1; j < n; j++ {
			if !visited[j] && sim[i][j] >= threshold {
				group = append(group, j)
				visited[j] = true
			}
		}
		groups = append(groups, group)
	}
	return groups
}

func transitiveGroups(sim [][]float64, threshold float64) [][]int {
	n := len(sim)
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[rb] = ra
		}
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if sim[i][j] >= threshold {
				union(i, j)
			}
		}
	}

	// Emit components in first-seen index order, members ascending.
	groups := make([][]int, 0, n)
	byRoot := make(map[int]int)
	for i := 0; i < n; i++ {
		root := find(i)
		gi, ok := byRoot[root]
		if !ok {
			gi = len(groups)
			byRoot[root] = gi
			groups = append(groups, nil)
		}
		groups[gi] = append(groups[gi], i)
	}
	return groups
}
