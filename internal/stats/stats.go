// Package stats holds the pure aggregation behind the dashboard. It never
// touches the store; callers pass in the already-fetched task slice.
package stats

import "github.com/gosuda/taskhive/internal/domain"

// PriorityCount is one bar of the dashboard priority chart.
type PriorityCount struct {
	Name  string `json:"name"`
	Total int    `json:"total"`
}

// GroupByStage counts tasks per stage.
func GroupByStage(tasks []*domain.Task) map[domain.Stage]int {
	groups := make(map[domain.Stage]int)
	for _, t := range tasks {
		groups[t.Stage]++
	}
	return groups
}

// GroupByPriority counts tasks per priority, emitting pairs in first-seen
// order of the input rather than a fixed enum order — the chart preserves
// whatever order the listing produced.
func GroupByPriority(tasks []*domain.Task) []PriorityCount {
	index := make(map[domain.Priority]int)
	var groups []PriorityCount

	for _, t := range tasks {
		if i, ok := index[t.Priority]; ok {
			groups[i].Total++
			continue
		}
		index[t.Priority] = len(groups)
		groups = append(groups, PriorityCount{Name: string(t.Priority), Total: 1})
	}

	return groups
}

// FirstN returns up to n leading tasks of the slice without copying rows.
func FirstN(tasks []*domain.Task, n int) []*domain.Task {
	if len(tasks) <= n {
		return tasks
	}
	return tasks[:n]
}
