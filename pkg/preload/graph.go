package preload

import "sort"

// dependencyLevels groups strategies so that every strategy comes after the
// strategies it depends on. Dependencies outside the given set are ignored
// here and checked at execution time. Each level is ordered by priority,
// highest first. Strategies that cannot be placed form a cycle and are
// returned separately.
func dependencyLevels(strategies []Strategy) (levels [][]Strategy, cyclic []Strategy) {
	byID := make(map[string]Strategy, len(strategies))
	for _, s := range strategies {
		byID[s.ID] = s
	}

	pending := make(map[string]int, len(strategies))
	dependents := make(map[string][]string)
	for _, s := range strategies {
		pending[s.ID] = 0
		for _, dep := range s.Dependencies {
			if _, ok := byID[dep]; !ok {
				continue
			}
			pending[s.ID]++
			dependents[dep] = append(dependents[dep], s.ID)
		}
	}

	var ready []string
	for id, n := range pending {
		if n == 0 {
			ready = append(ready, id)
		}
	}

	for len(ready) > 0 {
		level := make([]Strategy, 0, len(ready))
		var next []string
		for _, id := range ready {
			level = append(level, byID[id])
			delete(pending, id)
			for _, child := range dependents[id] {
				pending[child]--
				if pending[child] == 0 {
					next = append(next, child)
				}
			}
		}
		sortByPriority(level)
		levels = append(levels, level)
		ready = next
	}

	for id := range pending {
		cyclic = append(cyclic, byID[id])
	}
	sort.Slice(cyclic, func(i, j int) bool { return cyclic[i].ID < cyclic[j].ID })
	return levels, cyclic
}

func sortByPriority(level []Strategy) {
	sort.Slice(level, func(i, j int) bool {
		if level[i].Priority != level[j].Priority {
			return level[i].Priority > level[j].Priority
		}
		return level[i].ID < level[j].ID
	})
}
