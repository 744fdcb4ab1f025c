package arbor

import "sort"

// ImportReport builds (if stale) and summarizes the file dependency graph.
func (q *Queries) ImportReport() (*DependencyReport, error) {
	_, report, err := q.idx.BuildDependencyGraph()
	if err != nil {
		return nil, err
	}
	return report, nil
}

// Cycles returns all circular import chains in the dependency graph.
func (q *Queries) Cycles() ([]Cycle, error) {
	report, err := q.ImportReport()
	if err != nil {
		return nil, err
	}
	return report.Cycles, nil
}

// DependenciesOf returns the indexed files that file imports, sorted.
func (q *Queries) DependenciesOf(file string) ([]string, error) {
	g, _, err := q.idx.BuildDependencyGraph()
	if err != nil {
		return nil, err
	}
	return sortedKeys(g.Deps[file]), nil
}

// DependentsOf returns the indexed files that import file, sorted.
func (q *Queries) DependentsOf(file string) ([]string, error) {
	g, _, err := q.idx.BuildDependencyGraph()
	if err != nil {
		return nil, err
	}
	return sortedKeys(g.Dependents[file]), nil
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
