package relational

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// TableGraph is the foreign key dependency graph between tables.
type TableGraph struct {
	nodes map[string]*Table
	edges map[string][]string // table -> tables it references
}

// NewTableGraph builds the graph over tables. Self references and references to
// tables outside the set are ignored.
func NewTableGraph(tables []*Table) *TableGraph {
	graph := &TableGraph{
		nodes: make(map[string]*Table, len(tables)),
		edges: make(map[string][]string),
	}
	for _, t := range tables {
		graph.nodes[t.QualifiedName()] = t
	}
	for _, t := range tables {
		for _, fk := range t.ForeignKeys {
			target := fk.ForeignTableSchema + "." + fk.ForeignTableName
			if target == t.QualifiedName() {
				continue
			}
			if _, ok := graph.nodes[target]; !ok {
				continue
			}
			if slices.Contains(graph.edges[t.QualifiedName()], target) {
				continue
			}
			graph.edges[t.QualifiedName()] = append(graph.edges[t.QualifiedName()], target)
		}
	}
	return graph
}

// TopologicalSort returns tables with referenced tables before the tables
// referencing them. Ties are broken by qualified name.
func (g *TableGraph) TopologicalSort() ([]*Table, error) {
	outDegree := make(map[string]int, len(g.nodes))
	reverseEdges := make(map[string][]string)
	for node := range g.nodes {
		outDegree[node] = len(g.edges[node])
	}
	for source, targets := range g.edges {
		for _, target := range targets {
			reverseEdges[target] = append(reverseEdges[target], source)
		}
	}

	var ready []string
	for node, degree := range outDegree {
		if degree == 0 {
			ready = append(ready, node)
		}
	}
	sort.Strings(ready)

	result := make([]*Table, 0, len(g.nodes))
	for len(ready) > 0 {
		node := ready[0]
		ready = ready[1:]
		result = append(result, g.nodes[node])

		var unlocked []string
		for _, dependent := range reverseEdges[node] {
			outDegree[dependent]--
			if outDegree[dependent] == 0 {
				unlocked = append(unlocked, dependent)
			}
		}
		sort.Strings(unlocked)
		ready = append(ready, unlocked...)
	}

	if len(result) != len(g.nodes) {
		var stuck []string
		for node, degree := range outDegree {
			if degree > 0 {
				stuck = append(stuck, node)
			}
		}
		sort.Strings(stuck)
		return nil, fmt.Errorf("circular foreign key dependency among %s", strings.Join(stuck, ", "))
	}
	return result, nil
}

// Dependencies returns the qualified names of the tables a table references,
// each once, in foreign key order.
func (g *TableGraph) Dependencies(qualifiedName string) []string {
	return g.edges[qualifiedName]
}
