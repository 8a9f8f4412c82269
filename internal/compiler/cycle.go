package compiler

import (
	"fmt"
	"slices"
	"strings"
)

// dependencyGraph maps a model name to the names it references.
type dependencyGraph map[string][]string

// resolveOrder returns entries ordered so that every entry follows the
// entries it references. It rejects unknown references and cycles.
//
// Strongly connected components come out of Tarjan's algorithm with every
// component after the components it reaches, which for an acyclic graph is
// a dependency order. Visiting roots in declaration order keeps the result
// deterministic.
func resolveOrder(entries []entry) ([]entry, error) {
	byName := make(map[string]entry, len(entries))
	names := make([]string, 0, len(entries))
	graph := make(dependencyGraph, len(entries))
	for _, e := range entries {
		byName[e.name] = e
		names = append(names, e.name)
		graph[e.name] = e.refs
	}

	for _, e := range entries {
		for _, ref := range e.refs {
			if _, ok := byName[ref]; !ok {
				return nil, &CompileError{
					Field:   "system." + e.name + "." + string(e.kind),
					Message: fmt.Sprintf("unknown model %q", ref),
					Pos:     e.pos,
				}
			}
		}
	}

	sccs := tarjanSCC(names, graph)
	order := make([]entry, 0, len(entries))
	for _, scc := range sccs {
		if len(scc) > 1 || hasSelfLoop(scc[0], graph) {
			path := reconstructCyclePath(scc, graph)
			first := byName[path[0]]
			return nil, &CompileError{
				Field:   "system." + first.name,
				Message: "reference cycle: " + strings.Join(path, " -> "),
				Pos:     first.pos,
			}
		}
		order = append(order, byName[scc[0]])
	}
	return order, nil
}

func hasSelfLoop(node string, graph dependencyGraph) bool {
	return slices.Contains(graph[node], node)
}

// tarjanSCC finds strongly connected components, visiting roots in the
// order given.
func tarjanSCC(nodes []string, graph dependencyGraph) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, node := range nodes {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}

	return sccs
}

// reconstructCyclePath walks edges inside scc from its first member back to
// itself. A self-loop yields [name, name].
func reconstructCyclePath(scc []string, graph dependencyGraph) []string {
	start := scc[0]
	if len(scc) == 1 {
		return []string{start, start}
	}

	members := make(map[string]bool, len(scc))
	for _, node := range scc {
		members[node] = true
	}

	current := start
	path := []string{current}
	visited := map[string]bool{}
	for {
		visited[current] = true

		var next string
		for _, neighbor := range graph[current] {
			if members[neighbor] && (!visited[neighbor] || neighbor == start) {
				next = neighbor
				break
			}
		}
		if next == "" {
			break
		}

		path = append(path, next)
		if next == start {
			break
		}
		current = next
	}
	return path
}
