// Package depgraph is a minimal dependency-graph accumulator: it records
// the provide/require annotations each pass emits per input file and can
// report requires that never resolved to a known module, plus best-effort
// (non-authoritative) cycles — detection only, not correctness under
// circular CommonJS module semantics.
package depgraph

import "sort"

// Graph accumulates module records across many files. The zero value is
// ready to use.
type Graph struct {
	modules map[string]*module
}

type module struct {
	id       string
	file     string
	requires []string
}

// Add registers one file's provide/require set. A file that provides
// multiple ids (shouldn't happen for either pass, but the accumulator
// doesn't assume it won't) is recorded once per provided id.
func (g *Graph) Add(file string, provides []string, requires []string) {
	if g.modules == nil {
		g.modules = map[string]*module{}
	}
	for _, id := range provides {
		g.modules[id] = &module{id: id, file: file, requires: append([]string(nil), requires...)}
	}
}

// UnresolvedRequires returns, for every recorded module, the requires that
// don't name any module Add has seen — sorted by (requiring module id,
// missing id) for deterministic output.
func (g *Graph) UnresolvedRequires() []UnresolvedRequire {
	var out []UnresolvedRequire
	for id, m := range g.modules {
		for _, req := range m.requires {
			if _, ok := g.modules[req]; !ok {
				out = append(out, UnresolvedRequire{ModuleID: id, RequiredID: req})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ModuleID != out[j].ModuleID {
			return out[i].ModuleID < out[j].ModuleID
		}
		return out[i].RequiredID < out[j].RequiredID
	})
	return out
}

type UnresolvedRequire struct {
	ModuleID   string
	RequiredID string
}

// Cycles reports simple cycles found by depth-first search from every
// module. It's best-effort: a module reachable via more than one path may
// be reported in more than one cycle, and the search does not dedupe
// rotations of the same cycle. Good enough to flag "these modules are
// mutually dependent", not to drive a load order.
func (g *Graph) Cycles() [][]string {
	var cycles [][]string
	visited := map[string]bool{}

	var walk func(id string, path []string, onPath map[string]bool)
	walk = func(id string, path []string, onPath map[string]bool) {
		m, ok := g.modules[id]
		if !ok {
			return
		}
		path = append(path, id)
		onPath[id] = true
		for _, req := range m.requires {
			if onPath[req] {
				cycle := append([]string(nil), path...)
				cycles = append(cycles, cycleFrom(cycle, req))
				continue
			}
			walk(req, path, onPath)
		}
		delete(onPath, id)
	}

	var ids []string
	for id := range g.modules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if !visited[id] {
			walk(id, nil, map[string]bool{})
			visited[id] = true
		}
	}
	return cycles
}

func cycleFrom(path []string, start string) []string {
	for i, id := range path {
		if id == start {
			return append(append([]string(nil), path[i:]...), start)
		}
	}
	return path
}
