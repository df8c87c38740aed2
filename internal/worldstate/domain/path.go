package domain

import (
	"fmt"
	"strings"
)

// Path identifies one tracked variable: a stat of an entity within a
// graph. Entity is empty for graph-level stats. Paths are comparable
// and usable as map keys.
type Path struct {
	Graph  string
	Entity string
	Stat   string
}

// StatPath builds the path of an entity stat.
func StatPath(graph, entity, stat string) Path {
	return Path{Graph: graph, Entity: entity, Stat: stat}
}

// GraphStatPath builds the path of a graph-level stat.
func GraphStatPath(graph, stat string) Path {
	return Path{Graph: graph, Stat: stat}
}

// IsZero reports whether the path is empty.
func (p Path) IsZero() bool {
	return p == Path{}
}

// Valid reports whether the path survives the String/ParsePath round
// trip: graph and stat are set and no component contains the "."
// separator.
func (p Path) Valid() bool {
	if p.Graph == "" || p.Stat == "" {
		return false
	}
	for _, part := range []string{p.Graph, p.Entity, p.Stat} {
		if strings.Contains(part, ".") {
			return false
		}
	}
	return true
}

// String renders the path as "graph.entity.stat" ("graph..stat" for
// graph-level stats).
func (p Path) String() string {
	return p.Graph + "." + p.Entity + "." + p.Stat
}

// ParsePath parses the dotted form produced by String.
func ParsePath(s string) (Path, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 3 {
		return Path{}, fmt.Errorf("parse path %q: want graph.entity.stat", s)
	}
	p := Path{Graph: parts[0], Entity: parts[1], Stat: parts[2]}
	if p.Graph == "" || p.Stat == "" {
		return Path{}, fmt.Errorf("parse path %q: graph and stat are required", s)
	}
	return p, nil
}
