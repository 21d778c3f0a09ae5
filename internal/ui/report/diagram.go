package report

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"cyclescan/internal/core/app"
)

// DOT renders the reported cycles as a graphviz digraph, cycle edges
// highlighted in red.
func DOT(cycles []app.Cycle) string {
	var buf strings.Builder

	buf.WriteString("digraph cycles {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=rounded, fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=8, penwidth=1.2];\n\n")

	nodes := make(map[string]bool)
	type edge struct{ from, to string }
	var edges []edge
	seen := make(map[edge]bool)

	for _, c := range cycles {
		for i := 0; i+1 < len(c.Files); i++ {
			from, to := c.Files[i], c.Files[i+1]
			nodes[from] = true
			nodes[to] = true
			e := edge{from, to}
			if !seen[e] {
				seen[e] = true
				edges = append(edges, e)
			}
		}
	}

	names := make([]string, 0, len(nodes))
	for n := range nodes {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", n, shortLabel(n))
	}
	buf.WriteString("\n")
	for _, e := range edges {
		fmt.Fprintf(&buf, "  %q -> %q [color=red];\n", e.from, e.to)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// Mermaid renders the reported cycles as a mermaid flowchart.
func Mermaid(cycles []app.Cycle) string {
	var buf strings.Builder
	buf.WriteString("flowchart LR\n")

	ids := make(map[string]string)
	var order []string
	idFor := func(path string) string {
		if id, ok := ids[path]; ok {
			return id
		}
		id := fmt.Sprintf("n%d", len(ids))
		ids[path] = id
		order = append(order, path)
		return id
	}

	type edge struct{ from, to string }
	seen := make(map[edge]bool)
	var lines []string
	for _, c := range cycles {
		for i := 0; i+1 < len(c.Files); i++ {
			e := edge{idFor(c.Files[i]), idFor(c.Files[i+1])}
			if seen[e] {
				continue
			}
			seen[e] = true
			lines = append(lines, fmt.Sprintf("  %s --> %s", e.from, e.to))
		}
	}

	for _, path := range order {
		fmt.Fprintf(&buf, "  %s[%q]\n", ids[path], shortLabel(path))
	}
	for _, line := range lines {
		buf.WriteString(line + "\n")
	}
	return buf.String()
}

func shortLabel(path string) string {
	dir := filepath.Base(filepath.Dir(path))
	if dir == "." || dir == string(filepath.Separator) {
		return filepath.Base(path)
	}
	return filepath.Join(dir, filepath.Base(path))
}
