package automaton

import (
	"fmt"
	"io"
	"strings"
)

// dotWriter remembers the first write error so callers check it once.
type dotWriter struct {
	w   io.Writer
	err error
}

func (d *dotWriter) printf(format string, args ...any) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, format, args...)
}

// WriteDOT writes a Graphviz description of a to w.
func (a *Automaton) WriteDOT(w io.Writer) error {
	d := &dotWriter{w: w}
	d.printf("digraph automaton {\n")
	d.printf("    rankdir=LR;\n")
	a.writeBody(d, "    ", "q")
	d.printf("}\n")
	return d.err
}

// WriteDOTCluster writes a as a subgraph cluster named name, for embedding
// in a larger digraph. Node names are prefixed with prefix so that several
// clusters can share one graph.
func (a *Automaton) WriteDOTCluster(w io.Writer, name, prefix string) error {
	d := &dotWriter{w: w}
	d.printf("    subgraph cluster_%s {\n", prefix)
	d.printf("        label=%s;\n", dotQuote(name))
	a.writeBody(d, "        ", prefix)
	d.printf("    }\n")
	return d.err
}

func (a *Automaton) writeBody(d *dotWriter, indent, prefix string) {
	for q, s := range a.states {
		shape := "circle"
		if a.final[q] {
			shape = "doublecircle"
		}
		d.printf("%s%s%d [shape=%s,label=\"%d\"];\n", indent, prefix, q, shape, q)
		for _, t := range s.transitions {
			d.printf("%s%s%d -> %s%d [label=%s];\n", indent, prefix, q, prefix, t.To, dotQuote(t.Set.String()))
		}
		for _, e := range s.epsilons {
			label := "ε"
			if e.Tag != NoTag {
				label = fmt.Sprintf("ε/t%d", e.Tag)
			}
			d.printf("%s%s%d -> %s%d [label=%s,style=dashed];\n", indent, prefix, q, prefix, e.To, dotQuote(label))
		}
	}
	d.printf("%s%s_start [shape=point]; %s_start -> %s%d;\n", indent, prefix, prefix, prefix, a.start)
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

func dotQuote(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}
