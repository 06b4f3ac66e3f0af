// SPDX-License-Identifier: MPL-2.0

package export

import (
	"fmt"
	"io"
	"strings"
)

// WriteDOT writes the world graph in Graphviz syntax. Each node is labelled
// with the world title and its level count.
func WriteDOT(w io.Writer, doc *Document) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "digraph %q {\n", doc.Game)
	sb.WriteString("  rankdir=LR;\n")
	for _, wd := range doc.Worlds {
		label := string(wd.ID)
		if wd.Title != "" {
			label = wd.Title
		}
		fmt.Fprintf(&sb, "  %q [label=%q];\n", wd.ID, fmt.Sprintf("%s (%d)", label, len(wd.Levels)))
	}
	for _, p := range doc.Paths {
		fmt.Fprintf(&sb, "  %q -> %q;\n", p.From, p.To)
	}
	sb.WriteString("}\n")
	_, err := io.WriteString(w, sb.String())
	return err
}
