package tui

import (
	"fmt"
	"strings"

	"github.com/yurisbeljimenez/aitools/provision"
)

// RenderSummary renders the end-of-run report: one line per tool, warnings
// indented beneath their tool, and a final count. Every failure is listed
// with its reason — a partial success is never silent.
func RenderSummary(styles *StyleSet, s *provision.Summary) string {
	var b strings.Builder

	for _, o := range s.Outcomes {
		b.WriteString("  " + renderOutcomeLine(styles, o) + "\n")
		for _, w := range o.Warnings {
			b.WriteString("      " + styles.WarningTxt.Render("! "+w) + "\n")
		}
	}

	b.WriteString("\n")
	counts := fmt.Sprintf("%d installed, %d failed", s.Succeeded(), s.FailedCount())
	if s.FailedCount() > 0 {
		b.WriteString("  " + styles.ErrorTxt.Render(counts) + "\n")
	} else {
		b.WriteString("  " + styles.SuccessTxt.Render(counts) + "\n")
	}

	return b.String()
}

// RenderPathWarning renders the hint shown when the bin directory is not on
// the user's PATH.
func RenderPathWarning(styles *StyleSet, binDir string) string {
	return "  " + styles.WarningTxt.Render(fmt.Sprintf("warning: %s is not on your PATH; published commands will not resolve", binDir)) + "\n"
}
