package decision

import (
	"fmt"
	"strings"
)

// RenderMarkdown renders a GateResult as a Markdown string.
func RenderMarkdown(result *GateResult) string {
	var sb strings.Builder

	sb.WriteString("# Model Quality Gate\n\n")
	sb.WriteString(fmt.Sprintf("Model: `%s`\n\n", result.ModelType))
	sb.WriteString(fmt.Sprintf("## Decision: %s\n\n", result.Decision))

	sb.WriteString("| # | Criterion | Threshold | Actual | Pass |\n")
	sb.WriteString("|---|-----------|-----------|--------|------|\n")
	for i, c := range result.Criteria {
		passStr := "PASS"
		if !c.Pass {
			passStr = "FAIL"
		}
		sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s |\n",
			i+1, c.Name, c.Threshold, c.Actual, passStr))
	}
	sb.WriteString("\n")

	passed := 0
	for _, c := range result.Criteria {
		if c.Pass {
			passed++
		}
	}
	sb.WriteString(fmt.Sprintf("Criteria: %d/%d passed\n\n", passed, len(result.Criteria)))

	sb.WriteString("## Summary\n\n")
	if result.Decision == DecisionGO {
		sb.WriteString("All quality criteria passed.\n")
	} else {
		sb.WriteString("Decision is NO-GO due to:\n")
		for _, c := range result.Criteria {
			if !c.Pass {
				sb.WriteString(fmt.Sprintf("- %s (threshold %s, actual %s)\n", c.Name, c.Threshold, c.Actual))
			}
		}
	}

	return sb.String()
}
