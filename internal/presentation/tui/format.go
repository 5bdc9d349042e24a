package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/deckhand/pkg/domain"
	"gopkg.in/yaml.v3"
)

// FormatPlan lists the proposed actions, one numbered line each.
func FormatPlan(calls []domain.ActionRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Plan: the assistant wants to perform %d action(s).\n", len(calls))
	for i, c := range calls {
		args := c.Arguments
		if strings.TrimSpace(args) == "" {
			args = "{}"
		}
		fmt.Fprintf(&b, "  %d. Call %s with arguments: %s\n", i+1, c.Name, args)
	}
	return b.String()
}

// FormatResult renders one result as a YAML block under a "Result (<name>):" heading.
func FormatResult(res domain.ActionResult) string {
	var body any = res.Payload
	if res.Err != nil {
		body = map[string]string{"error": res.Err.Message}
	}

	out, err := yaml.Marshal(body)
	if err != nil {
		out = []byte(fmt.Sprintf("%v\n", body))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Result (%s):\n", res.Action)
	for _, line := range strings.Split(strings.TrimRight(string(out), "\n"), "\n") {
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// ToYAML marshals v for listing commands.
func ToYAML(v any) (string, error) {
	out, err := yaml.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode yaml: %w", err)
	}
	return string(out), nil
}
