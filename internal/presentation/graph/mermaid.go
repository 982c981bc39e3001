package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/protocolfill/pkg/domain"
)

// GraphOverlay contains evaluation state to visualize on the graph.
type GraphOverlay struct {
	// Results colour calculated questions by outcome.
	Results map[string]domain.CalculationResult
	// Cyclic marks questions that are part of a dependency cycle.
	Cyclic map[string]bool
}

// GenerateMermaid produces a Mermaid flowchart of the calculation
// dependencies between questions. It applies semantic styling:
// - Calculated: [[Subroutine]] labelled with the formula
// - Measurement/Number input: [/Parallelogram/]
// - Input referenced but not configured: ((Circle))
// Questions that neither feed nor are a calculation are left out.
func GenerateMermaid(configs []domain.QuestionConfig, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	index := domain.IndexConfigs(configs)
	used := make(map[string]bool)
	for _, q := range configs {
		if q.Type != domain.QuestionCalculated {
			continue
		}
		used[q.QuestionID] = true
		for _, in := range q.CalculationInputs {
			used[in] = true
		}
	}

	ids := make([]string, 0, len(used))
	for id := range used {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		safeID := sanitizeMermaidID(id)
		q, known := index[id]

		opener, closer := "[", "]"
		label := id
		switch {
		case !known:
			opener, closer = "((", "))"
		case q.Type == domain.QuestionCalculated:
			opener, closer = "[[", "]]"
			label = fmt.Sprintf("%s <br/> %s", id, escapeLabel(q.CalculationFormula))
		case q.Type.IsNumeric():
			opener, closer = "[/", "/]"
		}
		if known && q.Unit != "" {
			label += " (" + escapeLabel(q.Unit) + ")"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, label, closer)
	}

	// Edges point from input to the calculation consuming it.
	for _, q := range configs {
		if q.Type != domain.QuestionCalculated {
			continue
		}
		to := sanitizeMermaidID(q.QuestionID)
		for _, in := range q.CalculationInputs {
			arrow := "-->"
			if in, ok := index[in]; ok && in.Type == domain.QuestionCalculated {
				arrow = "==>"
			}
			fmt.Fprintf(&sb, "    %s %s %s\n", sanitizeMermaidID(in), arrow, to)
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for contrast regardless of theme
		sb.WriteString("    classDef ok fill:#e8f5e9,stroke:#2e7d32,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef limits fill:#fff3e0,stroke:#ef6c00,stroke-width:3px,color:#000;\n")
		sb.WriteString("    classDef invalid fill:#ffebee,stroke:#c62828,stroke-width:3px,color:#000;\n")
		sb.WriteString("    classDef cycle fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		for _, id := range ids {
			safeID := sanitizeMermaidID(id)
			if overlay.Cyclic[id] {
				fmt.Fprintf(&sb, "    class %s cycle;\n", safeID)
				continue
			}
			r, ok := overlay.Results[id]
			if !ok {
				continue
			}
			switch {
			case !r.IsValid:
				fmt.Fprintf(&sb, "    class %s invalid;\n", safeID)
			case !r.IsWithinLimits:
				fmt.Fprintf(&sb, "    class %s limits;\n", safeID)
			default:
				fmt.Fprintf(&sb, "    class %s ok;\n", safeID)
			}
		}
	}

	return sb.String()
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
