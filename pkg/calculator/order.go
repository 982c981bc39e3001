package calculator

import (
	"fmt"
	"strings"

	"github.com/aretw0/protocolfill/pkg/domain"
)

// CycleError reports calculated questions whose inputs depend on each other.
type CycleError struct {
	QuestionIDs []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle between calculated questions: %s", strings.Join(e.QuestionIDs, ", "))
}

// Order returns the calculated questions of configs in evaluation order:
// every question comes after the calculated questions it takes as input.
// Ties keep declaration order. Every question on a cycle is flagged in
// cyclic; they still appear in order so that their dependents come after them.
func Order(configs []domain.QuestionConfig) (order []domain.QuestionConfig, cyclic map[string]bool) {
	calculated := make(map[string]domain.QuestionConfig)
	var ids []string
	for _, q := range configs {
		if q.Type != domain.QuestionCalculated {
			continue
		}
		if _, dup := calculated[q.QuestionID]; !dup {
			ids = append(ids, q.QuestionID)
		}
		calculated[q.QuestionID] = q
	}

	visited := make(map[string]bool, len(ids))
	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		for _, in := range calculated[id].CalculationInputs {
			if _, ok := calculated[in]; ok {
				visit(in)
			}
		}
		order = append(order, calculated[id])
	}
	for _, id := range ids {
		visit(id)
	}

	return order, cycles(ids, calculated)
}

// cycles flags every question in a strongly connected component of more
// than one question, and every question that takes itself as input.
func cycles(ids []string, calculated map[string]domain.QuestionConfig) map[string]bool {
	var (
		next    int
		index   = make(map[string]int, len(ids))
		low     = make(map[string]int, len(ids))
		onStack = make(map[string]bool, len(ids))
		stack   []string
		cyclic  = make(map[string]bool)
	)

	var connect func(id string)
	connect = func(id string) {
		index[id], low[id] = next, next
		next++
		stack = append(stack, id)
		onStack[id] = true

		selfLoop := false
		for _, in := range calculated[id].CalculationInputs {
			if _, ok := calculated[in]; !ok {
				continue
			}
			if in == id {
				selfLoop = true
			}
			if _, seen := index[in]; !seen {
				connect(in)
				low[id] = min(low[id], low[in])
			} else if onStack[in] {
				low[id] = min(low[id], index[in])
			}
		}

		if low[id] != index[id] {
			return
		}
		var component []string
		for {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[top] = false
			component = append(component, top)
			if top == id {
				break
			}
		}
		if len(component) > 1 || selfLoop {
			for _, c := range component {
				cyclic[c] = true
			}
		}
	}

	for _, id := range ids {
		if _, seen := index[id]; !seen {
			connect(id)
		}
	}
	return cyclic
}
