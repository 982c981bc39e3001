package mapper

import (
	"strings"

	"github.com/aretw0/protocolfill/pkg/domain"
	"github.com/aretw0/protocolfill/pkg/measurement"
	"github.com/aretw0/protocolfill/pkg/sheetxml"
)

// encoder appends the writes for one answered question.
// calc is non-nil when the calculator produced a result for the question.
type encoder func(p *pass, q domain.QuestionConfig, v domain.Value, calc *domain.CalculationResult)

var encoders map[domain.QuestionType]encoder

func init() {
	encoders = map[domain.QuestionType]encoder{
		domain.QuestionText:        encodeText,
		domain.QuestionNumber:      encodeNumber,
		domain.QuestionMeasurement: encodeNumber,
		domain.QuestionCalculated:  encodeCalculated,
		domain.QuestionTrueFalse:   encodeTrueFalse,
		domain.QuestionYesNoNA:     encodeYesNoNA,
	}
}

// targets resolves one group of cells. In single-cell mode only the first cell is used.
func (p *pass) targets(q domain.QuestionConfig, group string) []string {
	var cells []string
	for _, raw := range strings.Split(group, domain.CellSeparator) {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		ref, err := sheetxml.NormalizeRef(raw)
		if err != nil {
			p.warn(q, raw, "%v", err)
			continue
		}
		cells = append(cells, ref)
		if !q.MultiCell {
			break
		}
	}
	return cells
}

func (p *pass) writeAll(q domain.QuestionConfig, group, value string) {
	for _, ref := range p.targets(q, group) {
		p.write(ref, value)
	}
}

func encodeText(p *pass, q domain.QuestionConfig, v domain.Value, _ *domain.CalculationResult) {
	if v.Kind() == domain.KindBool {
		p.warn(q, q.CellReference, "expected text, got %s", v.Kind())
		return
	}
	p.writeAll(q, q.CellReference, v.String())
}

func encodeNumber(p *pass, q domain.QuestionConfig, v domain.Value, _ *domain.CalculationResult) {
	n, ok := measurement.FromValue(v)
	if !ok {
		p.warn(q, q.CellReference, "expected a number, got %s %q", v.Kind(), v.String())
		return
	}
	p.writeAll(q, q.CellReference, domain.FormatNumber(n))
}

func encodeCalculated(p *pass, q domain.QuestionConfig, v domain.Value, calc *domain.CalculationResult) {
	if calc != nil {
		if n, ok := calc.Number(); ok {
			p.writeAll(q, q.CellReference, domain.FormatNumber(n))
			return
		}
	}
	if v.IsZero() {
		// no usable result and nothing entered by hand
		p.m.logger.Debug("calculated question left empty", "question_id", q.QuestionID)
		return
	}
	encodeNumber(p, q, v, nil)
}

func encodeTrueFalse(p *pass, q domain.QuestionConfig, v domain.Value, _ *domain.CalculationResult) {
	mark := MarkFalse
	b, ok := parseBool(v)
	if !ok {
		p.warn(q, q.CellReference, "unrecognized true/false answer %q, writing false", v.String())
	} else if b {
		mark = MarkTrue
	}
	p.writeAll(q, q.CellReference, mark)
}

func parseBool(v domain.Value) (bool, bool) {
	if b, ok := v.Bool(); ok {
		return b, true
	}
	if n, ok := v.Number(); ok {
		switch n {
		case 1:
			return true, true
		case 0:
			return false, true
		}
		return false, false
	}
	s, _ := v.Str()
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1", "x":
		return true, true
	case "false", "no", "0", "-":
		return false, true
	}
	return false, false
}

// yes_no_na group positions inside CellReference.
const (
	groupYes = iota
	groupNo
	groupNA
)

func encodeYesNoNA(p *pass, q domain.QuestionConfig, v domain.Value, _ *domain.CalculationResult) {
	groups := strings.Split(q.CellReference, domain.GroupSeparator)
	if len(groups) != 3 {
		p.warn(q, q.CellReference, "yes_no_na reference must have 3 groups, found %d; writing raw answer", len(groups))
		p.write(q.CellReference, v.String())
		return
	}

	s, ok := v.Str()
	if !ok {
		p.warn(q, q.CellReference, "expected yes, no or na, got %s", v.Kind())
		return
	}
	var idx int
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes":
		idx = groupYes
	case "no":
		idx = groupNo
	case "na", "n/a":
		idx = groupNA
	default:
		p.warn(q, q.CellReference, "unrecognized yes/no/na answer %q", s)
		return
	}
	p.writeAll(q, groups[idx], MarkGroup)
}
