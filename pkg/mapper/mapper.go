// Package mapper turns answers into cell writes.
//
// Each question type has an encoder that decides the literal cell text. The
// mapper only ever adds marks: cells of unselected yes/no/na groups are left
// untouched, never cleared.
package mapper

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/protocolfill/pkg/domain"
	"github.com/aretw0/protocolfill/pkg/sheetxml"
)

// Glyphs written into cells.
const (
	MarkTrue  = "X"
	MarkFalse = "-"
	MarkGroup = "x"
)

// Warning is a non-fatal mapping problem. Warnings are logged as they occur
// and returned so callers can count or display them.
type Warning struct {
	QuestionID    string `json:"question_id,omitempty"`
	CellReference string `json:"cell_reference,omitempty"`
	Message       string `json:"message"`
}

func (w Warning) String() string {
	if w.QuestionID == "" {
		return w.Message
	}
	return fmt.Sprintf("%s: %s", w.QuestionID, w.Message)
}

// Input is one mapping pass.
type Input struct {
	Answers    domain.Answers
	Configs    []domain.QuestionConfig
	Calculated map[string]domain.CalculationResult
	// SignatureName is written to the signature cell when set.
	SignatureName string
}

// Mapper maps answers to cell writes. It is safe for concurrent use.
type Mapper struct {
	logger        *slog.Logger
	signatureCell string
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithLogger sets the logger for mapping warnings.
func WithLogger(l *slog.Logger) Option {
	return func(m *Mapper) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithSignatureCell sets the document's designated signature cell.
func WithSignatureCell(ref string) Option {
	return func(m *Mapper) {
		m.signatureCell = ref
	}
}

// New creates a Mapper.
func New(opts ...Option) *Mapper {
	m := &Mapper{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// pass collects the output of one Map call.
type pass struct {
	m        *Mapper
	writes   []domain.CellWrite
	warnings []Warning
}

func (p *pass) write(ref, value string) {
	p.writes = append(p.writes, domain.CellWrite{CellReference: ref, Value: value})
}

func (p *pass) warn(q domain.QuestionConfig, ref, format string, args ...any) {
	w := Warning{QuestionID: q.QuestionID, CellReference: ref, Message: fmt.Sprintf(format, args...)}
	p.warnings = append(p.warnings, w)
	p.m.logger.Warn("answer mapping", "question_id", q.QuestionID, "cell", ref, "type", string(q.Type), "reason", w.Message)
}

// Map produces the cell writes for in. Configs are visited in declaration
// order, so the output is deterministic for a given input.
func (m *Mapper) Map(in Input) ([]domain.CellWrite, []Warning) {
	p := &pass{m: m}
	for _, q := range in.Configs {
		answer, answered := in.Answers[q.QuestionID]
		var calc *domain.CalculationResult
		if r, ok := in.Calculated[q.QuestionID]; ok {
			calc = &r
		}
		if (!answered || answer.IsZero()) && calc == nil {
			continue
		}

		// Unanswered questions with a bad type are left to config.Validate.
		enc, ok := encoders[q.Type]
		if !ok {
			p.warn(q, q.CellReference, "unknown question type %q", q.Type)
			continue
		}
		enc(p, q, answer, calc)
	}
	m.signature(p, in)
	return p.writes, p.warnings
}

// signature appends the signature write unless a question already targets that cell.
func (m *Mapper) signature(p *pass, in Input) {
	name := strings.TrimSpace(in.SignatureName)
	if name == "" {
		return
	}
	if m.signatureCell == "" {
		p.warnings = append(p.warnings, Warning{Message: "signature name given but no signature cell is configured"})
		m.logger.Warn("signature cell not configured")
		return
	}
	cell, err := sheetxml.NormalizeRef(m.signatureCell)
	if err != nil {
		p.warnings = append(p.warnings, Warning{CellReference: m.signatureCell, Message: err.Error()})
		m.logger.Warn("invalid signature cell", "cell", m.signatureCell, "error", err)
		return
	}
	for _, q := range in.Configs {
		for _, ref := range referencedCells(q.CellReference) {
			if ref == cell {
				m.logger.Debug("signature cell mapped by question", "question_id", q.QuestionID, "cell", cell)
				return
			}
		}
	}
	p.write(cell, name)
}

// referencedCells lists every cell named anywhere in a cell reference string.
func referencedCells(ref string) []string {
	var cells []string
	for _, group := range strings.Split(ref, domain.GroupSeparator) {
		for _, c := range strings.Split(group, domain.CellSeparator) {
			if n, err := sheetxml.NormalizeRef(c); err == nil {
				cells = append(cells, n)
			}
		}
	}
	return cells
}

var defaultMapper = New()

// MapAnswers maps answers with the default mapper and no signature.
func MapAnswers(answers domain.Answers, configs []domain.QuestionConfig, calculated map[string]domain.CalculationResult) []domain.CellWrite {
	writes, _ := defaultMapper.Map(Input{Answers: answers, Configs: configs, Calculated: calculated})
	return writes
}
