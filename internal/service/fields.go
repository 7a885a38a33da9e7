package service

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/noah-isme/timetable-workspace/internal/models"
	"github.com/noah-isme/timetable-workspace/pkg/format"
)

// FieldKind names the input widget a column renders with.
type FieldKind string

const (
	FieldText   FieldKind = "text"
	FieldNumber FieldKind = "number"
	FieldSelect FieldKind = "select"
)

// FieldInput describes how a client should render an editable column.
type FieldInput struct {
	Key      string    `json:"key"`
	Label    string    `json:"label"`
	Kind     FieldKind `json:"kind"`
	Options  []string  `json:"options,omitempty"`
	Required bool      `json:"required"`
}

// FieldStrategy normalises raw draft values for a single column.
type FieldStrategy interface {
	Kind() FieldKind
	Column() models.ColumnSpec
	Input() FieldInput
	Normalize(raw interface{}) (interface{}, error)
}

// StrategyFor picks the strategy for a column: select when options exist,
// number for numeric columns, text otherwise.
func StrategyFor(col models.ColumnSpec) FieldStrategy {
	switch {
	case len(col.Options) > 0:
		return selectField{col: col}
	case col.Type == models.ColumnNumber:
		return numberField{col: col}
	default:
		return textField{col: col}
	}
}

// StrategiesFor resolves strategies for every column once.
func StrategiesFor(columns []models.ColumnSpec) []FieldStrategy {
	out := make([]FieldStrategy, len(columns))
	for i, col := range columns {
		out[i] = StrategyFor(col)
	}
	return out
}

// FieldInputs lists the inputs of editable columns in column order.
func FieldInputs(strategies []FieldStrategy) []FieldInput {
	out := make([]FieldInput, 0, len(strategies))
	for _, s := range strategies {
		if !s.Column().Editable {
			continue
		}
		out = append(out, s.Input())
	}
	return out
}

// NormalizeRecord applies strategies to the editable fields present in rec.
// Unknown keys and read-only columns are copied through untouched.
func NormalizeRecord(strategies []FieldStrategy, rec models.Record) (models.Record, error) {
	out := rec.Clone()
	if out == nil {
		out = models.Record{}
	}
	for _, s := range strategies {
		col := s.Column()
		if !col.Editable {
			continue
		}
		raw, ok := out[col.Key]
		if !ok {
			continue
		}
		value, err := s.Normalize(raw)
		if err != nil {
			return nil, err
		}
		out[col.Key] = value
	}
	return out, nil
}

// FieldError carries a user facing message for a rejected field value.
type FieldError struct {
	Key     string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

func inputFor(col models.ColumnSpec, kind FieldKind) FieldInput {
	return FieldInput{
		Key:      col.Key,
		Label:    col.Label,
		Kind:     kind,
		Options:  append([]string(nil), col.Options...),
		Required: col.Required,
	}
}

type textField struct{ col models.ColumnSpec }

func (f textField) Kind() FieldKind { return FieldText }
func (f textField) Column() models.ColumnSpec { return f.col }
func (f textField) Input() FieldInput { return inputFor(f.col, FieldText) }

func (f textField) Normalize(raw interface{}) (interface{}, error) {
	if s, ok := raw.(string); ok {
		return strings.TrimSpace(s), nil
	}
	return raw, nil
}

// numberPattern accepts JSON number literals only.
var numberPattern = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

type numberField struct{ col models.ColumnSpec }

func (f numberField) Kind() FieldKind { return FieldNumber }
func (f numberField) Column() models.ColumnSpec { return f.col }
func (f numberField) Input() FieldInput { return inputFor(f.col, FieldNumber) }

func (f numberField) Normalize(raw interface{}) (interface{}, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case json.Number:
		if _, err := v.Float64(); err != nil {
			return nil, f.invalid()
		}
		return v, nil
	case float64, float32, int, int32, int64:
		return v, nil
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return "", nil
		}
		if !numberPattern.MatchString(text) {
			return nil, f.invalid()
		}
		return json.Number(text), nil
	}
	return nil, f.invalid()
}

func (f numberField) invalid() error {
	return &FieldError{Key: f.col.Key, Message: f.col.Label + " must be a number."}
}

type selectField struct{ col models.ColumnSpec }

func (f selectField) Kind() FieldKind { return FieldSelect }
func (f selectField) Column() models.ColumnSpec { return f.col }
func (f selectField) Input() FieldInput { return inputFor(f.col, FieldSelect) }

func (f selectField) Normalize(raw interface{}) (interface{}, error) {
	text := strings.TrimSpace(format.Stringify(raw))
	if text == "" {
		return raw, nil
	}
	for _, opt := range f.col.Options {
		if opt == text {
			return text, nil
		}
	}
	return nil, &FieldError{Key: f.col.Key, Message: "Choose a valid " + f.col.Label + "."}
}
