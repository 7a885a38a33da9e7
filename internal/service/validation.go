package service

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/timetable-workspace/internal/models"
	"github.com/noah-isme/timetable-workspace/pkg/format"
)

// Section rule messages.
const (
	MsgSectionBlank   = "Enter a section code such as A, B, or DSAI."
	MsgSectionYear    = "Use section identifiers, not the academic year."
	MsgSectionInvalid = "Use 1-12 letters/numbers (A, B, C, DSAI, etc.)."
	MsgInvalidEmail   = "Enter a valid email address."

	// SectionAttentionLabel flags stored sections that look like a year.
	SectionAttentionLabel = "Check Format"
)

var (
	yearPattern    = regexp.MustCompile(`^\d{4}$`)
	sectionPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,12}$`)
)

// IsYearLikeSection reports whether a section value is a bare 4-digit year.
func IsYearLikeSection(value interface{}) bool {
	return yearPattern.MatchString(strings.TrimSpace(format.Stringify(value)))
}

// ValidateSection returns the section rule violation for value, or "".
func ValidateSection(value interface{}) string {
	text := strings.TrimSpace(format.Stringify(value))
	switch {
	case text == "":
		return MsgSectionBlank
	case yearPattern.MatchString(text):
		return MsgSectionYear
	case !sectionPattern.MatchString(text):
		return MsgSectionInvalid
	}
	return ""
}

// SectionNeedsAttention is true for stored, non-empty year-like sections.
// Such rows are rendered with a warning but never rejected.
func SectionNeedsAttention(value interface{}) bool {
	return !format.IsBlank(value) && IsYearLikeSection(value)
}

// MissingRequired returns the first editable, required column whose value in
// rec is blank.
func MissingRequired(columns []models.ColumnSpec, rec models.Record) (models.ColumnSpec, bool) {
	for _, col := range columns {
		if !col.Editable || !col.Required {
			continue
		}
		if strings.TrimSpace(format.Stringify(rec[col.Key])) == "" {
			return col, true
		}
	}
	return models.ColumnSpec{}, false
}

// RecordValidator applies dataset specific rules to drafts and edits.
type RecordValidator struct {
	validate *validator.Validate
}

// NewRecordValidator constructs a RecordValidator.
func NewRecordValidator(validate *validator.Validate) *RecordValidator {
	if validate == nil {
		validate = validator.New()
	}
	return &RecordValidator{validate: validate}
}

// ValidateAdd checks a new record. It returns the user facing message of the
// first violation, or "" when the draft may be submitted.
func (v *RecordValidator) ValidateAdd(ds models.DatasetType, columns []models.ColumnSpec, rec models.Record) string {
	if col, missing := MissingRequired(columns, rec); missing {
		return "Please provide " + col.Label + "."
	}
	if ds == models.DatasetBatches {
		if issue := ValidateSection(rec["section"]); issue != "" {
			return issue
		}
	}
	if ds == models.DatasetFaculty {
		if issue := v.validateEmail(rec["email"]); issue != "" {
			return issue
		}
	}
	return ""
}

// ValidateEdit checks an edited record. Only the section rule gates edits.
func (v *RecordValidator) ValidateEdit(ds models.DatasetType, rec models.Record) string {
	if ds == models.DatasetBatches {
		return ValidateSection(rec["section"])
	}
	return ""
}

func (v *RecordValidator) validateEmail(value interface{}) string {
	text := strings.TrimSpace(format.Stringify(value))
	if text == "" {
		return ""
	}
	if err := v.validate.Var(text, "email"); err != nil {
		return MsgInvalidEmail
	}
	return ""
}
