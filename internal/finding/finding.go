// Package finding defines the error/warning records produced by every
// validation stage.
package finding

import "fmt"

// Severity of a finding.
type Severity string

const (
	// SeverityError blocks deployment.
	SeverityError Severity = "error"
	// SeverityWarning is surfaced to operators but never blocks deployment.
	SeverityWarning Severity = "warning"
)

// Code is the machine-stable identifier of a finding.
type Code string

// Structural codes. All are errors except InvalidEncoding.
const (
	EmptyFile             Code = "empty-file"
	NoDataRows            Code = "no-data-rows"
	BoundaryDelimiter     Code = "boundary-delimiter"
	ConsecutiveDelimiters Code = "consecutive-delimiters"
	ColumnCountMismatch   Code = "column-count-mismatch"
	DuplicateHeader       Code = "duplicate-header"
	MalformedQuotes       Code = "malformed-quotes"
	ValueTooLong          Code = "value-too-long"
	SearchKeyMissing      Code = "search-key-missing"
	InvalidEncoding       Code = "invalid-encoding"
)

// Inference and quality codes. All are warnings.
const (
	MixedDataTypes        Code = "mixed-data-types"
	DuplicateValues       Code = "duplicate-values"
	EmptyRow              Code = "empty-row"
	InjectionRisk         Code = "injection-risk"
	SQLInjectionPattern   Code = "sql-injection-pattern"
	XSSPattern            Code = "xss-pattern"
	HeaderInvalidChars    Code = "header-invalid-characters"
	HeaderStartsWithDigit Code = "header-starts-with-digit"
	HeaderTooLong         Code = "header-too-long"
	HeaderEmpty           Code = "header-empty"
	SearchKeyEmpty        Code = "search-key-empty"
)

// Finding is a single validation result. Row is a 1-based physical line
// number (header = 1) and Column a header name; both are optional.
type Finding struct {
	Severity Severity `json:"-"`
	Code     Code     `json:"code"`
	Message  string   `json:"message"`
	Row      *int     `json:"row"`
	Column   *string  `json:"column"`
}

// Error implements the error interface so a Finding can be returned or
// logged where an error is expected.
func (f Finding) Error() string {
	loc := ""
	if f.Row != nil {
		loc = fmt.Sprintf(" (row %d)", *f.Row)
	}
	if f.Column != nil {
		loc += fmt.Sprintf(" [%s]", *f.Column)
	}
	return fmt.Sprintf("%s %s%s: %s", f.Severity, f.Code, loc, f.Message)
}

// Errorf builds an error finding.
func Errorf(code Code, format string, args ...any) Finding {
	return Finding{Severity: SeverityError, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Warnf builds a warning finding.
func Warnf(code Code, format string, args ...any) Finding {
	return Finding{Severity: SeverityWarning, Code: code, Message: fmt.Sprintf(format, args...)}
}

// AtRow returns a copy of f located at row.
func (f Finding) AtRow(row int) Finding {
	f.Row = &row
	return f
}

// InColumn returns a copy of f located in column.
func (f Finding) InColumn(column string) Finding {
	f.Column = &column
	return f
}

// Split partitions findings by severity, preserving order. Both results are
// non-nil.
func Split(fs []Finding) (errs, warns []Finding) {
	errs, warns = []Finding{}, []Finding{}
	for _, f := range fs {
		if f.Severity == SeverityError {
			errs = append(errs, f)
		} else {
			warns = append(warns, f)
		}
	}
	return errs, warns
}

// HasErrors reports whether any finding is an error.
func HasErrors(fs []Finding) bool {
	for _, f := range fs {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}
