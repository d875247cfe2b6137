// Package inference classifies cell values into semantic types and builds a
// per-column profile with a dominant type and a consistency score.
package inference

import (
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// SemanticType is the closed set of value classes a cell can fall into.
type SemanticType string

const (
	Email     SemanticType = "Email"
	GUID      SemanticType = "GUID"
	IPAddress SemanticType = "IPAddress"
	URL       SemanticType = "URL"
	Boolean   SemanticType = "Boolean"
	DateTime  SemanticType = "DateTime"
	Decimal   SemanticType = "Decimal"
	Number    SemanticType = "Number"
	String    SemanticType = "String"
)

// Order is the classification order. It also breaks ties between types
// with equal counts: the earlier type wins.
var Order = []SemanticType{Email, GUID, IPAddress, URL, Boolean, DateTime, Decimal, Number, String}

func rank(t SemanticType) int {
	for i, o := range Order {
		if o == t {
			return i
		}
	}
	return len(Order)
}

// DefaultDateLayouts are the accepted DateTime formats: ISO 8601 with and
// without time, then the common US, European and textual date forms.
// Compact forms such as 20060102 are excluded so that numeric IDs are not
// mistaken for dates.
var DefaultDateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
	time.RFC3339Nano,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01/02/2006 15:04",
	"1/2/2006 3:04 PM",
	"1/2/2006 15:04:05",
	"02.01.2006",
	"2.1.2006",
	"02.01.2006 15:04",
	"02-01-2006",
	"2 Jan 2006",
	"02-Jan-2006",
	"Jan 2, 2006",
}

// Classifier assigns a SemanticType to single values. It is safe for
// concurrent use.
type Classifier struct {
	layouts  []string
	validate *validator.Validate
}

// NewClassifier returns a Classifier that accepts the given date layouts, or
// DefaultDateLayouts when none are given.
func NewClassifier(layouts []string) *Classifier {
	if len(layouts) == 0 {
		layouts = DefaultDateLayouts
	}
	return &Classifier{
		layouts:  append([]string(nil), layouts...),
		validate: validator.New(),
	}
}

// Classify returns the first type in Order that v matches. v is trimmed
// first; the empty string is String. A bare 0 or 1 is Boolean here; the
// column context can turn it into a Number (see Profile).
func (c *Classifier) Classify(v string) SemanticType {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		return String
	case c.isEmail(v):
		return Email
	case isGUID(v):
		return GUID
	case isIPv4(v):
		return IPAddress
	case isURL(v):
		return URL
	case isBool(v):
		return Boolean
	case c.isDateTime(v):
		return DateTime
	case isDecimal(v):
		return Decimal
	case isNumber(v):
		return Number
	default:
		return String
	}
}

func (c *Classifier) isEmail(s string) bool {
	if strings.IndexByte(s, '@') <= 0 || strings.ContainsAny(s, " \t") {
		return false
	}
	return c.validate.Var(s, "email") == nil
}

func isGUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

func isIPv4(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return false
	}
	for _, p := range parts {
		if len(p) == 0 || len(p) > 3 {
			return false
		}
		n := 0
		for _, r := range p {
			if r < '0' || r > '9' {
				return false
			}
			n = n*10 + int(r-'0')
		}
		if n > 255 {
			return false
		}
	}
	return true
}

func isURL(s string) bool {
	l := strings.ToLower(s)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

func isBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "false", "1", "0":
		return true
	default:
		return false
	}
}

// isBinary reports whether s is one of the numeric boolean spellings.
func isBinary(s string) bool { return s == "0" || s == "1" }

func (c *Classifier) isDateTime(s string) bool {
	if !strings.ContainsAny(s, "0123456789") {
		return false
	}
	for _, layout := range c.layouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

func isDecimal(s string) bool {
	if !strings.Contains(s, ".") {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789+-.eE", r) {
			return false
		}
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func isNumber(s string) bool {
	if s[0] == '+' || s[0] == '-' {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
