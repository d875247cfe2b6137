package csv

// Record is a physical line split into cells.
type Record struct {
	// Fields hold cell text with surrounding quotes removed and doubled
	// quotes collapsed. Whitespace is preserved.
	Fields []string

	// UnclosedQuote is set when a quote opened on the line is never closed.
	UnclosedQuote bool

	// AdjacentDelims is set when two delimiters touch outside of quotes or
	// are separated only by spaces and tabs. `a,"",b` does not set it; `a,,b`
	// and `a, ,b` do.
	AdjacentDelims bool
}

// Split cuts line on delim, honoring double quotes. A quote toggles quoted
// mode wherever it appears; inside quoted mode a doubled quote is a literal
// quote character. When delim is None the whole line is one field.
func Split(line string, delim rune) Record {
	var (
		rec       Record
		field     []rune
		inQuotes  bool
		prevDelim bool
	)
	rs := []rune(line)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		switch {
		case r == '"':
			if inQuotes && i+1 < len(rs) && rs[i+1] == '"' {
				field = append(field, '"')
				i++
			} else {
				inQuotes = !inQuotes
			}
			prevDelim = false
		case delim != None && r == delim && !inQuotes:
			if prevDelim {
				rec.AdjacentDelims = true
			}
			rec.Fields = append(rec.Fields, string(field))
			field = field[:0]
			prevDelim = true
		default:
			field = append(field, r)
			if r != ' ' && r != '\t' {
				prevDelim = false
			}
		}
	}
	rec.Fields = append(rec.Fields, string(field))
	rec.UnclosedQuote = inQuotes
	return rec
}

// FitRowToWidth truncates or pads a record to exactly n fields. Missing
// fields are left as empty strings.
func FitRowToWidth(row []string, n int) []string {
	if len(row) == n {
		return row
	}
	cp := make([]string, n)
	copy(cp, row)
	return cp
}
