// Package csv turns raw delimited-file bytes into physical lines and cells.
//
// Unlike encoding/csv it never rejects or repairs a line: unclosed quotes,
// doubled delimiters and ragged rows are reported on the Record so callers can
// turn them into findings that point at the original line number.
package csv
