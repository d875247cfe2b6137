package report

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"

	"wlcheck/internal/schema"
)

//go:embed report.schema.json
var reportSchema []byte

// Render writes r as indented JSON followed by a newline.
func Render(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

// CheckJSON validates a rendered report against the published report schema.
func CheckJSON(b []byte) error {
	return schema.Check(reportSchema, b)
}
