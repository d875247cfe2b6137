package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()
	cases := map[string]zapcore.Level{
		"debug":   zap.DebugLevel,
		"INFO":    zap.InfoLevel,
		" warn ":  zap.WarnLevel,
		"warning": zap.WarnLevel,
		"error":   zap.ErrorLevel,
		"verbose": zap.InfoLevel,
		"":        zap.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q)=%v; want %v", in, got, want)
		}
	}
}

func TestNew(t *testing.T) {
	t.Parallel()
	for _, format := range []string{"json", "console"} {
		l, err := New("warn", format)
		if err != nil {
			t.Fatalf("New(%q): %v", format, err)
		}
		if l.Core().Enabled(zap.InfoLevel) {
			t.Fatalf("%s logger has info enabled at warn level", format)
		}
		if !l.Core().Enabled(zap.ErrorLevel) {
			t.Fatalf("%s logger has error disabled", format)
		}
	}
}
