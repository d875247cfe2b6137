package csv

import (
	"testing"
)

func TestLines(t *testing.T) {
	t.Parallel()
	got := Lines("h1,h2\r\na,b\n\nc,d\n\n  \n")
	if len(got) != 4 {
		t.Fatalf("len=%d; want 4 (%+v)", len(got), got)
	}
	if got[0].Text != "h1,h2" || got[0].Number != 1 {
		t.Fatalf("line 1 = %+v", got[0])
	}
	if !got[2].Blank() || got[2].Number != 3 {
		t.Fatalf("interior blank line = %+v", got[2])
	}
	if got[3].Text != "c,d" || got[3].Number != 4 {
		t.Fatalf("line 4 = %+v", got[3])
	}
}

func TestLines_Empty(t *testing.T) {
	t.Parallel()
	if got := Lines(""); len(got) != 0 {
		t.Fatalf("Lines(\"\") len=%d; want 0", len(got))
	}
	if got := Lines("\n \n"); len(got) != 0 {
		t.Fatalf("whitespace-only input len=%d; want 0", len(got))
	}
}

func TestDecode(t *testing.T) {
	t.Parallel()

	t.Run("UTF8BOM", func(t *testing.T) {
		got, err := Decode([]byte("\xEF\xBB\xBFa,b"))
		if err != nil || got != "a,b" {
			t.Fatalf("Decode=%q, %v; want \"a,b\"", got, err)
		}
	})

	t.Run("UTF16LE", func(t *testing.T) {
		// "a,b" in UTF-16LE with BOM.
		in := []byte{0xFF, 0xFE, 'a', 0, ',', 0, 'b', 0}
		got, err := Decode(in)
		if err != nil || got != "a,b" {
			t.Fatalf("Decode=%q, %v; want \"a,b\"", got, err)
		}
	})

	t.Run("UTF16BE", func(t *testing.T) {
		in := []byte{0xFE, 0xFF, 0, 'x', 0, ';', 0, 'y'}
		got, err := Decode(in)
		if err != nil || got != "x;y" {
			t.Fatalf("Decode=%q, %v; want \"x;y\"", got, err)
		}
	})

	t.Run("Plain", func(t *testing.T) {
		got, err := Decode([]byte("plain"))
		if err != nil || got != "plain" {
			t.Fatalf("Decode=%q, %v", got, err)
		}
	})
}

// TestStripHeaderBOM verifies BOM removal from the first header cell.
func TestStripHeaderBOM(t *testing.T) {
	t.Parallel()
	got := StripHeaderBOM([]string{"\uFEFFname", "age"})
	if got[0] != "name" {
		t.Fatalf("BOM not removed: %q", got[0])
	}
}
