package snapshot

import (
	"context"
	"errors"
	"testing"
)

type fakeStore struct{ closed bool }

func (f *fakeStore) Columns(context.Context, string) ([]string, error) { return nil, nil }
func (f *fakeStore) Save(context.Context, string, []string) error      { return nil }
func (f *fakeStore) Delete(context.Context, string) error              { return nil }
func (f *fakeStore) Close() error                                      { f.closed = true; return nil }

func TestRegisterAndOpen(t *testing.T) {
	t.Parallel()

	var got Config
	Register("fake", func(ctx context.Context, cfg Config) (Store, error) {
		got = cfg
		return &fakeStore{}, nil
	})

	s, err := Open(context.Background(), Config{Kind: "fake", Table: "t"})
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if s == nil {
		t.Fatal("Open returned nil store")
	}
	if got.Table != "t" {
		t.Fatalf("factory saw Table=%q; want t", got.Table)
	}

	found := false
	for _, k := range ListKinds() {
		if k == "fake" {
			found = true
		}
	}
	if !found {
		t.Fatalf("registered kind missing from ListKinds: %v", ListKinds())
	}
}

func TestOpen_UnknownKind(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), Config{Kind: "does-not-exist"})
	if !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("err=%v; want ErrUnknownKind", err)
	}
}

func TestOpen_FactoryError(t *testing.T) {
	t.Parallel()

	want := errors.New("boom")
	Register("errkind", func(ctx context.Context, cfg Config) (Store, error) { return nil, want })

	_, err := Open(context.Background(), Config{Kind: "errkind"})
	if !errors.Is(err, want) {
		t.Fatalf("err=%v; want %v", err, want)
	}
}

func TestListKinds_Copy(t *testing.T) {
	t.Parallel()

	Register("copy", func(ctx context.Context, cfg Config) (Store, error) { return &fakeStore{}, nil })
	a := ListKinds()
	a[0] = "mutated"
	for _, k := range ListKinds() {
		if k == "mutated" {
			t.Fatal("ListKinds returned the registry's backing slice")
		}
	}
}

func TestCheckName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{name: "plain", in: "HighRiskUsers"},
		{name: "spaces inside", in: "High Risk Users"},
		{name: "unicode", in: "Überwachung"},
		{name: "empty", in: "", wantErr: true},
		{name: "padded", in: " users", wantErr: true},
		{name: "slash", in: "a/b", wantErr: true},
		{name: "backslash", in: `a\b`, wantErr: true},
		{name: "dotdot", in: "..", wantErr: true},
		{name: "control", in: "a\tb", wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := CheckName(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckName(%q) err=%v; wantErr=%v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidName) {
				t.Fatalf("err=%v; want ErrInvalidName", err)
			}
		})
	}
}
