package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fakeAdapter is a scriptable adapter for coordinator tests.
type fakeAdapter struct {
	name      string
	available bool
	text      string
	err       error
	calls     int
}

func (f *fakeAdapter) Name() string                     { return f.name }
func (f *fakeAdapter) Available(ctx context.Context) bool { return f.available }

func (f *fakeAdapter) Extract(ctx context.Context, path string) (*Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &Result{Text: f.text, Method: f.name, PageCount: 1}, nil
}

func writeTestPDF(t *testing.T, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "paper.pdf")
	if err := os.WriteFile(path, []byte(strings.Repeat("x", size)), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtract_NetworkedFirstWhenPreferred(t *testing.T) {
	grobid := &fakeAdapter{name: "grobid", available: true, text: strings.Repeat("g", 500)}
	lib := &fakeAdapter{name: "pdftext", available: true, text: strings.Repeat("l", 500)}
	c := NewCoordinator(grobid, []Adapter{lib}, Options{MinTextLen: 100})

	result, err := c.Extract(context.Background(), writeTestPDF(t, 10), true)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if result.Method != "grobid" {
		t.Errorf("Method = %q, want grobid", result.Method)
	}
	if lib.calls != 0 {
		t.Errorf("library adapter called %d times, want 0", lib.calls)
	}
}

func TestExtract_SkipsNetworkedWhenNotPreferred(t *testing.T) {
	grobid := &fakeAdapter{name: "grobid", available: true, text: strings.Repeat("g", 500)}
	lib := &fakeAdapter{name: "pdftext", available: true, text: strings.Repeat("l", 500)}
	c := NewCoordinator(grobid, []Adapter{lib}, Options{MinTextLen: 100})

	result, err := c.Extract(context.Background(), writeTestPDF(t, 10), false)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if result.Method != "pdftext" {
		t.Errorf("Method = %q, want pdftext", result.Method)
	}
	if grobid.calls != 0 {
		t.Errorf("grobid called %d times, want 0", grobid.calls)
	}
}

func TestExtract_LargeFileForcesNetworked(t *testing.T) {
	grobid := &fakeAdapter{name: "grobid", available: true, text: strings.Repeat("g", 500)}
	lib := &fakeAdapter{name: "pdftext", available: true, text: strings.Repeat("l", 500)}
	c := NewCoordinator(grobid, []Adapter{lib}, Options{MinTextLen: 100, LargeFileBytes: 50})

	result, err := c.Extract(context.Background(), writeTestPDF(t, 200), false)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if result.Method != "grobid" {
		t.Errorf("Method = %q, want grobid for large file", result.Method)
	}
}

func TestExtract_FallsBackWhenUnreachable(t *testing.T) {
	grobid := &fakeAdapter{name: "grobid", available: false}
	lib := &fakeAdapter{name: "pdftext", available: true, text: strings.Repeat("l", 500)}
	c := NewCoordinator(grobid, []Adapter{lib}, Options{MinTextLen: 100})

	result, err := c.Extract(context.Background(), writeTestPDF(t, 10), true)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if result.Method != "pdftext" {
		t.Errorf("Method = %q, want pdftext", result.Method)
	}
	if grobid.calls != 0 {
		t.Errorf("unreachable grobid was still called %d times", grobid.calls)
	}
}

func TestExtract_FallsBackOnShortText(t *testing.T) {
	first := &fakeAdapter{name: "pdftext", available: true, text: "too short"}
	second := &fakeAdapter{name: "pdfrows", available: true, text: strings.Repeat("r", 500)}
	c := NewCoordinator(nil, []Adapter{first, second}, Options{MinTextLen: 100})

	result, err := c.Extract(context.Background(), writeTestPDF(t, 10), false)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if result.Method != "pdfrows" {
		t.Errorf("Method = %q, want pdfrows", result.Method)
	}
}

func TestExtract_AllFail(t *testing.T) {
	grobid := &fakeAdapter{name: "grobid", available: false}
	first := &fakeAdapter{name: "pdftext", available: true, err: fmt.Errorf("encrypted file")}
	second := &fakeAdapter{name: "pdfrows", available: true, text: "tiny"}
	c := NewCoordinator(grobid, []Adapter{first, second}, Options{MinTextLen: 100})

	_, err := c.Extract(context.Background(), writeTestPDF(t, 10), true)
	var failure *FailureError
	if !errors.As(err, &failure) {
		t.Fatalf("Extract() error = %v, want *FailureError", err)
	}

	if len(failure.Attempts) != 3 {
		t.Fatalf("attempts = %d, want 3", len(failure.Attempts))
	}
	wantAdapters := []string{"grobid", "pdftext", "pdfrows"}
	for i, want := range wantAdapters {
		if failure.Attempts[i].Adapter != want {
			t.Errorf("attempt[%d].Adapter = %q, want %q", i, failure.Attempts[i].Adapter, want)
		}
	}
	if failure.Attempts[0].Reason != "service unreachable" {
		t.Errorf("grobid reason = %q, want service unreachable", failure.Attempts[0].Reason)
	}
	if !strings.Contains(failure.LastReason(), "text too short") {
		t.Errorf("LastReason() = %q, want text-too-short reason", failure.LastReason())
	}
	if !strings.Contains(err.Error(), "encrypted file") {
		t.Errorf("error message %q missing per-adapter reason", err.Error())
	}
}

func TestExtract_MissingFile(t *testing.T) {
	c := NewCoordinator(nil, []Adapter{&fakeAdapter{name: "pdftext"}}, Options{})

	_, err := c.Extract(context.Background(), "/does/not/exist.pdf", false)
	if err == nil {
		t.Fatal("Extract() on missing file succeeded")
	}
	var failure *FailureError
	if errors.As(err, &failure) {
		t.Error("missing file reported as extraction failure, want plain error")
	}
}
