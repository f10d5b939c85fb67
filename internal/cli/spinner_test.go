package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func quietSpinner(ctx context.Context, msg string) (*Spinner, *bytes.Buffer) {
	var buf bytes.Buffer
	s := newSpinnerWithContext(ctx, msg)
	s.w = &buf
	return s, &buf
}

func TestSpinnerStopIsNotCancel(t *testing.T) {
	s, _ := quietSpinner(context.Background(), "Classifying...")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	if s.Cancelled() {
		t.Error("Stop should not report cancellation")
	}
}

func TestSpinnerParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s, _ := quietSpinner(ctx, "Loading datasets...")
	s.Start()
	cancel()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("spinner should be cancelled after context cancellation")
	}
}

func TestSpinnerTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	s, _ := quietSpinner(ctx, "Fetching...")
	s.Start()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("spinner should be cancelled after context timeout")
	}
}

func TestSpinnerUpdate(t *testing.T) {
	s, buf := quietSpinner(context.Background(), "Loading datasets...")
	s.Start()
	time.Sleep(120 * time.Millisecond)
	s.Update("Rendering legend...")
	time.Sleep(120 * time.Millisecond)
	s.Stop()

	out := buf.String()
	for _, want := range []string{"Loading datasets...", "Rendering legend..."} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s, _ := quietSpinner(context.Background(), "Testing idempotent stop...")
	s.Start()
	s.Stop()
	s.Stop()
}
