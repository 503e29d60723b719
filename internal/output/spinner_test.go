package output

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestSpinnerStartStop(t *testing.T) {
	var buf bytes.Buffer
	sp := NewSpinner(&buf)
	sp.Start("Analyzing...")
	time.Sleep(200 * time.Millisecond)
	sp.Stop()

	out := buf.String()
	if !strings.Contains(out, "Analyzing...") {
		t.Errorf("expected spinner output to contain message, got %q", out)
	}
}

func TestSpinnerStopIdempotent(t *testing.T) {
	var buf bytes.Buffer
	sp := NewSpinner(&buf)
	sp.Start("test")
	time.Sleep(100 * time.Millisecond)

	// Calling Stop multiple times should not panic
	sp.Stop()
	sp.Stop()
	sp.Stop()
}

func TestSpinnerUpdate(t *testing.T) {
	var buf bytes.Buffer
	sp := NewSpinner(&buf)
	sp.Start("1/3 src/a.ts")
	time.Sleep(150 * time.Millisecond)
	sp.Update("2/3 src/b.ts")
	time.Sleep(150 * time.Millisecond)
	sp.Stop()

	out := buf.String()
	if !strings.Contains(out, "1/3 src/a.ts") {
		t.Errorf("expected output to contain first progress message, got %q", out)
	}
	if !strings.Contains(out, "2/3 src/b.ts") {
		t.Errorf("expected output to contain updated message, got %q", out)
	}
}

func TestSpinnerConcurrentUpdate(t *testing.T) {
	// Scan workers report progress concurrently; Update must tolerate that.
	var buf bytes.Buffer
	sp := NewSpinner(&buf)
	sp.Start("start")

	var wg sync.WaitGroup
	for n := 0; n < 10; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sp.Update("msg")
		}()
	}
	wg.Wait()
	sp.Stop()
}

func TestSpinnerClearsLine(t *testing.T) {
	var buf bytes.Buffer
	sp := NewSpinner(&buf)
	sp.Start("working")
	time.Sleep(100 * time.Millisecond)
	sp.Stop()

	out := buf.String()
	// After Stop, the last write should be a \r followed by spaces (clearing)
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("expected spinner to clear line with \\r at end")
	}
}
