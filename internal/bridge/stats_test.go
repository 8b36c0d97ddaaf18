// internal/bridge/stats_test.go
package bridge

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/tamzrod/modbus-bridge/internal/numfmt"
)

func TestFrameLoss_ZeroReceived(t *testing.T) {
	var s Snapshot
	if got := s.FrameLossPercent(); got != 0 {
		t.Fatalf("FrameLossPercent() = %v, want 0", got)
	}

	s = Snapshot{Errors: 5}
	if got := s.FrameLossPercent(); got != 0 {
		t.Fatalf("FrameLossPercent() with zero received = %v, want 0", got)
	}
}

func TestFrameLoss_Computation(t *testing.T) {
	s := Snapshot{Received: 4, Errors: 1}
	if got := s.FrameLossPercent(); got != 25 {
		t.Fatalf("FrameLossPercent() = %v, want 25", got)
	}
}

func TestReportOutcome_SuccessVerbose(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRecorder(&out, &errOut, true, numfmt.LittleEndian)

	r.ReportOutcome("forward read", 6, 6, nil)

	if got := out.String(); got != "forward read 6 references.\n" {
		t.Fatalf("stdout = %q", got)
	}
	if errOut.Len() != 0 {
		t.Fatalf("unexpected stderr output: %q", errOut.String())
	}
	if r.Errors() != 0 {
		t.Fatalf("errors = %d, want 0", r.Errors())
	}
}

func TestReportOutcome_SuccessQuiet(t *testing.T) {
	var out bytes.Buffer
	r := NewRecorder(&out, io.Discard, false, numfmt.LittleEndian)

	r.ReportOutcome("forward read", 6, 6, nil)

	if out.Len() != 0 {
		t.Fatalf("success line printed without verbose: %q", out.String())
	}
}

func TestReportOutcome_Mismatch(t *testing.T) {
	var errOut bytes.Buffer
	r := NewRecorder(io.Discard, &errOut, false, numfmt.LittleEndian)

	r.ReportOutcome("forward read", 4, 6, nil)

	if r.Errors() != 1 {
		t.Fatalf("errors = %d, want 1", r.Errors())
	}
	line := errOut.String()
	if !strings.Contains(line, "forward read 6 values failed") ||
		!strings.Contains(line, "returned 4") {
		t.Fatalf("failure line = %q", line)
	}
}

func TestReportOutcome_TransportError(t *testing.T) {
	var errOut bytes.Buffer
	r := NewRecorder(io.Discard, &errOut, false, numfmt.LittleEndian)

	r.ReportOutcome("return write", 0, 4, errors.New("connection reset by peer"))

	if r.Errors() != 1 {
		t.Fatalf("errors = %d, want 1", r.Errors())
	}
	if !strings.Contains(errOut.String(), "connection reset by peer") {
		t.Fatalf("failure line missing transport error: %q", errOut.String())
	}
}

func TestReportOutcome_NoInterleaving(t *testing.T) {
	var out bytes.Buffer
	r := NewRecorder(&out, io.Discard, true, numfmt.LittleEndian)

	const perWorker = 200
	var wg sync.WaitGroup
	for _, label := range []string{"forward read", "return read"} {
		wg.Add(1)
		go func(label string) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				r.ReportOutcome(label, 6, 6, nil)
			}
		}(label)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 2*perWorker {
		t.Fatalf("got %d lines, want %d", len(lines), 2*perWorker)
	}
	for _, line := range lines {
		if line != "forward read 6 references." && line != "return read 6 references." {
			t.Fatalf("interleaved or corrupt line: %q", line)
		}
	}
}

func TestReportValues(t *testing.T) {
	var out bytes.Buffer
	r := NewRecorder(&out, io.Discard, true, numfmt.BigEndian)

	r.ReportValues("forward", []uint16{0x0001, 0x0000})

	if got := out.String(); got != "forward values: [65536]\n" {
		t.Fatalf("values line = %q", got)
	}
}

func TestWriteSummary(t *testing.T) {
	var out bytes.Buffer
	r := NewRecorder(&out, io.Discard, false, numfmt.LittleEndian)

	r.AddReceived()
	r.AddReceived()
	r.AddTransmitted()
	r.ReportOutcome("forward read", 4, 6, nil)

	r.WriteSummary("localhost:502")

	got := out.String()
	if !strings.Contains(got, "--- localhost:502 bridge statistics ---") {
		t.Fatalf("summary header missing: %q", got)
	}
	if !strings.Contains(got, "1 frames written, 2 read, 1 errors, 50.0% frame loss") {
		t.Fatalf("summary body = %q", got)
	}
}
