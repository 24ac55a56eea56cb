package observ

import (
	"fmt"
	"strings"
	"time"
)

// phase is one timed stage of a run: load, cache, validate on the check side,
// check, apply, recheck on the fix side.
type phase struct {
	name  string
	start time.Time
	dur   time.Duration
	note  string
}

// Timer collects named phase durations for --timings output. Индекс из Begin
// отдаётся в End, чтобы вложенные и перекрывающиеся фазы не путались.
type Timer struct {
	phases []phase
}

// NewTimer returns a Timer with no phases recorded.
func NewTimer() *Timer { return &Timer{} }

// Begin opens a phase and returns its slot for End.
func (t *Timer) Begin(name string) int {
	idx := len(t.phases)
	t.phases = append(t.phases, phase{name: name, start: time.Now()})
	return idx
}

// End finishes a phase by its index. Out-of-range indexes are ignored, so a
// caller that never started a phase can pass -1.
func (t *Timer) End(idx int, note string) {
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	t.phases[idx].dur = time.Since(t.phases[idx].start)
	t.phases[idx].note = note
}

// Summary returns a human-readable rendering of all tracked phases.
func (t *Timer) Summary() string {
	report := t.Report()
	var out strings.Builder
	out.WriteString("timings:\n")
	for _, p := range report.Phases {
		fmt.Fprintf(&out, "  %-16s %8.2f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			out.WriteString("  (" + p.Note + ")")
		}
		out.WriteString("\n")
	}
	fmt.Fprintf(&out, "  %-16s %8.2f ms\n", "total", report.TotalMS)
	return out.String()
}

// PhaseReport несёт сжатую информацию об одной фазе для сериализации.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report хранит агрегированные данные таймера.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report renders every phase in milliseconds. A phase that was never ended
// contributes zero, not time-since-start.
func (t *Timer) Report() Report {
	if len(t.phases) == 0 {
		return Report{}
	}
	phases := make([]PhaseReport, len(t.phases))
	var total time.Duration
	for i, p := range t.phases {
		total += p.dur
		phases[i] = PhaseReport{Name: p.name, DurationMS: millis(p.dur), Note: p.note}
	}
	return Report{TotalMS: millis(total), Phases: phases}
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
