package driver

import (
	"encoding/json"
	"fmt"

	"headerlint/internal/diag"
	"headerlint/internal/observ"
	"headerlint/internal/source"
)

// timingPayload is the machine-readable note carried by an ObsTimings
// diagnostic. JSON-вывод печатает его всегда, даже без --show-notes.
type timingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// appendTimingDiagnostic reports a timing breakdown as an INFO entry so it
// travels with the rest of the diagnostics through every output format.
func appendTimingDiagnostic(bag *diag.Bag, payload timingPayload) {
	if bag == nil {
		return
	}
	if payload.Kind == "" {
		payload.Kind = "check"
	}
	note, err := json.Marshal(payload)
	if err != nil {
		return
	}

	msg := fmt.Sprintf("%s timings: total %.2f ms", payload.Kind, payload.TotalMS)
	if payload.Path != "" {
		msg += " in " + payload.Path
	}
	entry := diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, msg).
		WithNote(source.Span{}, string(note))

	if !bag.Add(entry) {
		// Таймингам есть место даже в переполненном bag: пересобираем с запасом.
		spare := diag.NewBag(len(bag.Items()) + 1)
		spare.Add(entry)
		bag.Merge(spare)
	}
}
