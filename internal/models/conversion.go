package models

import "time"

// Conversion attempt outcomes.
const (
	ConversionConverted = "converted"
	ConversionFailed    = "failed"
	ConversionSkipped   = "skipped" // kernel unavailable, upload kept as-is
)

// ConversionRecord is the manifest sidecar written for every conversion
// attempt against an uploaded source. The catalog never reads it; the
// filesystem stays the system of record and records are purely additive.
type ConversionRecord struct {
	JobID       string    `json:"jobId" msgpack:"job_id"`
	Filename    string    `json:"filename" msgpack:"filename"`
	STLFile     string    `json:"stlFile,omitempty" msgpack:"stl_file"`
	Status      string    `json:"status" msgpack:"status"`
	Error       string    `json:"error,omitempty" msgpack:"error"`
	StartedAt   time.Time `json:"startedAt" msgpack:"started_at"`
	CompletedAt time.Time `json:"completedAt" msgpack:"completed_at"`
	DurationMS  int64     `json:"durationMs" msgpack:"duration_ms"`
}
