package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyStage      = "stage"
	KeyTarget     = "target"
	KeyPath       = "path"
	KeyEngine     = "engine"
	KeyBytes      = "bytes"
	KeyDurationMS = "duration_ms"
	KeyOutcome    = "outcome"
	KeyError      = "error"
	KeyHash       = "hash"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func Target(name string) slog.Attr    { return slog.String(KeyTarget, name) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Engine(name string) slog.Attr    { return slog.String(KeyEngine, name) }
func Bytes(n int) slog.Attr           { return slog.Int(KeyBytes, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Outcome(o string) slog.Attr      { return slog.String(KeyOutcome, o) }
func Hash(h string) slog.Attr         { return slog.String(KeyHash, h) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
