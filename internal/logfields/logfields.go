package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyProject    = "project"
	KeyBranch     = "branch"
	KeyVariant    = "variant"
	KeySource     = "source"
	KeyPath       = "path"
	KeyDir        = "dir"
	KeyVariable   = "variable"
	KeyValue      = "value"
	KeyURL        = "url"
	KeyRunID      = "run_id"
	KeyAttempt    = "attempt"
	KeyOperation  = "operation"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Project(name string) slog.Attr   { return slog.String(KeyProject, name) }
func Branch(b string) slog.Attr       { return slog.String(KeyBranch, b) }
func Variant(v string) slog.Attr      { return slog.String(KeyVariant, v) }
func Source(s string) slog.Attr       { return slog.String(KeySource, s) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Dir(d string) slog.Attr          { return slog.String(KeyDir, d) }
func Variable(v string) slog.Attr     { return slog.String(KeyVariable, v) }
func Value(v string) slog.Attr        { return slog.String(KeyValue, v) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Attempt(n int) slog.Attr         { return slog.Int(KeyAttempt, n) }
func Operation(op string) slog.Attr   { return slog.String(KeyOperation, op) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
