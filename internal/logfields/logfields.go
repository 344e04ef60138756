package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyPipeline    = "pipeline"
	KeyContentType = "content_type"
	KeySlug        = "slug"
	KeyField       = "field"
	KeyScope       = "scope"
	KeyIterator    = "iterator"
	KeyPath        = "path"
	KeyCount       = "count"
	KeyRunID       = "run_id"
	KeyDurationMS  = "duration_ms"
	KeyError       = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Pipeline(id string) slog.Attr    { return slog.String(KeyPipeline, id) }
func ContentType(id string) slog.Attr { return slog.String(KeyContentType, id) }
func Slug(s string) slog.Attr         { return slog.String(KeySlug, s) }
func Field(name string) slog.Attr     { return slog.String(KeyField, name) }
func Scope(name string) slog.Attr     { return slog.String(KeyScope, name) }
func Iterator(id string) slog.Attr    { return slog.String(KeyIterator, id) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
