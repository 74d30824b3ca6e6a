package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyPhase      = "phase"
	KeyDurationMS = "duration_ms"
	KeyEndpoint   = "endpoint"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyStatus     = "status"
	KeyCount      = "count"
	KeyMethod     = "method"
	KeyRequestID  = "request_id"
	KeyRemoteAddr = "remote_addr"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr      { return slog.String(KeyBuildID, id) }
func Phase(name string) slog.Attr      { return slog.String(KeyPhase, name) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Endpoint(e string) slog.Attr      { return slog.String(KeyEndpoint, e) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func File(f string) slog.Attr          { return slog.String(KeyFile, f) }
func Status(code int) slog.Attr        { return slog.Int(KeyStatus, code) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func Method(m string) slog.Attr        { return slog.String(KeyMethod, m) }
func RequestID(id string) slog.Attr    { return slog.String(KeyRequestID, id) }
func RemoteAddr(addr string) slog.Attr { return slog.String(KeyRemoteAddr, addr) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
