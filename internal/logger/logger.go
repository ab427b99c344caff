package logger

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Format selects the zerolog writer.
type Format string

const (
	FormatJSON    Format = "json"
	FormatConsole Format = "console"
)

// ParseFormat defaults to JSON for anything it does not recognise.
func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), "console") {
		return FormatConsole
	}
	return FormatJSON
}

type Config struct {
	Level  string
	Format Format
	Output io.Writer
}

// Logger wraps zerolog.Logger so call sites can pass plain field maps.
type Logger struct {
	zerolog.Logger
}

type Fields map[string]any

var (
	global *Logger
	mu     sync.RWMutex
)

// Setup replaces the process-wide logger.
func Setup(cfg Config) *Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	var zl zerolog.Logger
	if cfg.Format == FormatConsole {
		zl = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339})
	} else {
		zl = zerolog.New(out)
	}
	l := &Logger{Logger: zl.Level(level).With().Timestamp().Logger()}

	mu.Lock()
	global = l
	mu.Unlock()
	return l
}

// Get returns the process-wide logger, creating a JSON/info one on first use.
func Get() *Logger {
	mu.RLock()
	l := global
	mu.RUnlock()
	if l != nil {
		return l
	}
	return Setup(Config{Level: "info", Format: FormatJSON})
}

// Nop discards everything; handy in tests.
func Nop() *Logger {
	return &Logger{Logger: zerolog.Nop()}
}

func (l *Logger) With(fields Fields) *Logger {
	if l == nil {
		return Get()
	}
	if len(fields) == 0 {
		return l
	}
	return &Logger{Logger: l.Logger.With().Fields(map[string]any(fields)).Logger()}
}

func (l *Logger) Debug(msg string, fields ...Fields) { l.emit(l.Logger.Debug(), msg, fields) }
func (l *Logger) Info(msg string, fields ...Fields)  { l.emit(l.Logger.Info(), msg, fields) }
func (l *Logger) Warn(msg string, fields ...Fields)  { l.emit(l.Logger.Warn(), msg, fields) }

// Error logs msg with err attached under the "error" key.
func (l *Logger) Error(msg string, err error, fields ...Fields) {
	if l == nil {
		return
	}
	l.emit(l.Logger.Error().Err(err), msg, fields)
}

func (l *Logger) emit(ev *zerolog.Event, msg string, fields []Fields) {
	if l == nil || ev == nil {
		return
	}
	for _, f := range fields {
		if len(f) > 0 {
			ev = ev.Fields(map[string]any(f))
		}
	}
	ev.Msg(msg)
}

type ctxKey struct{}

func NewContext(ctx context.Context, l *Logger) context.Context {
	if l == nil {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext falls back to the global logger.
func FromContext(ctx context.Context) *Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
			return l
		}
	}
	return Get()
}

// HTTPMiddleware writes one access-log line per request. requestID extracts the
// id set by an upstream middleware and may be nil.
func HTTPMiddleware(requestID func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			l := Get()
			rid := ""
			if requestID != nil {
				rid = requestID(r)
			}
			if rid != "" {
				l = l.With(Fields{"request_id": rid})
			}
			r = r.WithContext(NewContext(r.Context(), l))

			next.ServeHTTP(rw, r)

			l.Info("http request", Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   rw.status,
				"duration": time.Since(start).String(),
				"ip":       r.RemoteAddr,
			})
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
