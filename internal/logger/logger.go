package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Field keys shared by every component that logs about a screening run.
const (
	FieldCandidate   = "candidate"
	FieldScreeningID = "screening_id"
)

// New builds the process logger on stderr.
func New(json bool, debug bool) (*zap.Logger, error) {
	return NewTo(zapcore.Lock(os.Stderr), json, debug), nil
}

// NewTo builds a logger writing to w. Console encoding is used unless json is
// set; debug lowers the level and adds caller information.
func NewTo(w zapcore.WriteSyncer, json bool, debug bool) *zap.Logger {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.RFC3339TimeEncoder
	encCfg.EncodeDuration = zapcore.StringDurationEncoder

	var enc zapcore.Encoder
	if json {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	opts := []zap.Option{zap.ErrorOutput(w)}
	if debug {
		opts = append(opts, zap.AddCaller())
	}

	return zap.New(zapcore.NewCore(enc, w, level), opts...)
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

func Candidate(name string) zap.Field {
	return zap.String(FieldCandidate, name)
}

func ScreeningID(id string) zap.Field {
	return zap.String(FieldScreeningID, id)
}

// TruncateForLog shortens s to limit runes for a log preview, marking the cut with "...".
func TruncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
