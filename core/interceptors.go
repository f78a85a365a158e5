package core

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvLogLevel selects request logging: "info" logs one line per exchange,
// "debug" adds (redacted) parameters and the decoded response.
const EnvLogLevel = "MEDIACLOUD_LOG"

const redacted = "[REDACTED]"

// redactedParams never reach the log output.
var redactedParams = map[string]struct{}{
	ParamSignature: empty,
	ParamAPIKey:    empty,
	"api_secret":   empty,
}

var (
	loggerMu sync.RWMutex
	logger   = newEnvLogger(os.Getenv(EnvLogLevel))
)

func newEnvLogger(level string) *zap.Logger {
	var lvl zapcore.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = zapcore.DebugLevel
	case "info":
		lvl = zapcore.InfoLevel
	default:
		return zap.NewNop()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l.Named("mediacloud")
}

// SetLogger replaces the package logger. A nil logger disables logging.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	loggerMu.Lock()
	logger = l
	loggerMu.Unlock()
}

// Logger returns the package logger.
func Logger() *zap.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// ######################################################
//
//	REQUEST/RESPONSE INTERCEPTORS
//
// ######################################################

// doBeforeRequest logs the outgoing request and runs the user callback.
func (s *Session) doBeforeRequest(ctx context.Context, r *http.Request, verb, url string, body io.Reader, params Params) error {
	beforeRequestLog(r, verb, url, params)
	if s.config.BeforeRequestFn != nil {
		return s.config.BeforeRequestFn(ctx, r, verb, url, body)
	}
	return nil
}

// doAfterRequest logs the decoded response and runs the user callback.
func (s *Session) doAfterRequest(ctx context.Context, statusCode int, response Record) (Record, error) {
	afterRequestLog(statusCode, response)
	if s.config.AfterRequestFn != nil {
		return s.config.AfterRequestFn(ctx, response)
	}
	return response, nil
}

// ######################################################
//
//	REQUEST/RESPONSE LOGGING
//
// ######################################################

// RedactParams returns a copy of params safe for logging: credentials are
// masked and file payloads are replaced by their name and size.
func RedactParams(params Params) map[string]any {
	out := make(map[string]any, len(params))
	for k, v := range params {
		if _, ok := redactedParams[k]; ok {
			out[k] = redacted
			continue
		}
		if f, ok := v.(FileData); ok {
			out[k] = f.String()
			continue
		}
		out[k] = v
	}
	return out
}

// redactURL masks credentials that travel in the query string.
func redactURL(url string) string {
	base, query, found := strings.Cut(url, "?")
	if !found {
		return url
	}
	pairs := strings.Split(query, "&")
	for i, pair := range pairs {
		key, _, _ := strings.Cut(pair, "=")
		if _, ok := redactedParams[key]; ok {
			pairs[i] = key + "=" + redacted
		}
	}
	return base + "?" + strings.Join(pairs, "&")
}

func beforeRequestLog(r *http.Request, verb, url string, params Params) {
	l := Logger()
	if ce := l.Check(zapcore.DebugLevel, "http request start"); ce != nil {
		var body string
		if b, err := json.Marshal(RedactParams(params)); err == nil {
			body = string(b)
		}
		ce.Write(
			zap.String("method", verb),
			zap.String("url", redactURL(url)),
			zap.String("request_id", r.Header.Get(HeaderRequestID)),
			zap.String("params", body),
		)
		return
	}
	l.Info("http request start",
		zap.String("method", verb),
		zap.String("url", redactURL(url)),
		zap.String("request_id", r.Header.Get(HeaderRequestID)),
	)
}

func afterRequestLog(statusCode int, response Record) {
	l := Logger()
	if ce := l.Check(zapcore.DebugLevel, "response"); ce != nil {
		var compact bytes.Buffer
		if b, err := json.Marshal(response); err == nil {
			compact.Write(b)
		}
		ce.Write(zap.Int("status", statusCode), zap.String("body", compact.String()))
		return
	}
	fields := []zap.Field{zap.Int("status", statusCode), zap.Int("keys", len(response))}
	if errObj, ok := response["error"].(map[string]any); ok {
		fields = append(fields, zap.Any("error", errObj["message"]))
	}
	l.Info("response", fields...)
}
