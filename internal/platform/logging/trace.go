package logging

import (
	"regexp"

	"go.uber.org/zap"
)

const traceparentHeader = "traceparent"

// W3C Trace Context: {version}-{trace-id}-{parent-id}-{trace-flags}
var traceparentRe = regexp.MustCompile(`^([0-9a-f]{2})-([0-9a-f]{32})-([0-9a-f]{16})-([0-9a-f]{2})$`)

const (
	zeroTraceID = "00000000000000000000000000000000"
	zeroSpanID  = "0000000000000000"
)

// traceContext is the parsed form of a traceparent header.
type traceContext struct {
	TraceID string
	SpanID  string
	Sampled bool
}

// parseTraceparent returns the trace context and true when header is a valid
// traceparent. Version ff and all-zero identifiers are invalid.
func parseTraceparent(header string) (traceContext, bool) {
	m := traceparentRe.FindStringSubmatch(header)
	if len(m) != 5 {
		return traceContext{}, false
	}
	if m[1] == "ff" || m[2] == zeroTraceID || m[3] == zeroSpanID {
		return traceContext{}, false
	}
	var flags byte
	for _, c := range []byte(m[4]) {
		flags <<= 4
		switch {
		case c >= '0' && c <= '9':
			flags |= c - '0'
		default:
			flags |= c - 'a' + 10
		}
	}
	return traceContext{TraceID: m[2], SpanID: m[3], Sampled: flags&0x01 == 1}, true
}

func traceFields(tc traceContext) []zap.Field {
	return []zap.Field{
		zap.String("traceId", tc.TraceID),
		zap.String("spanId", tc.SpanID),
		zap.Bool("traceSampled", tc.Sampled),
	}
}

func loggerWithTrace(base *zap.Logger, header, requestID string) *zap.Logger {
	if base == nil {
		base = zap.NewNop()
	}
	var fields []zap.Field
	if tc, ok := parseTraceparent(header); ok {
		fields = traceFields(tc)
	}
	if requestID != "" {
		fields = append(fields, zap.String("requestId", requestID))
	}
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}
