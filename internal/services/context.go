package services

import "context"

type contextKey string

const (
	sessionIDKey  contextKey = "session_id"
	slideIndexKey contextKey = "slide_index"
	requestIDKey  contextKey = "request_id"
)

// WithSessionID annotates context with the visitor session identifier.
func WithSessionID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionIDKey, id)
}

// SessionIDFromContext extracts the visitor session identifier if present.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(sessionIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithSlideIndex annotates context with the manifest index of the slide being processed.
func WithSlideIndex(ctx context.Context, index int) context.Context {
	if index < 0 {
		return ctx
	}
	return context.WithValue(ctx, slideIndexKey, index)
}

// SlideIndexFromContext returns the slide index if present.
func SlideIndexFromContext(ctx context.Context) (int, bool) {
	v, ok := ctx.Value(slideIndexKey).(int)
	return v, ok
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
