package services

import "context"

type contextKey string

const (
	runIDKey contextKey = "run_id"
	bookKey  contextKey = "book"
)

// WithRunID annotates context with the identifier of the current run.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithBook annotates context with the book currently being processed.
func WithBook(ctx context.Context, book string) context.Context {
	if book == "" {
		return ctx
	}
	return context.WithValue(ctx, bookKey, book)
}

// BookFromContext returns the book name if present.
func BookFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(bookKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
