package services_test

import (
	"context"
	"testing"

	"scanshelf/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "run-123")
	ctx = services.WithBook(ctx, "Alpha")

	if id, ok := services.RunIDFromContext(ctx); !ok || id != "run-123" {
		t.Fatalf("unexpected run id: %v %v", id, ok)
	}
	if book, ok := services.BookFromContext(ctx); !ok || book != "Alpha" {
		t.Fatalf("unexpected book: %v %v", book, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithBook(ctx, "")
	ctx = services.WithRunID(ctx, "")
	if _, ok := services.BookFromContext(ctx); ok {
		t.Fatal("expected no book value")
	}
	if _, ok := services.RunIDFromContext(ctx); ok {
		t.Fatal("expected no run id value")
	}
}
