package ctxkeys

import (
	"context"
	"testing"
)

func TestWithValue_SetsAndGetsTypedKey(t *testing.T) {
	t.Parallel()

	ctx := WithValue(context.Background(), Subject, "agent-7")
	if got := Value(ctx, Subject); got != "agent-7" {
		t.Fatalf("Value() = %q; want %q", got, "agent-7")
	}
}

func TestValue_PlainStringKeyDoesNotCollide(t *testing.T) {
	t.Parallel()

	//nolint:staticcheck // deliberately using a plain string key
	ctx := context.WithValue(context.Background(), "subject", "spoofed")
	if got := Value(ctx, Subject); got != "" {
		t.Fatalf("Value() = %q; want empty", got)
	}
}
