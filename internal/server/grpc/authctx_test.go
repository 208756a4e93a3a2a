package grpcserver

import (
	"context"
	"testing"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/task-keeper/internal/model"
)

func TestWithIdentity_And_IdentityFromCtx(t *testing.T) {
	t.Parallel()

	if id, ok := IdentityFromCtx(context.Background()); ok || id.UserID != uuid.Nil {
		t.Fatalf("expected no identity in empty ctx")
	}

	want := model.Identity{UserID: uuid.Must(uuid.NewV4()), Username: "alice"}
	ctx := WithIdentity(context.Background(), want)

	got, ok := IdentityFromCtx(ctx)
	if !ok {
		t.Fatalf("expected identity in ctx")
	}
	if got != want {
		t.Fatalf("mismatch: got %+v, want %+v", got, want)
	}

	bad := context.WithValue(context.Background(), identityKey, "not-identity")
	if id, ok := IdentityFromCtx(bad); ok || id.UserID != uuid.Nil {
		t.Fatalf("expected miss on wrong typed value")
	}
}
