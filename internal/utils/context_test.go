package utils

import (
	"context"
	"testing"

	"github.com/baseytransit/transit-server/models"
)

func TestGetAuthUserFromContext_Success(t *testing.T) {
	want := models.AuthUser{UserID: 7, Username: "juan", Role: models.RolePublic, IsActive: true}
	ctx := context.WithValue(context.Background(), AuthUserCtxKey, want)

	got, ok := GetAuthUserFromContext(ctx)
	if !ok {
		t.Fatal("expected identity to be found in context")
	}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestGetAuthUserFromContext_Missing(t *testing.T) {
	_, ok := GetAuthUserFromContext(context.Background())
	if ok {
		t.Error("expected ok to be false for empty context")
	}
}

func TestGetAuthUserFromContext_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), AuthUserCtxKey, "not a user")

	_, ok := GetAuthUserFromContext(ctx)
	if ok {
		t.Error("expected ok to be false for mistyped value")
	}
}
