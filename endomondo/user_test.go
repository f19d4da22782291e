package endomondo

import (
	"context"
	"errors"
	"testing"
)

func TestUserGet(t *testing.T) {
	ts := newMockServer(t)
	defer ts.Close()

	client := loginMockClient(t, ts)

	profile, err := client.User.Get(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if profile.ID != "123456" {
		t.Errorf("expected profile ID 123456, got %q", profile.ID)
	}
	if profile.Email != "athlete@example.com" {
		t.Errorf("expected email athlete@example.com, got %q", profile.Email)
	}
	if profile.Name != "Jane Doe" {
		t.Errorf("expected name Jane Doe, got %q", profile.Name)
	}
	if len(profile.Raw) == 0 {
		t.Error("expected raw profile JSON to be retained")
	}
}

func TestUserGet_RequiresLogin(t *testing.T) {
	ts := newMockServer(t)
	defer ts.Close()

	client := newMockClient(t, ts)

	_, err := client.User.Get(context.Background())

	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %T: %v", err, err)
	}
}
