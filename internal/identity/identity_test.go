package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type fakeFlagStore struct {
	flags  map[string]bool
	getErr error
	setErr error
}

func newFakeFlagStore() *fakeFlagStore {
	return &fakeFlagStore{flags: map[string]bool{}}
}

func (f *fakeFlagStore) GetFlag(ctx context.Context, key string) (bool, error) {
	if f.getErr != nil {
		return false, f.getErr
	}
	return f.flags[key], nil
}

func (f *fakeFlagStore) SetFlag(ctx context.Context, key string, value bool) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.flags[key] = value
	return nil
}

func TestSignInPersistsAcrossInstances(t *testing.T) {
	store := newFakeFlagStore()
	first, err := NewDummyProviderWithDelay(store, 0, zerolog.Nop())
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	if first.IsLoggedIn() {
		t.Fatal("fresh provider should be logged out")
	}

	ok, err := first.SignIn(context.Background(), "anyone@example.com", "whatever")
	if err != nil || !ok {
		t.Fatalf("sign in = (%v, %v), want (true, nil)", ok, err)
	}
	if !store.flags[LoggedInKey] {
		t.Fatalf("flag %s not persisted", LoggedInKey)
	}

	second, err := NewDummyProviderWithDelay(store, 0, zerolog.Nop())
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	if !second.IsLoggedIn() {
		t.Fatal("login state should survive a restart")
	}

	if err := second.SignOut(context.Background()); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if second.IsLoggedIn() || store.flags[LoggedInKey] {
		t.Fatal("sign out should clear the flag")
	}
}

func TestFixedIdentity(t *testing.T) {
	p, err := NewDummyProviderWithDelay(newFakeFlagStore(), 0, zerolog.Nop())
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	if p.CurrentUserID() != DummyUserID || p.CurrentUserName() != DummyUserName {
		t.Fatalf("identity = (%s, %s)", p.CurrentUserID(), p.CurrentUserName())
	}
}

func TestSignInHonoursCancellation(t *testing.T) {
	store := newFakeFlagStore()
	p, err := NewDummyProviderWithDelay(store, time.Hour, zerolog.Nop())
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.SignIn(ctx, "a@b.c", "pw"); !errors.Is(err, context.Canceled) {
		t.Fatalf("sign in error = %v, want context.Canceled", err)
	}
	if p.IsLoggedIn() {
		t.Fatal("cancelled sign in must not log in")
	}
}

func TestStoreFailures(t *testing.T) {
	if _, err := NewDummyProviderWithDelay(&fakeFlagStore{getErr: errors.New("disk gone")}, 0, zerolog.Nop()); err == nil {
		t.Fatal("expected restore error")
	}

	store := newFakeFlagStore()
	p, err := NewDummyProviderWithDelay(store, 0, zerolog.Nop())
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	store.setErr = errors.New("read only")
	if _, err := p.SignIn(context.Background(), "a@b.c", "pw"); err == nil {
		t.Fatal("expected persist error")
	}
	if p.IsLoggedIn() {
		t.Fatal("failed persist must not flip the in-memory flag")
	}
}
