package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"padel-connect/internal/api"
	"padel-connect/internal/identity"
	"padel-connect/internal/ledger"
	"padel-connect/internal/server"
	"padel-connect/internal/viewmodel"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type memFlags struct {
	mu    sync.Mutex
	flags map[string]bool
}

func (m *memFlags) GetFlag(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flags[key], nil
}

func (m *memFlags) SetFlag(ctx context.Context, key string, value bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flags[key] = value
	return nil
}

func newClient(t *testing.T) *api.Client {
	t.Helper()
	logger := zerolog.Nop()
	idp, err := identity.NewDummyProviderWithDelay(&memFlags{flags: map[string]bool{}}, 0, logger)
	if err != nil {
		t.Fatalf("identity: %v", err)
	}
	l := ledger.New(logger)
	if err := l.Seed(context.Background(), time.Now(), idp.CurrentUserID()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	srv := httptest.NewServer(server.Routes(server.NewMatchServer(viewmodel.New(l, idp, logger), idp), server.NewAuthServer(idp), idp))
	t.Cleanup(srv.Close)
	return api.NewClientWithURL(srv.URL)
}

func runCmd(t *testing.T, c *api.Client, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), c, args, &out)
	return out.String(), err
}

func TestCommands(t *testing.T) {
	c := newClient(t)

	if out, err := runCmd(t, c, "whoami"); err != nil || !strings.Contains(out, "not signed in") {
		t.Fatalf("whoami = %q, %v", out, err)
	}
	if _, err := runCmd(t, c, "list"); err == nil || !strings.Contains(err.Error(), "unauthenticated") {
		t.Fatalf("list before login: %v", err)
	}

	out, err := runCmd(t, c, "login", "-password", "pw")
	if err != nil || !strings.Contains(out, identity.DummyUserID) {
		t.Fatalf("login = %q, %v", out, err)
	}

	out, err = runCmd(t, c, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 7 || !strings.Contains(lines[1], "my_dummy_match") || !strings.Contains(lines[1], "yours") {
		t.Fatalf("list output:\n%s", out)
	}

	out, err = runCmd(t, c, "join", "dummy_match_3")
	if err != nil || !strings.Contains(out, "2 of 4 free") || !strings.Contains(out, "joined") {
		t.Fatalf("join = %q, %v", out, err)
	}
	out, err = runCmd(t, c, "leave", "dummy_match_3")
	if err != nil || !strings.Contains(out, "3 of 4 free") {
		t.Fatalf("leave = %q, %v", out, err)
	}
	if _, err := runCmd(t, c, "join", "dummy_match_4"); err == nil || !strings.Contains(err.Error(), "failed_precondition") {
		t.Fatalf("join full: %v", err)
	}

	start := time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339)
	out, err = runCmd(t, c, "create", "-club", "Smash Padel", "-location", "Plovdiv", "-start", start, "-skill", "gold", "-spots", "2")
	if err != nil || !strings.Contains(out, "1 of 2 free") || !strings.Contains(out, "Gold") {
		t.Fatalf("create = %q, %v", out, err)
	}

	if out, err := runCmd(t, c, "logout"); err != nil || !strings.Contains(out, "not signed in") {
		t.Fatalf("logout = %q, %v", out, err)
	}
}

func TestUsageErrors(t *testing.T) {
	c := api.NewClientWithURL("http://127.0.0.1:1")
	tests := [][]string{
		nil,
		{"dance"},
		{"get"},
		{"join", "a", "b"},
		{"create", "-club", "x", "-start", "soon"},
		{"create", "-start", "2026-01-01T10:00:00Z", "-skill", "platinum"},
		{"create", "-club", "x", "-location", "y", "-start", "2026-01-01T10:00:00Z", "-spots", "4294967297"},
	}
	for _, args := range tests {
		if _, err := runCmd(t, c, args...); err == nil {
			t.Errorf("run(%q) should fail", args)
		}
	}
}

func TestParseCreateSpotsRange(t *testing.T) {
	base := []string{"-club", "x", "-location", "y", "-start", "2026-01-01T10:00:00Z"}

	req, err := parseCreate(append(base, "-spots", "6"))
	if err != nil || req.TotalSpots != 6 {
		t.Fatalf("parse = %+v, %v", req, err)
	}
	for _, spots := range []string{"4294967297", "2147483648", "-2147483649"} {
		if _, err := parseCreate(append(base, "-spots", spots)); err == nil {
			t.Errorf("-spots %s should be rejected", spots)
		}
	}
}
