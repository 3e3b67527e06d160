package viewmodel

import (
	"context"
	"errors"
	"padel-connect/internal/domain"
	"padel-connect/internal/ledger"
	"slices"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

const caller = "me"

var base = time.Date(2026, 5, 2, 8, 0, 0, 0, time.UTC)

type fakeIdentity struct{ id string }

func (f fakeIdentity) CurrentUserID() string   { return f.id }
func (f fakeIdentity) CurrentUserName() string { return "Me" }
func (f fakeIdentity) IsLoggedIn() bool        { return true }
func (f fakeIdentity) SignIn(ctx context.Context, email, password string) (bool, error) {
	return true, nil
}
func (f fakeIdentity) SignOut(ctx context.Context) error { return nil }

// flakyLedger wraps a real ledger and fails selected calls.
type flakyLedger struct {
	*ledger.Ledger
	listErr   error
	createErr error
	joinErr   error
	getErr    error
	listCalls int
}

func (f *flakyLedger) ListMatches(ctx context.Context) ([]domain.Match, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.Ledger.ListMatches(ctx)
}

func (f *flakyLedger) CreateMatch(ctx context.Context, p domain.CreateMatchParams) (domain.Match, error) {
	if f.createErr != nil {
		return domain.Match{}, f.createErr
	}
	return f.Ledger.CreateMatch(ctx, p)
}

func (f *flakyLedger) JoinMatch(ctx context.Context, id, userID string) (bool, error) {
	if f.joinErr != nil {
		return false, f.joinErr
	}
	return f.Ledger.JoinMatch(ctx, id, userID)
}

func (f *flakyLedger) GetMatch(ctx context.Context, id string) (domain.Match, bool, error) {
	if f.getErr != nil {
		return domain.Match{}, false, f.getErr
	}
	return f.Ledger.GetMatch(ctx, id)
}

func setup(t *testing.T) (*MatchViewModel, *flakyLedger) {
	t.Helper()
	fl := &flakyLedger{Ledger: ledger.New(zerolog.Nop())}
	return New(fl, fakeIdentity{id: caller}, zerolog.Nop()), fl
}

func seedMatch(t *testing.T, fl *flakyLedger, creator string, startOffset time.Duration, spots int) domain.Match {
	t.Helper()
	start := base.Add(startOffset)
	m, err := fl.Ledger.CreateMatch(context.Background(), domain.CreateMatchParams{
		ClubName:   "Club " + creator,
		Location:   "Somewhere",
		StartTime:  start,
		EndTime:    start.Add(time.Hour),
		TotalSpots: spots,
		CreatedBy:  creator,
	})
	if err != nil {
		t.Fatalf("seed match: %v", err)
	}
	return m
}

func input(start time.Time) CreateMatchInput {
	return CreateMatchInput{
		ClubName:   "Smash Padel",
		Location:   "Plovdiv",
		StartTime:  start,
		EndTime:    start.Add(90 * time.Minute),
		TotalSpots: 4,
		SkillLevel: domain.SkillGold,
	}
}

func TestRefreshOrdersCallerMatchesFirst(t *testing.T) {
	vm, fl := setup(t)
	seedMatch(t, fl, "other", 1*time.Hour, 4)
	seedMatch(t, fl, caller, 5*time.Hour, 4)
	seedMatch(t, fl, "other", 2*time.Hour, 4)
	seedMatch(t, fl, caller, 3*time.Hour, 4)

	vm.Refresh(context.Background())
	st := vm.State()

	if st.Loading || st.Err != "" {
		t.Fatalf("state = %+v, want idle without error", st)
	}
	var got []string
	for _, m := range st.Matches {
		got = append(got, m.CreatedBy+"@"+m.StartTime.Sub(base).String())
	}
	want := []string{"me@3h0m0s", "me@5h0m0s", "other@1h0m0s", "other@2h0m0s"}
	if !slices.Equal(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
}

func TestCallerFirstIsIndependentOfLedgerOrder(t *testing.T) {
	a := domain.Match{ID: "a", CreatedBy: "x", StartTime: base}
	b := domain.Match{ID: "b", CreatedBy: caller, StartTime: base.Add(time.Hour)}

	if ledger.ByStartTime(a, b) >= 0 {
		t.Fatal("ledger order should put a first")
	}
	if CallerFirst(caller)(a, b) <= 0 {
		t.Fatal("caller-first order should put b first")
	}
}

func TestRefreshFailureKeepsStaleList(t *testing.T) {
	vm, fl := setup(t)
	seedMatch(t, fl, "other", time.Hour, 4)
	vm.Refresh(context.Background())

	fl.listErr = errors.New("network down")
	seedMatch(t, fl, "other", 2*time.Hour, 4)
	vm.Refresh(context.Background())

	st := vm.State()
	if len(st.Matches) != 1 {
		t.Fatalf("cached matches = %d, want stale 1", len(st.Matches))
	}
	if st.Err == "" || st.Loading {
		t.Fatalf("state = %+v, want error set and not loading", st)
	}

	vm.DismissError()
	if vm.State().Err != "" {
		t.Fatal("dismiss should clear the error")
	}
}

func TestCreateUsesCallerAndRefreshes(t *testing.T) {
	vm, fl := setup(t)

	m, err := vm.Create(context.Background(), input(base.Add(time.Hour)))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if m.CreatedBy != caller || m.AvailableSpots != 3 || m.SkillLevel != domain.SkillGold {
		t.Fatalf("created = %+v", m)
	}
	if fl.listCalls != 1 {
		t.Fatalf("list calls = %d, want 1 refresh", fl.listCalls)
	}
	if st := vm.State(); len(st.Matches) != 1 || st.Matches[0].ID != m.ID {
		t.Fatalf("cache = %+v", st.Matches)
	}
}

func TestCreateValidationAndFailure(t *testing.T) {
	vm, fl := setup(t)
	seedMatch(t, fl, "other", time.Hour, 4)
	vm.Refresh(context.Background())

	bad := input(base)
	bad.EndTime = bad.StartTime
	if _, err := vm.Create(context.Background(), bad); !errors.Is(err, domain.ErrInvalidMatch) {
		t.Fatalf("create error = %v, want ErrInvalidMatch", err)
	}

	fl.createErr = errors.New("store offline")
	_, err := vm.Create(context.Background(), input(base))
	if err == nil || !errors.Is(err, fl.createErr) {
		t.Fatalf("create error = %v, want wrapped store error", err)
	}

	st := vm.State()
	if st.Loading {
		t.Fatal("loading should be cleared after failure")
	}
	if st.Err == "" {
		t.Fatal("error should be surfaced")
	}
	if len(st.Matches) != 1 {
		t.Fatalf("list should be untouched, got %d matches", len(st.Matches))
	}
}

func TestJoinAndLeave(t *testing.T) {
	vm, fl := setup(t)
	m := seedMatch(t, fl, "other", time.Hour, 2)
	ctx := context.Background()

	if err := vm.Join(ctx, m.ID); err != nil {
		t.Fatalf("join: %v", err)
	}
	st := vm.State()
	if len(st.Matches) != 1 || !st.Matches[0].HasUserJoined(caller) || st.Matches[0].AvailableSpots != 0 {
		t.Fatalf("after join: %+v", st.Matches)
	}

	if err := vm.Join(ctx, m.ID); !errors.Is(err, ErrCannotJoin) {
		t.Fatalf("second join error = %v, want ErrCannotJoin", err)
	}
	if vm.State().Err != ErrCannotJoin.Error() {
		t.Fatalf("error banner = %q", vm.State().Err)
	}
	if got := vm.State().Matches[0]; got.AvailableSpots != 0 {
		t.Fatal("rejected join must not touch the cache")
	}

	if err := vm.Leave(ctx, m.ID); err != nil {
		t.Fatalf("leave: %v", err)
	}
	if got := vm.State(); got.Err != "" || got.Matches[0].AvailableSpots != 1 {
		t.Fatalf("after leave: %+v", got)
	}

	if err := vm.Leave(ctx, m.ID); !errors.Is(err, ErrCannotLeave) {
		t.Fatalf("second leave error = %v, want ErrCannotLeave", err)
	}
}

func TestCreatorCannotJoinOrLeaveOwnMatch(t *testing.T) {
	vm, fl := setup(t)
	m := seedMatch(t, fl, caller, time.Hour, 4)
	ctx := context.Background()

	if err := vm.Join(ctx, m.ID); !errors.Is(err, ErrCannotJoin) {
		t.Fatalf("join error = %v", err)
	}
	if err := vm.Leave(ctx, m.ID); !errors.Is(err, ErrCannotLeave) {
		t.Fatalf("leave error = %v", err)
	}
	if fl.listCalls != 0 {
		t.Fatalf("rejections should not refresh, list calls = %d", fl.listCalls)
	}
}

func TestJoinTransientFailurePropagates(t *testing.T) {
	vm, fl := setup(t)
	m := seedMatch(t, fl, "other", time.Hour, 4)
	fl.joinErr = errors.New("timeout")

	err := vm.Join(context.Background(), m.ID)
	if err == nil || errors.Is(err, ErrCannotJoin) {
		t.Fatalf("join error = %v, want transient failure", err)
	}
	if vm.State().Err == "" {
		t.Fatal("transient failure should set error state")
	}
}

func TestGetByIDRoundTripsToLedger(t *testing.T) {
	vm, fl := setup(t)
	m := seedMatch(t, fl, "other", time.Hour, 4)
	ctx := context.Background()

	vm.Refresh(ctx)
	if _, err := fl.Ledger.JoinMatch(ctx, m.ID, "someone"); err != nil {
		t.Fatalf("join: %v", err)
	}

	got, ok, err := vm.GetByID(ctx, m.ID)
	if err != nil || !ok {
		t.Fatalf("get = (%v, %v)", ok, err)
	}
	if got.AvailableSpots != 2 {
		t.Fatalf("available = %d, want fresh value 2", got.AvailableSpots)
	}
	if cached := vm.State().Matches[0]; cached.AvailableSpots != 3 {
		t.Fatalf("cache should still be stale, got %d", cached.AvailableSpots)
	}

	if _, ok, err := vm.GetByID(ctx, "nope"); ok || err != nil {
		t.Fatalf("missing = (%v, %v), want (false, nil)", ok, err)
	}

	fl.getErr = errors.New("boom")
	if _, _, err := vm.GetByID(ctx, m.ID); err == nil {
		t.Fatal("expected error")
	}
}

func TestStateIsACopy(t *testing.T) {
	vm, fl := setup(t)
	m := seedMatch(t, fl, "other", time.Hour, 4)
	fl.Ledger.JoinMatch(context.Background(), m.ID, "x")
	vm.Refresh(context.Background())

	st := vm.State()
	st.Matches[0].JoinedUsers[0] = "tampered"
	st.Matches = nil

	again := vm.State()
	if len(again.Matches) != 1 || again.Matches[0].JoinedUsers[0] != "x" {
		t.Fatalf("state leaked: %+v", again.Matches)
	}
}
