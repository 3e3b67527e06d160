package domain

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

var ErrInvalidMatch = errors.New("invalid match")

type Match struct {
	ID             string
	ClubName       string
	Location       string
	StartTime      time.Time
	EndTime        time.Time
	TotalSpots     int
	AvailableSpots int
	CreatedBy      string // occupies one seat, never in JoinedUsers
	CreatedAt      time.Time
	JoinedUsers    []string
	Description    string
	SkillLevel     SkillLevel // "" when unset
}

// Clone returns a copy that shares no memory with m.
func (m Match) Clone() Match {
	m.JoinedUsers = slices.Clone(m.JoinedUsers)
	if m.JoinedUsers == nil {
		m.JoinedUsers = []string{}
	}
	return m
}

func (m Match) IsCreator(userID string) bool {
	return m.CreatedBy == userID
}

// HasUserJoined reports whether userID holds a seat, including the creator's implicit one.
func (m Match) HasUserJoined(userID string) bool {
	return m.IsCreator(userID) || slices.Contains(m.JoinedUsers, userID)
}

func (m Match) IsFull() bool {
	return m.AvailableSpots <= 0
}

func (m Match) CanJoin(userID string) bool {
	return !m.HasUserJoined(userID) && !m.IsFull()
}

// CheckSeats verifies the seat accounting of m.
func (m Match) CheckSeats() error {
	if m.AvailableSpots < 0 || m.AvailableSpots > m.TotalSpots-1 {
		return fmt.Errorf("available spots %d out of range [0, %d]", m.AvailableSpots, m.TotalSpots-1)
	}
	if want := m.TotalSpots - 1 - len(m.JoinedUsers); m.AvailableSpots != want {
		return fmt.Errorf("available spots %d, want %d for %d joined users", m.AvailableSpots, want, len(m.JoinedUsers))
	}
	seen := make(map[string]struct{}, len(m.JoinedUsers))
	for _, u := range m.JoinedUsers {
		if u == m.CreatedBy {
			return fmt.Errorf("creator %s listed as joined user", u)
		}
		if _, ok := seen[u]; ok {
			return fmt.Errorf("user %s joined twice", u)
		}
		seen[u] = struct{}{}
	}
	return nil
}

type CreateMatchParams struct {
	ClubName    string
	Location    string
	StartTime   time.Time
	EndTime     time.Time
	TotalSpots  int
	CreatedBy   string
	Description string
	SkillLevel  SkillLevel
}

// Validate applies the checks the create form performs before a match reaches the ledger.
func (p CreateMatchParams) Validate() error {
	if strings.TrimSpace(p.ClubName) == "" {
		return fmt.Errorf("%w: club name is required", ErrInvalidMatch)
	}
	if strings.TrimSpace(p.Location) == "" {
		return fmt.Errorf("%w: location is required", ErrInvalidMatch)
	}
	if p.StartTime.IsZero() || p.EndTime.IsZero() {
		return fmt.Errorf("%w: start and end time are required", ErrInvalidMatch)
	}
	if !p.EndTime.After(p.StartTime) {
		return fmt.Errorf("%w: end time must be after start time", ErrInvalidMatch)
	}
	if p.TotalSpots < 1 {
		return fmt.Errorf("%w: total spots must be at least 1", ErrInvalidMatch)
	}
	if p.SkillLevel != "" && !p.SkillLevel.Valid() {
		return fmt.Errorf("%w: unknown skill level %q", ErrInvalidMatch, p.SkillLevel)
	}
	return nil
}
