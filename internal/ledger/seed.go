package ledger

import (
	"context"
	"fmt"
	"padel-connect/internal/domain"
	"time"
)

type demoMatch struct {
	id          string
	club        string
	location    string
	dayOffset   int
	startHour   int
	startMinute int
	createdBy   string // "" means the caller
	createdAgo  time.Duration
	joined      []string
	skill       domain.SkillLevel
}

var demoMatches = []demoMatch{
	{id: "my_dummy_match", club: "Padel Club Sofia", location: "ul. Okolovrasten pat 72, Sofia", dayOffset: 1, startHour: 16, createdAgo: time.Hour, joined: []string{"player_1"}, skill: domain.SkillSilverMid},
	{id: "dummy_match_1", club: "Smash Padel", location: "bul. Maritsa 15, Plovdiv", dayOffset: 1, startHour: 18, createdBy: "player_1", createdAgo: 2 * time.Hour, joined: []string{"player_2"}, skill: domain.SkillBronzeHigh},
	{id: "dummy_match_2", club: "Padel Arena Varna", location: "ul. Primorska 25, Varna", dayOffset: 1, startHour: 19, startMinute: 30, createdBy: "player_2", createdAgo: 5 * time.Hour, joined: []string{"player_1", "player_3"}, skill: domain.SkillGold},
	{id: "dummy_match_3", club: "Padel Club Burgas", location: "ul. Aleksandrovska 18, Burgas", dayOffset: 2, startHour: 17, createdBy: "player_3", createdAgo: time.Hour, skill: domain.SkillBronzeLow},
	{id: "dummy_match_4", club: "Padel", location: "ul. Slavyanska 12, Varna", dayOffset: 7, startHour: 18, startMinute: 30, createdBy: "player_1", createdAgo: 24 * time.Hour, joined: []string{"player_2", "player_3", "player_4"}, skill: domain.SkillSilverHigh},
	{id: "dummy_match_5", club: "Padel Club Stara Zagora", location: "bul. Ruski 8, Stara Zagora", dayOffset: 1, startHour: 10, createdBy: "player_2", createdAgo: 3 * time.Hour, joined: []string{"player_1"}, skill: domain.SkillSilverLow},
}

const demoMatchLength = 2 * time.Hour

// Seed fills an empty ledger with demo matches scheduled relative to now.
// One match belongs to callerID and one is already full. A non-empty ledger
// is left untouched.
func (l *Ledger) Seed(ctx context.Context, now time.Time, callerID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.matches) > 0 {
		l.logger.Debug().Int("matches", len(l.matches)).Msg("ledger not empty, skipping seed")
		return nil
	}

	seeded := make([]domain.Match, 0, len(demoMatches))
	for _, d := range demoMatches {
		day := now.AddDate(0, 0, d.dayOffset)
		start := time.Date(day.Year(), day.Month(), day.Day(), d.startHour, d.startMinute, 0, 0, now.Location())

		createdBy := d.createdBy
		if createdBy == "" {
			createdBy = callerID
		}

		m := domain.Match{
			ID:             d.id,
			ClubName:       d.club,
			Location:       d.location,
			StartTime:      start,
			EndTime:        start.Add(demoMatchLength),
			TotalSpots:     4,
			AvailableSpots: 4 - 1 - len(d.joined),
			CreatedBy:      createdBy,
			CreatedAt:      now.Add(-d.createdAgo),
			JoinedUsers:    append([]string{}, d.joined...),
			SkillLevel:     d.skill,
		}
		if err := m.CheckSeats(); err != nil {
			return fmt.Errorf("invalid demo match %s: %w", d.id, err)
		}
		seeded = append(seeded, m)
	}
	for _, m := range seeded {
		l.insertLocked(m)
	}

	l.logger.Info().Int("matches", len(demoMatches)).Str("caller_id", callerID).Msg("demo matches seeded")
	return nil
}
