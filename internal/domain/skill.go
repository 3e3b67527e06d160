package domain

import (
	"fmt"
	"strings"
)

type SkillLevel string

const (
	SkillBronzeLow  SkillLevel = "bronze-low"
	SkillBronzeMid  SkillLevel = "bronze-mid"
	SkillBronzeHigh SkillLevel = "bronze-high"
	SkillSilverLow  SkillLevel = "silver-low"
	SkillSilverMid  SkillLevel = "silver-mid"
	SkillSilverHigh SkillLevel = "silver-high"
	SkillGold       SkillLevel = "gold"
)

// SkillLevels lists the tiers from weakest to strongest.
var SkillLevels = []SkillLevel{
	SkillBronzeLow,
	SkillBronzeMid,
	SkillBronzeHigh,
	SkillSilverLow,
	SkillSilverMid,
	SkillSilverHigh,
	SkillGold,
}

var skillLabels = map[SkillLevel]string{
	SkillBronzeLow:  "Bronze (low)",
	SkillBronzeMid:  "Bronze (mid)",
	SkillBronzeHigh: "Bronze (high)",
	SkillSilverLow:  "Silver (low)",
	SkillSilverMid:  "Silver (mid)",
	SkillSilverHigh: "Silver (high)",
	SkillGold:       "Gold",
}

func (s SkillLevel) Valid() bool {
	_, ok := skillLabels[s]
	return ok
}

func (s SkillLevel) Label() string {
	if label, ok := skillLabels[s]; ok {
		return label
	}
	return "Any level"
}

// ParseSkillLevel accepts an empty string as "no level".
func ParseSkillLevel(raw string) (SkillLevel, error) {
	s := SkillLevel(strings.ToLower(strings.TrimSpace(raw)))
	if s == "" || s.Valid() {
		return s, nil
	}
	return "", fmt.Errorf("%w: unknown skill level %q", ErrInvalidMatch, raw)
}
