package badges

import (
	"testing"

	"github.com/abhisek/skillcheck/internal/skill"
)

func TestPassRarity(t *testing.T) {
	tests := []struct {
		p     skill.Proficiency
		score int
		want  Rarity
	}{
		{skill.Awareness, 70, RarityCommon},
		{skill.Knowledge, 99, RarityCommon},
		{skill.Knowledge, 100, RarityRare},
		{skill.Skilled, 80, RarityRare},
		{skill.Mastery, 75, RarityEpic},
		{skill.Mastery, 100, RarityLegendary},
	}
	for _, tt := range tests {
		if got := PassRarity(tt.p, tt.score); got != tt.want {
			t.Errorf("PassRarity(%s, %d) = %q, want %q", tt.p, tt.score, got, tt.want)
		}
	}
}

func TestStreakRarity(t *testing.T) {
	tests := []struct {
		length int
		want   Rarity
	}{
		{3, RarityCommon},
		{6, RarityRare},
		{9, RarityEpic},
		{12, RarityLegendary},
		{30, RarityLegendary},
	}
	for _, tt := range tests {
		if got := StreakRarity(tt.length); got != tt.want {
			t.Errorf("StreakRarity(%d) = %q, want %q", tt.length, got, tt.want)
		}
	}
}

func TestBumpStopsAtLegendary(t *testing.T) {
	if RarityLegendary.bump() != RarityLegendary {
		t.Error("legendary should not bump")
	}
	if RarityCommon.DisplayName() != "Common" {
		t.Error("unexpected display name")
	}
}
