package badges

import "github.com/abhisek/skillcheck/internal/skill"

// Rarity is the prestige tier of a badge.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// AllRarities returns all rarities from lowest to highest.
func AllRarities() []Rarity {
	return []Rarity{RarityCommon, RarityRare, RarityEpic, RarityLegendary}
}

func (r Rarity) DisplayName() string {
	switch r {
	case RarityCommon:
		return "Common"
	case RarityRare:
		return "Rare"
	case RarityEpic:
		return "Epic"
	case RarityLegendary:
		return "Legendary"
	default:
		return string(r)
	}
}

func (r Rarity) bump() Rarity {
	all := AllRarities()
	for i, x := range all {
		if x == r && i < len(all)-1 {
			return all[i+1]
		}
	}
	return r
}

// PassRarity grades a pass by proficiency; a perfect score goes one tier up.
func PassRarity(p skill.Proficiency, score int) Rarity {
	var r Rarity
	switch p {
	case skill.Mastery:
		r = RarityEpic
	case skill.Skilled:
		r = RarityRare
	default:
		r = RarityCommon
	}
	if score >= 100 {
		r = r.bump()
	}
	return r
}

// StreakRarity returns the rarity for a run of consecutive passes.
func StreakRarity(length int) Rarity {
	switch {
	case length >= 12:
		return RarityLegendary
	case length >= 9:
		return RarityEpic
	case length >= 6:
		return RarityRare
	default:
		return RarityCommon
	}
}
