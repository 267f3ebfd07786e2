// Package catalog holds the static game data: purchasable capture items,
// hireable trainers and league tiers. The catalog is read-only at runtime;
// player-owned state lives in the repositories.
package catalog

import "sort"

type Pokeball struct {
	ID             string
	Name           string
	Cost           int
	CatchRateBonus float64
}

type TrainerRequirements struct {
	MinLeague int
	Creatures []string
}

type Trainer struct {
	ID          string
	Name        string
	Cost        int
	PowerBonus  float64
	AttackBonus float64
	HealthBonus float64
	UpgradeCost int
	CoinReward  int
	Requires    *TrainerRequirements
}

type League struct {
	Tier            int
	CreaturesNeeded int
	AttackBonus     int
	DefenseBonus    int
	HealthBonus     int
}

var pokeballs = map[string]Pokeball{
	"pokeball":   {ID: "pokeball", Name: "Pokeball", Cost: 500, CatchRateBonus: 0.1},
	"greatball":  {ID: "greatball", Name: "Great Ball", Cost: 1000, CatchRateBonus: 0.2},
	"ultraball":  {ID: "ultraball", Name: "Ultra Ball", Cost: 2000, CatchRateBonus: 0.4},
	"masterball": {ID: "masterball", Name: "Master Ball", Cost: 50000, CatchRateBonus: 1.0},
}

var trainers = map[string]Trainer{
	"brock": {ID: "brock", Name: "Brock", Cost: 200000, PowerBonus: 0.1, UpgradeCost: 200000},
	"misty": {ID: "misty", Name: "Misty", Cost: 500000, PowerBonus: 0.3, UpgradeCost: 500000},
	"ash":   {ID: "ash", Name: "Ash", Cost: 2000000, PowerBonus: 0.7, UpgradeCost: 2000000},
	"sarner": {
		ID:          "sarner",
		Name:        "SARNER",
		Cost:        777777777,
		PowerBonus:  5.0,
		AttackBonus: 5.0,
		HealthBonus: 5.0,
		CoinReward:  696969696,
		Requires: &TrainerRequirements{
			MinLeague: 5,
			Creatures: []string{"gengar", "charizard", "mewtwo"},
		},
	},
}

var leagues = map[int]League{
	1: {Tier: 1, CreaturesNeeded: 0},
	2: {Tier: 2, CreaturesNeeded: 100, AttackBonus: 50, DefenseBonus: 50, HealthBonus: 50},
	3: {Tier: 3, CreaturesNeeded: 200, AttackBonus: 100, DefenseBonus: 100, HealthBonus: 100},
	4: {Tier: 4, CreaturesNeeded: 300, AttackBonus: 200, DefenseBonus: 200, HealthBonus: 200},
	5: {Tier: 5, CreaturesNeeded: 400, AttackBonus: 500, DefenseBonus: 500, HealthBonus: 500},
}

// PokeballByID looks up a capture item definition.
func PokeballByID(id string) (Pokeball, bool) {
	b, ok := pokeballs[id]
	return b, ok
}

// Pokeballs returns all capture items sorted by cost.
func Pokeballs() []Pokeball {
	out := make([]Pokeball, 0, len(pokeballs))
	for _, b := range pokeballs {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Cost < out[j].Cost })
	return out
}

// TrainerByID looks up a trainer definition.
func TrainerByID(id string) (Trainer, bool) {
	t, ok := trainers[id]
	return t, ok
}

// Trainers returns all trainer definitions sorted by cost.
func Trainers() []Trainer {
	out := make([]Trainer, 0, len(trainers))
	for _, t := range trainers {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Cost < out[j].Cost })
	return out
}

// LeagueByTier returns the league definition for a tier, falling back to
// tier 1 when the tier is unset or out of range.
func LeagueByTier(tier int) League {
	if l, ok := leagues[tier]; ok {
		return l
	}
	return leagues[1]
}

// MaxLeague is the highest attainable league tier.
func MaxLeague() int { return 5 }

// LeagueFor returns the highest tier whose creature threshold the given
// caught-count satisfies.
func LeagueFor(caughtCount int) int {
	tier := 1
	for t := 2; t <= MaxLeague(); t++ {
		if caughtCount >= leagues[t].CreaturesNeeded {
			tier = t
		}
	}
	return tier
}
