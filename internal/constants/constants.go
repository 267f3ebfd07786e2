package constants

import "time"

const (
	StartingBalance = 3000
	MaxSameSpecies  = 3
	SummonCost      = 1000
	EvolveCopies    = 3
)

const (
	BaseCatchRate        = 0.50
	BoostedBaseCatchRate = 0.65
	MaxCatchRate         = 0.95
	BoostedMinCatchRate  = 0.40
	CPFactorFloor        = 0.10
	BoostedCPFactorFloor = 0.20
	LeagueCatchBonus     = 0.05
	BoostedBallFactor    = 1.5
)

const (
	BattleBaseReward    = 500
	BattlePowerBonusCap = 1000
	RewardFactorMin     = 0.8
	RewardFactorMax     = 1.2
)

const (
	DiceCooldown   = 1 * time.Hour
	SlotsCooldown  = 30 * time.Minute
	GuessCooldown  = 10 * time.Minute
	QuizCooldown   = 20 * time.Minute
	DailyCooldown  = 24 * time.Hour
	WildExpiry     = 1 * time.Minute
	GuessReward    = 50
	QuizReward     = 80
	DailyBaseBonus = 100
)

const (
	ExternalAPITimeout = 5 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 30 * time.Second
	LookupCacheTTL     = 1 * time.Hour
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	CatalogListLimit = 151
)
