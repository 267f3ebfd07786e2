package domain

import (
	"strings"
	"time"
)

type Creature struct {
	CreatureID string
	Name       string
	Types      []string
	Attack     int
	Defense    int
	HP         int
	ImageURL   string
	Custom     bool
}

// CP is derived from the current stats and never stored.
func (c *Creature) CP() int {
	return (c.Attack + c.Defense) * c.HP / 10
}

type Player struct {
	PlayerID     int64
	Balance      int
	Creatures    []Creature
	MainCreature *Creature
	CaughtCount  int
	Trainer      string
	TrainerLevel int
	League       int
	Pokeballs    map[string]int
	UsedPromos   []string
	Username     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewPlayer(id int64, startingBalance int) *Player {
	return &Player{
		PlayerID:  id,
		Balance:   startingBalance,
		League:    1,
		Pokeballs: map[string]int{},
	}
}

func (p *Player) DisplayName() string {
	if p.Username != "" {
		return p.Username
	}
	return "Player"
}

// CreatureByID returns the owned creature with the given id, or nil.
func (p *Player) CreatureByID(id string) *Creature {
	for i := range p.Creatures {
		if p.Creatures[i].CreatureID == id {
			return &p.Creatures[i]
		}
	}
	return nil
}

// CountByName counts owned creatures by case-insensitive species name.
func (p *Player) CountByName(name string) int {
	n := 0
	for i := range p.Creatures {
		if strings.EqualFold(p.Creatures[i].Name, name) {
			n++
		}
	}
	return n
}

func (p *Player) UniqueSpeciesCount() int {
	seen := map[string]struct{}{}
	for i := range p.Creatures {
		seen[strings.ToLower(p.Creatures[i].Name)] = struct{}{}
	}
	return len(seen)
}

func (p *Player) HasRedeemed(code string) bool {
	for _, c := range p.UsedPromos {
		if c == code {
			return true
		}
	}
	return false
}

// Credit adjusts the balance, clamping at zero rather than failing;
// affordability checks belong to the economy rules, not the model.
func (p *Player) Credit(amount int) {
	p.Balance += amount
	if p.Balance < 0 {
		p.Balance = 0
	}
}

type RewardKind string

const (
	RewardCoins          RewardKind = "coins"
	RewardCreature       RewardKind = "creature"
	RewardTrainer        RewardKind = "trainer"
	RewardCustomCreature RewardKind = "custom_creature"
)

// Reward is the tagged payload of a promocode. Which fields are meaningful
// depends on Kind: Amount for coins, Name+Quantity for creature drops,
// RefID for trainer and custom-creature grants.
type Reward struct {
	Kind     RewardKind
	Amount   int
	Name     string
	Quantity int
	RefID    string
}

type Promocode struct {
	Code        string
	Reward      Reward
	CreatedBy   int64
	CreatedAt   time.Time
	ExpiresAt   *time.Time
	MaxUses     *int
	UseCount    int
	Description string
}

// Valid reports whether the code can still be redeemed at the given instant.
func (pc *Promocode) Valid(now time.Time) bool {
	if pc.ExpiresAt != nil && now.After(*pc.ExpiresAt) {
		return false
	}
	if pc.MaxUses != nil && pc.UseCount >= *pc.MaxUses {
		return false
	}
	return true
}

type TradeStatus string

const (
	TradePending     TradeStatus = "pending"
	TradeNegotiating TradeStatus = "negotiating"
	TradeCompleted   TradeStatus = "completed"
	TradeCancelled   TradeStatus = "cancelled"
)

type TradeSession struct {
	TradeID        string
	InitiatorID    int64
	PartnerID      int64
	InitiatorOffer []string
	PartnerOffer   []string
	InitiatorOK    bool
	PartnerOK      bool
	Status         TradeStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (t *TradeSession) IsParticipant(playerID int64) bool {
	return playerID == t.InitiatorID || playerID == t.PartnerID
}

// Offer returns a pointer to the given participant's offer list. Callers
// must have checked IsParticipant first.
func (t *TradeSession) Offer(playerID int64) *[]string {
	if playerID == t.InitiatorID {
		return &t.InitiatorOffer
	}
	return &t.PartnerOffer
}

type BattleStatus string

const (
	BattleChallenge BattleStatus = "challenge"
	BattleSelecting BattleStatus = "selecting"
	BattleResolved  BattleStatus = "resolved"
	BattleDeclined  BattleStatus = "declined"
)

type BattleSession struct {
	BattleID           string
	ChallengerID       int64
	OpponentID         int64
	ChallengerReady    bool
	OpponentReady      bool
	ChallengerCreature *Creature
	OpponentCreature   *Creature
	Status             BattleStatus
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (b *BattleSession) IsParticipant(playerID int64) bool {
	return playerID == b.ChallengerID || playerID == b.OpponentID
}
