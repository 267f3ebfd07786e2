package repository

import (
	"time"

	"pokebot/internal/domain"
)

// Rows store the aggregate as a JSON document keyed by id, mirroring the
// key-value layout the game rules assume. The doc types below pin the wire
// field names independently of the domain structs.

type creatureDoc struct {
	CreatureID string   `json:"creature_id"`
	Name       string   `json:"name"`
	Types      []string `json:"types"`
	Attack     int      `json:"attack"`
	Defense    int      `json:"defense"`
	HP         int      `json:"hp"`
	ImageURL   string   `json:"image_url,omitempty"`
	Custom     bool     `json:"custom,omitempty"`
}

type playerDoc struct {
	PlayerID     int64          `json:"player_id"`
	Balance      int            `json:"balance"`
	Creatures    []creatureDoc  `json:"creatures"`
	MainCreature *creatureDoc   `json:"main_creature,omitempty"`
	CaughtCount  int            `json:"caught_count"`
	Trainer      string         `json:"trainer,omitempty"`
	TrainerLevel int            `json:"trainer_level,omitempty"`
	League       int            `json:"league"`
	Pokeballs    map[string]int `json:"pokeballs"`
	UsedPromos   []string       `json:"used_promocodes,omitempty"`
	Username     string         `json:"username,omitempty"`
}

type tradeDoc struct {
	TradeID        string   `json:"trade_id"`
	InitiatorID    int64    `json:"initiator_id"`
	PartnerID      int64    `json:"partner_id"`
	InitiatorOffer []string `json:"initiator_offer"`
	PartnerOffer   []string `json:"partner_offer"`
	InitiatorOK    bool     `json:"initiator_confirmed"`
	PartnerOK      bool     `json:"partner_confirmed"`
	Status         string   `json:"status"`
}

type battleDoc struct {
	BattleID           string       `json:"battle_id"`
	ChallengerID       int64        `json:"challenger_id"`
	OpponentID         int64        `json:"opponent_id"`
	ChallengerReady    bool         `json:"challenger_ready"`
	OpponentReady      bool         `json:"opponent_ready"`
	ChallengerCreature *creatureDoc `json:"challenger_creature,omitempty"`
	OpponentCreature   *creatureDoc `json:"opponent_creature,omitempty"`
	Status             string       `json:"status"`
}

type promoDoc struct {
	Code        string     `json:"code"`
	RewardKind  string     `json:"reward_kind"`
	Amount      int        `json:"amount,omitempty"`
	Name        string     `json:"name,omitempty"`
	Quantity    int        `json:"quantity,omitempty"`
	RefID       string     `json:"ref_id,omitempty"`
	CreatedBy   int64      `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	MaxUses     *int       `json:"max_uses,omitempty"`
	UseCount    int        `json:"use_count"`
	Description string     `json:"description,omitempty"`
}

func creatureToDoc(c domain.Creature) creatureDoc {
	return creatureDoc{
		CreatureID: c.CreatureID,
		Name:       c.Name,
		Types:      c.Types,
		Attack:     c.Attack,
		Defense:    c.Defense,
		HP:         c.HP,
		ImageURL:   c.ImageURL,
		Custom:     c.Custom,
	}
}

func creatureFromDoc(d creatureDoc) domain.Creature {
	return domain.Creature{
		CreatureID: d.CreatureID,
		Name:       d.Name,
		Types:      d.Types,
		Attack:     d.Attack,
		Defense:    d.Defense,
		HP:         d.HP,
		ImageURL:   d.ImageURL,
		Custom:     d.Custom,
	}
}

func playerToDoc(p *domain.Player) playerDoc {
	doc := playerDoc{
		PlayerID:     p.PlayerID,
		Balance:      p.Balance,
		Creatures:    make([]creatureDoc, 0, len(p.Creatures)),
		CaughtCount:  p.CaughtCount,
		Trainer:      p.Trainer,
		TrainerLevel: p.TrainerLevel,
		League:       p.League,
		Pokeballs:    p.Pokeballs,
		UsedPromos:   p.UsedPromos,
		Username:     p.Username,
	}
	for _, c := range p.Creatures {
		doc.Creatures = append(doc.Creatures, creatureToDoc(c))
	}
	if p.MainCreature != nil {
		mc := creatureToDoc(*p.MainCreature)
		doc.MainCreature = &mc
	}
	return doc
}

func playerFromDoc(d playerDoc, createdAt, updatedAt time.Time) *domain.Player {
	p := &domain.Player{
		PlayerID:     d.PlayerID,
		Balance:      d.Balance,
		Creatures:    make([]domain.Creature, 0, len(d.Creatures)),
		CaughtCount:  d.CaughtCount,
		Trainer:      d.Trainer,
		TrainerLevel: d.TrainerLevel,
		League:       d.League,
		Pokeballs:    d.Pokeballs,
		UsedPromos:   d.UsedPromos,
		Username:     d.Username,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
	if p.League < 1 {
		p.League = 1
	}
	if p.Pokeballs == nil {
		p.Pokeballs = map[string]int{}
	}
	for _, c := range d.Creatures {
		p.Creatures = append(p.Creatures, creatureFromDoc(c))
	}
	if d.MainCreature != nil {
		mc := creatureFromDoc(*d.MainCreature)
		p.MainCreature = &mc
	}
	return p
}
