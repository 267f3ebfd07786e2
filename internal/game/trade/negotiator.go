// Package trade implements the two-party trade negotiation: offer lists,
// independent confirmations, and the atomic swap on double-confirm.
package trade

import (
	"context"
	"fmt"

	"pokebot/internal/domain"
	"pokebot/internal/game"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type Negotiator struct {
	players game.PlayerStore
	trades  game.TradeStore
	logger  zerolog.Logger
}

func NewNegotiator(players game.PlayerStore, trades game.TradeStore, logger zerolog.Logger) *Negotiator {
	return &Negotiator{players: players, trades: trades, logger: logger}
}

// Open starts a trade session in the pending state.
func (n *Negotiator) Open(ctx context.Context, initiatorID, partnerID int64) (*domain.TradeSession, error) {
	if initiatorID == partnerID {
		return nil, fmt.Errorf("cannot trade with yourself: %w", game.ErrInvalidState)
	}

	initiator, err := n.players.GetOrCreate(ctx, initiatorID)
	if err != nil {
		return nil, err
	}
	partner, err := n.players.GetOrCreate(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	if len(initiator.Creatures) == 0 {
		return nil, fmt.Errorf("initiator has no creatures to trade: %w", game.ErrInvalidState)
	}
	if len(partner.Creatures) == 0 {
		return nil, fmt.Errorf("partner has no creatures to trade: %w", game.ErrInvalidState)
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate trade id: %w", err)
	}

	session := &domain.TradeSession{
		TradeID:     id,
		InitiatorID: initiatorID,
		PartnerID:   partnerID,
		Status:      domain.TradePending,
	}
	if err := n.trades.Save(ctx, session); err != nil {
		return nil, err
	}

	n.logger.Info().
		Str("trade_id", id).
		Int64("initiator_id", initiatorID).
		Int64("partner_id", partnerID).
		Msg("trade opened")

	return session, nil
}

// Respond records the partner's answer to a pending trade request.
func (n *Negotiator) Respond(ctx context.Context, tradeID string, playerID int64, accept bool) (*domain.TradeSession, error) {
	session, err := n.trades.Get(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if session.Status != domain.TradePending {
		return nil, fmt.Errorf("trade is not awaiting a response: %w", game.ErrInvalidState)
	}
	if playerID != session.PartnerID {
		return nil, fmt.Errorf("trade request is not addressed to this player: %w", game.ErrUnauthorized)
	}

	if accept {
		session.Status = domain.TradeNegotiating
	} else {
		session.Status = domain.TradeCancelled
	}
	if err := n.trades.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// AddToOffer appends an owned creature to the caller's offer list.
// Deliberately does not reset the other side's confirmation; see the
// negotiation tests for the pinned behavior.
func (n *Negotiator) AddToOffer(ctx context.Context, tradeID string, playerID int64, creatureID string) (*domain.TradeSession, error) {
	session, err := n.negotiatingSession(ctx, tradeID, playerID)
	if err != nil {
		return nil, err
	}

	player, err := n.players.Get(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if player.CreatureByID(creatureID) == nil {
		return nil, fmt.Errorf("creature not owned by player: %w", game.ErrInvalidState)
	}

	offer := session.Offer(playerID)
	for _, id := range *offer {
		if id == creatureID {
			return nil, fmt.Errorf("creature already offered: %w", game.ErrInvalidState)
		}
	}
	*offer = append(*offer, creatureID)

	if err := n.trades.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// RemoveFromOffer drops a creature from the caller's offer list.
func (n *Negotiator) RemoveFromOffer(ctx context.Context, tradeID string, playerID int64, creatureID string) (*domain.TradeSession, error) {
	session, err := n.negotiatingSession(ctx, tradeID, playerID)
	if err != nil {
		return nil, err
	}

	offer := session.Offer(playerID)
	found := false
	kept := (*offer)[:0]
	for _, id := range *offer {
		if id == creatureID {
			found = true
			continue
		}
		kept = append(kept, id)
	}
	if !found {
		return nil, fmt.Errorf("creature not in offer: %w", game.ErrInvalidState)
	}
	*offer = kept

	if err := n.trades.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Confirm sets the caller's confirmation. When both sides are confirmed in
// the same observation the swap executes and the session completes.
func (n *Negotiator) Confirm(ctx context.Context, tradeID string, playerID int64) (*domain.TradeSession, error) {
	session, err := n.negotiatingSession(ctx, tradeID, playerID)
	if err != nil {
		return nil, err
	}

	if playerID == session.InitiatorID {
		session.InitiatorOK = true
	} else {
		session.PartnerOK = true
	}

	if !session.InitiatorOK || !session.PartnerOK {
		if err := n.trades.Save(ctx, session); err != nil {
			return nil, err
		}
		return session, nil
	}

	if err := n.executeSwap(ctx, session); err != nil {
		return nil, err
	}
	session.Status = domain.TradeCompleted
	if err := n.trades.Save(ctx, session); err != nil {
		return nil, err
	}

	n.logger.Info().
		Str("trade_id", session.TradeID).
		Int("initiator_gave", len(session.InitiatorOffer)).
		Int("partner_gave", len(session.PartnerOffer)).
		Msg("trade completed")

	return session, nil
}

// Cancel aborts the trade at any point before completion. No creatures move.
func (n *Negotiator) Cancel(ctx context.Context, tradeID string, playerID int64) (*domain.TradeSession, error) {
	session, err := n.trades.Get(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if !session.IsParticipant(playerID) {
		return nil, fmt.Errorf("trade %s: %w", tradeID, game.ErrUnauthorized)
	}
	if session.Status == domain.TradeCompleted {
		return nil, fmt.Errorf("trade already completed: %w", game.ErrInvalidState)
	}

	session.Status = domain.TradeCancelled
	if err := n.trades.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (n *Negotiator) negotiatingSession(ctx context.Context, tradeID string, playerID int64) (*domain.TradeSession, error) {
	session, err := n.trades.Get(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if !session.IsParticipant(playerID) {
		return nil, fmt.Errorf("trade %s: %w", tradeID, game.ErrUnauthorized)
	}
	if session.Status != domain.TradeNegotiating {
		return nil, fmt.Errorf("trade is not open for negotiation: %w", game.ErrInvalidState)
	}
	return session, nil
}

// executeSwap reassigns the offered creatures by identity. Ownership is
// validated for every listed id before anything moves, so a stale offer
// aborts the whole swap.
func (n *Negotiator) executeSwap(ctx context.Context, session *domain.TradeSession) error {
	initiator, err := n.players.Get(ctx, session.InitiatorID)
	if err != nil {
		return err
	}
	partner, err := n.players.Get(ctx, session.PartnerID)
	if err != nil {
		return err
	}

	for _, id := range session.InitiatorOffer {
		if initiator.CreatureByID(id) == nil {
			return fmt.Errorf("offered creature %s no longer owned: %w", id, game.ErrInvalidState)
		}
	}
	for _, id := range session.PartnerOffer {
		if partner.CreatureByID(id) == nil {
			return fmt.Errorf("offered creature %s no longer owned: %w", id, game.ErrInvalidState)
		}
	}

	moveCreatures(initiator, partner, session.InitiatorOffer)
	moveCreatures(partner, initiator, session.PartnerOffer)

	if err := n.players.Save(ctx, initiator); err != nil {
		return err
	}
	return n.players.Save(ctx, partner)
}

func moveCreatures(from, to *domain.Player, ids []string) {
	offered := map[string]struct{}{}
	for _, id := range ids {
		offered[id] = struct{}{}
	}

	kept := from.Creatures[:0]
	for _, c := range from.Creatures {
		if _, ok := offered[c.CreatureID]; ok {
			to.Creatures = append(to.Creatures, c)
			continue
		}
		kept = append(kept, c)
	}
	from.Creatures = kept
}
