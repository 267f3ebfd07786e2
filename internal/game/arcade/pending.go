package arcade

import (
	"context"
	"fmt"
	"sync"

	"pokebot/internal/constants"
	"pokebot/internal/game"
)

// Pending is an open guess or quiz round waiting for the player's answer.
type Pending struct {
	Game     string   `json:"game"`
	Secret   int      `json:"-"`
	Question string   `json:"question"`
	Options  []string `json:"options,omitempty"`
}

// PendingStore holds at most one open round per player. Take removes and
// returns it, so a round can be answered exactly once.
type PendingStore interface {
	Put(playerID int64, p Pending)
	Take(playerID int64) (Pending, bool)
}

type MemoryPending struct {
	mu   sync.Mutex
	open map[int64]Pending
}

func NewMemoryPending() *MemoryPending {
	return &MemoryPending{open: map[int64]Pending{}}
}

func (s *MemoryPending) Put(playerID int64, p Pending) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open[playerID] = p
}

func (s *MemoryPending) Take(playerID int64) (Pending, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.open[playerID]
	if ok {
		delete(s.open, playerID)
	}
	return p, ok
}

// StartGuess opens a guess-the-number round with a secret in 1..10.
func (a *Arcade) StartGuess(playerID int64) (Pending, error) {
	if err := a.checkCooldown(playerID, "guess"); err != nil {
		return Pending{}, err
	}
	p := Pending{
		Game:     "guess",
		Secret:   a.src.Intn(10) + 1,
		Question: "I picked a number between 1 and 10. What is it?",
	}
	a.pending.Put(playerID, p)
	return p, nil
}

// AnswerGuess resolves the open guess round. The cooldown starts at the
// answer, win or lose.
func (a *Arcade) AnswerGuess(ctx context.Context, playerID int64, guess int) (*Payout, error) {
	p, ok := a.pending.Take(playerID)
	if !ok || p.Game != "guess" {
		return nil, fmt.Errorf("no open guess round: %w", game.ErrNotFound)
	}

	won := 0
	detail := fmt.Sprintf("the number was %d", p.Secret)
	if guess == p.Secret {
		won = constants.GuessReward
		detail = "guessed right"
	}
	return a.payout(ctx, playerID, "guess", won, detail)
}

type quizEntry struct {
	question string
	options  []string
	answer   int
}

var quizBank = []quizEntry{
	{"What type is Pikachu?", []string{"Electric", "Water", "Fire", "Grass"}, 0},
	{"What type is Charmander?", []string{"Rock", "Fire", "Ice", "Ghost"}, 1},
	{"What type is Bulbasaur?", []string{"Psychic", "Water", "Grass", "Dragon"}, 2},
	{"What type is Squirtle?", []string{"Fire", "Ground", "Fairy", "Water"}, 3},
	{"What does Magikarp evolve into?", []string{"Gyarados", "Dragonite", "Lapras", "Vaporeon"}, 0},
	{"What does Gastly evolve into?", []string{"Gengar", "Haunter", "Alakazam", "Machamp"}, 1},
	{"What does Charmander evolve into?", []string{"Charizard", "Flareon", "Charmeleon", "Magmar"}, 2},
	{"What does Abra evolve into?", []string{"Hypno", "Mewtwo", "Slowbro", "Kadabra"}, 3},
}

// StartQuiz opens a quiz round with a random question from the bank.
func (a *Arcade) StartQuiz(playerID int64) (Pending, error) {
	if err := a.checkCooldown(playerID, "quiz"); err != nil {
		return Pending{}, err
	}
	entry := quizBank[a.src.Intn(len(quizBank))]
	p := Pending{
		Game:     "quiz",
		Secret:   entry.answer,
		Question: entry.question,
		Options:  entry.options,
	}
	a.pending.Put(playerID, p)
	return p, nil
}

// AnswerQuiz resolves the open quiz round by option index.
func (a *Arcade) AnswerQuiz(ctx context.Context, playerID int64, answer int) (*Payout, error) {
	p, ok := a.pending.Take(playerID)
	if !ok || p.Game != "quiz" {
		return nil, fmt.Errorf("no open quiz round: %w", game.ErrNotFound)
	}

	won := 0
	detail := fmt.Sprintf("correct answer was %s", p.Options[p.Secret])
	if answer == p.Secret {
		won = constants.QuizReward
		detail = "answered right"
	}
	return a.payout(ctx, playerID, "quiz", won, detail)
}
