package game

import (
	"fmt"
	"math/rand/v2"

	"cuatrola-game/internal/shared"

	log "github.com/sirupsen/logrus"
)

// Match runs consecutive hands and owns the cumulative team scores.
type Match struct {
	Variant     Variant
	Target      int // cumulative score that ends the game, 0 for none
	Scores      TeamPoints
	Dealer      shared.Seat
	Hand        *Hand
	HandsPlayed int
	History     []HandOutcome
	Over        bool
	Winner      shared.TeamEnum
	Names       [shared.NumSeats]string

	settled bool // current hand's outcome already applied
	rng     *rand.Rand
	dealFn  func(variant Variant, dealer shared.Seat) *Hand
}

// DefaultTarget returns the game-ending score of a variant.
func DefaultTarget(variant Variant) int {
	if variant == Cuatrola {
		return CuatrolaTarget
	}
	return 0
}

// NewMatch starts a match and deals its first hand. Bottom deals first.
func NewMatch(variant Variant, target int, names [shared.NumSeats]string, rng *rand.Rand) *Match {
	m := &Match{
		Variant: variant,
		Target:  target,
		Dealer:  shared.Bottom,
		Names:   names,
		rng:     rng,
	}
	m.dealFn = func(v Variant, dealer shared.Seat) *Hand { return NewHand(v, dealer, m.rng) }
	m.deal()
	return m
}

// NewMatchWithDeals starts a match whose hands come from deals, one per hand, for
// replaying fixed games.
func NewMatchWithDeals(variant Variant, target int, deals []shared.Deal) (*Match, error) {
	m := &Match{Variant: variant, Target: target, Dealer: shared.Bottom}
	next := 0
	var dealErr error
	m.dealFn = func(v Variant, dealer shared.Seat) *Hand {
		if next >= len(deals) {
			dealErr = fmt.Errorf("%w: no deal left for hand %d", ErrInvalidDeal, next+1)
			return nil
		}
		h, err := NewHandFromDeal(v, dealer, deals[next])
		next++
		if err != nil {
			dealErr = err
			return nil
		}
		return h
	}
	m.deal()
	if dealErr != nil {
		return nil, dealErr
	}
	return m, nil
}

func (m *Match) deal() {
	h := m.dealFn(m.Variant, m.Dealer)
	if h == nil {
		return
	}
	h.SetNames(m.Names)
	m.Hand = h
	m.settled = false
	log.Debugf("Match: dealt hand %d, dealer %s, trump %s.", m.HandsPlayed+1, m.Dealer, h.Trump)
}

// Phase reports the match-level phase: GameOver once a team reached the target,
// otherwise the current hand's phase.
func (m *Match) Phase() Phase {
	if m.Over {
		return GameOver
	}
	return m.Hand.Phase
}

// Apply runs an action on the current hand and settles the hand once it is over.
func (m *Match) Apply(a Action) error {
	if m.Over {
		return ErrGameOver
	}
	if err := m.Hand.Apply(a); err != nil {
		return err
	}
	if m.Hand.Finished() && !m.settled {
		m.settle()
	}
	return nil
}

// settle folds the finished hand into the cumulative scores. It runs once per hand.
func (m *Match) settle() {
	outcome := *m.Hand.Outcome
	next, over := ApplyHandResult(m.Scores, outcome.Delta, m.Target)
	m.Scores = next
	m.History = append(m.History, outcome)
	m.HandsPlayed++
	m.settled = true
	log.Printf("Match: hand %d over, delta %+v, scores %+v.", m.HandsPlayed, outcome.Delta, m.Scores)

	if over {
		m.Over = true
		if leader, ok := m.Scores.Leader(); ok {
			m.Winner = leader
		} else {
			m.Winner = outcome.LastTrickWinner.Team()
		}
		log.Printf("Match: game over, team %d wins %+v.", m.Winner, m.Scores)
	}
}

// AdvanceToNextHand passes the deal to the next seat and deals a new hand.
func (m *Match) AdvanceToNextHand() error {
	if m.Over {
		return ErrGameOver
	}
	if !m.Hand.Finished() {
		return ErrHandInProgress
	}
	prevDealer := m.Dealer
	m.Dealer = m.Dealer.Next()
	prev := m.Hand
	m.deal()
	if m.Hand == prev {
		m.Dealer = prevDealer
		return fmt.Errorf("%w: could not deal next hand", ErrInvalidDeal)
	}
	return nil
}

// Restart clears the scores and history and deals a fresh first hand.
func (m *Match) Restart() {
	m.Scores = TeamPoints{}
	m.History = nil
	m.HandsPlayed = 0
	m.Over = false
	m.Winner = 0
	m.Dealer = shared.Bottom
	m.deal()
}
