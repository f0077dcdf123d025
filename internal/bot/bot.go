package bot

import (
	"math/rand/v2"

	"cuatrola-game/internal/game"
	"cuatrola-game/internal/shared"
)

// soloThreshold is the number of strong cards a hand needs before Basic goes solo.
const soloThreshold = 3

// Basic plays the strongest legal card, sings the most valuable canto and goes solo
// on strong Cuatrola hands.
type Basic struct{}

func (Basic) Decide(view game.View) game.Action {
	switch view.Phase {
	case game.Bidding:
		if WantsSolo(view.Hand, view.Trump) {
			return game.BidAction(view.Seat, game.Solo)
		}
		return game.BidAction(view.Seat, game.Paso)
	case game.Declaring:
		if best, ok := shared.BestCanto(view.Cantos); ok {
			return game.DeclareAction(view.Seat, best.Suit)
		}
		return game.DeclineAction(view.Seat)
	default:
		return game.PlayAction(view.Seat, Strongest(view.Legal))
	}
}

// WantsSolo reports whether a hand is strong enough to play alone: three trumps
// including the trump ace or three, or three aces and threes of any suit.
func WantsSolo(hand []shared.Card, trump shared.Suit) bool {
	trumps, topTrump, tops := 0, false, 0
	for _, c := range hand {
		top := c.Number == shared.Ace || c.Number == shared.Three
		if top {
			tops++
		}
		if c.Suit == trump {
			trumps++
			topTrump = topTrump || top
		}
	}
	return (trumps >= soloThreshold && topTrump) || tops >= soloThreshold
}

// Strongest returns the highest-hierarchy card, the first one on ties.
func Strongest(cards []shared.Card) shared.Card {
	var best shared.Card
	for i, c := range cards {
		if i == 0 || c.Hierarchy > best.Hierarchy {
			best = c
		}
	}
	return best
}

// Random passes every bid, plays a random legal card and always sings when it can.
type Random struct {
	Rand *rand.Rand
}

func (r Random) Decide(view game.View) game.Action {
	switch view.Phase {
	case game.Bidding:
		return game.BidAction(view.Seat, game.Paso)
	case game.Declaring:
		if len(view.Cantos) > 0 {
			return game.DeclareAction(view.Seat, view.Cantos[r.intN(len(view.Cantos))].Suit)
		}
		return game.DeclineAction(view.Seat)
	default:
		if len(view.Legal) == 0 {
			return game.PlayAction(view.Seat, shared.Card{})
		}
		return game.PlayAction(view.Seat, view.Legal[r.intN(len(view.Legal))])
	}
}

func (r Random) intN(n int) int {
	if r.Rand == nil {
		return rand.IntN(n)
	}
	return r.Rand.IntN(n)
}
