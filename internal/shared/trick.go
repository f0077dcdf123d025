package shared

import log "github.com/sirupsen/logrus"

// PlayedCard stores a card along with the seat that played it.
type PlayedCard struct {
	Card Card `json:"card"`
	Seat Seat `json:"seat"`
}

// Trick represents the cards played in one turn cycle.
type Trick struct {
	Cards  []PlayedCard // in play order
	Winner *PlayedCard  // set once the trick is resolved
}

// NewTrick creates a new trick instance.
func NewTrick() *Trick {
	return &Trick{Cards: []PlayedCard{}}
}

// AddCard adds a card and the seat that played it.
func (t *Trick) AddCard(card Card, seat Seat) {
	t.Cards = append(t.Cards, PlayedCard{Card: card, Seat: seat})
}

// LeadSuit returns the suit of the first card played, if any.
func (t *Trick) LeadSuit() (Suit, bool) {
	if len(t.Cards) == 0 {
		return "", false
	}
	return t.Cards[0].Card.Suit, true
}

// Points sums the card points in the trick.
func (t *Trick) Points() int {
	total := 0
	for _, pc := range t.Cards {
		total += pc.Card.Points
	}
	return total
}

// DetermineWinner resolves the trick under trump and records the winner.
func (t *Trick) DetermineWinner(trump Suit) PlayedCard {
	if len(t.Cards) == 0 {
		log.Panicf("Error: Cannot determine winner of an empty trick.")
	}
	winner := CurrentWinner(t.Cards, trump)
	t.Winner = &winner
	return winner
}

// CurrentWinner returns the play currently winning a non-empty sequence of plays.
// Trump beats everything else, otherwise only cards of the lead suit can win, and
// within a suit the higher hierarchy wins.
func CurrentWinner(plays []PlayedCard, trump Suit) PlayedCard {
	best := plays[0]
	lead := best.Card.Suit
	for _, pc := range plays[1:] {
		if beats(pc.Card, best.Card, lead, trump) {
			best = pc
		}
	}
	return best
}

// beats reports whether challenger takes the trick from the current best card.
func beats(challenger, best Card, lead, trump Suit) bool {
	challengerTrump := challenger.Suit == trump
	bestTrump := best.Suit == trump
	switch {
	case challengerTrump && !bestTrump:
		return true
	case challengerTrump && bestTrump:
		return challenger.Hierarchy > best.Hierarchy
	case bestTrump:
		return false
	case challenger.Suit != lead:
		return false
	case best.Suit != lead:
		return true
	default:
		return challenger.Hierarchy > best.Hierarchy
	}
}
