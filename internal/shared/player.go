package shared

import "github.com/google/uuid"

// Player holds what one seat owns during a hand: its cards and the cantos it has declared.
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Seat   Seat   `json:"seat"`
	Hand   []Card `json:"hand"`
	Cantos []Suit `json:"cantos"` // suits already sung this hand
}

// NewPlayer creates a player for a seat with an empty hand.
func NewPlayer(name string, seat Seat) *Player {
	return &Player{
		ID:     uuid.NewString(),
		Name:   name,
		Seat:   seat,
		Hand:   []Card{},
		Cantos: []Suit{},
	}
}

// AddCard adds a card to the player's hand.
func (p *Player) AddCard(card Card) {
	p.Hand = append(p.Hand, card)
}

// RemoveCard removes a card from the player's hand.
func (p *Player) RemoveCard(card Card) bool {
	for i, c := range p.Hand {
		if c.Same(card) {
			p.Hand = append(p.Hand[:i:i], p.Hand[i+1:]...)
			return true
		}
	}
	return false
}

// ClearHand empties the hand and returns the cards it held.
func (p *Player) ClearHand() []Card {
	cards := p.Hand
	p.Hand = []Card{}
	return cards
}

// FindCard looks up a card in hand by suit and number.
func (p *Player) FindCard(suit Suit, number int) (Card, bool) {
	for _, card := range p.Hand {
		if card.Suit == suit && card.Number == number {
			return card, true
		}
	}
	return Card{}, false
}

// HasSuit reports whether the hand holds any card of suit.
func (p *Player) HasSuit(suit Suit) bool {
	return hasSuit(p.Hand, suit)
}

// HasSung reports whether the player already declared the canto of suit this hand.
func (p *Player) HasSung(suit Suit) bool {
	for _, s := range p.Cantos {
		if s == suit {
			return true
		}
	}
	return false
}

// Sing records a declared canto. It reports false if the suit was already sung.
func (p *Player) Sing(suit Suit) bool {
	if p.HasSung(suit) {
		return false
	}
	p.Cantos = append(p.Cantos, suit)
	return true
}

func hasSuit(cards []Card, suit Suit) bool {
	for _, c := range cards {
		if c.Suit == suit {
			return true
		}
	}
	return false
}
