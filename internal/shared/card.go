package shared

import "fmt"

// Suit represents the suit of a Spanish card (oros, copas, espadas, bastos).
type Suit string

const (
	Oros    Suit = "oros"
	Copas   Suit = "copas"
	Espadas Suit = "espadas"
	Bastos  Suit = "bastos"
)

// Suits lists every suit in canonical order.
var Suits = []Suit{Oros, Copas, Espadas, Bastos}

// Valid reports whether s is one of the four Spanish suits.
func (s Suit) Valid() bool {
	switch s {
	case Oros, Copas, Espadas, Bastos:
		return true
	}
	return false
}

// Card numbers with a name of their own.
const (
	Ace    = 1
	Three  = 3
	Jack   = 10 // Sota
	Knight = 11 // Caballo
	King   = 12 // Rey
)

// Numbers lists the ten numbers of the 40-card deck (no 8 or 9).
var Numbers = []int{1, 2, 3, 4, 5, 6, 7, 10, 11, 12}

// Card is an immutable Spanish playing card.
type Card struct {
	Suit      Suit `json:"suit"`
	Number    int  `json:"number"`
	Points    int  `json:"points"`    // card points captured in a trick
	Hierarchy int  `json:"hierarchy"` // rank order within a suit (higher wins)
}

// NewCard builds the card for a suit and number with its points and hierarchy filled in.
func NewCard(suit Suit, number int) Card {
	return Card{
		Suit:      suit,
		Number:    number,
		Points:    PointsOf(number),
		Hierarchy: HierarchyOf(number),
	}
}

// PointsOf returns the point value of a card number.
func PointsOf(number int) int {
	switch number {
	case Ace:
		return 11
	case Three:
		return 10
	case King:
		return 4
	case Knight:
		return 3
	case Jack:
		return 2
	default:
		return 0
	}
}

// HierarchyOf returns the trick rank of a card number: 1 > 3 > 12 > 11 > 10 > 7 > 6 > 5 > 4 > 2.
func HierarchyOf(number int) int {
	switch number {
	case Ace:
		return 10
	case Three:
		return 9
	case King:
		return 8
	case Knight:
		return 7
	case Jack:
		return 6
	case 7:
		return 5
	case 6:
		return 4
	case 5:
		return 3
	case 4:
		return 2
	case 2:
		return 1
	default:
		return 0
	}
}

// ID returns the card identity, e.g. "01-oros".
func (c Card) ID() string {
	return fmt.Sprintf("%02d-%s", c.Number, c.Suit)
}

// Name returns the Spanish display name, e.g. "Caballo de copas".
func (c Card) Name() string {
	var n string
	switch c.Number {
	case Ace:
		n = "As"
	case Jack:
		n = "Sota"
	case Knight:
		n = "Caballo"
	case King:
		n = "Rey"
	default:
		n = fmt.Sprint(c.Number)
	}
	return n + " de " + string(c.Suit)
}

func (c Card) String() string { return c.ID() }

// Same reports whether two cards have the same identity.
func (c Card) Same(o Card) bool {
	return c.Suit == o.Suit && c.Number == o.Number
}

// TotalPoints sums the point value of cards.
func TotalPoints(cards []Card) int {
	total := 0
	for _, c := range cards {
		total += c.Points
	}
	return total
}
