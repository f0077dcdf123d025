package game

import (
	"fmt"
	"math/rand/v2"

	"cuatrola-game/internal/shared"
)

// CompletedTrick is a resolved trick kept for the hand's history.
type CompletedTrick struct {
	Plays  []shared.PlayedCard `json:"plays"`
	Winner shared.PlayedCard   `json:"winner"`
	Points int                 `json:"points"`
}

// Hand is the state machine for one dealt hand. It exclusively owns the seats' cards,
// the current trick, the bids and the hand score until the hand is over.
type Hand struct {
	Variant   Variant
	Dealer    shared.Seat
	Mano      shared.Seat // leads the first trick
	Trump     shared.Suit
	TrumpCard shared.Card
	Players   [shared.NumSeats]*shared.Player
	Stock     []shared.Card // Tute draw pile, trump card last
	Voided    []shared.Card // the solo partner's cards, out of play

	Phase    Phase
	Turn     shared.Seat // seat expected to act
	Bids     []Bid
	Solo     *shared.Seat
	Trick    *shared.Trick
	Tricks   []CompletedTrick
	Score    HandScore
	Pending  []shared.Canto // cantos the trick winner may declare now
	CantoLog []shared.Canto
	Outcome  *HandOutcome

	deckSize   int
	deckPoints int
}

// NewHand shuffles and deals a hand of the variant with dealer dealing.
func NewHand(variant Variant, dealer shared.Seat, rng *rand.Rand) *Hand {
	var deal shared.Deal
	if variant == Tute {
		deal = shared.DealTute(rng)
	} else {
		deal = shared.DealCuatrola(dealer, rng)
	}
	h, err := NewHandFromDeal(variant, dealer, deal)
	if err != nil {
		panic(err) // a fresh deal is always valid
	}
	return h
}

// NewHandFromDeal starts a hand from a fixed deal after checking it is complete and
// that no card appears twice.
func NewHandFromDeal(variant Variant, dealer shared.Seat, deal shared.Deal) (*Hand, error) {
	if err := validateDeal(variant, dealer, deal); err != nil {
		return nil, err
	}

	h := &Hand{
		Variant:   variant,
		Dealer:    dealer,
		Mano:      dealer.Next(),
		Trump:     deal.Trump(),
		TrumpCard: deal.TrumpCard,
		Stock:     append([]shared.Card(nil), deal.Stock...),
		Trick:     shared.NewTrick(),
	}
	for _, seat := range shared.Seats {
		p := shared.NewPlayer(seat.String(), seat)
		p.Hand = append(p.Hand, deal.Hands[seat]...)
		h.Players[seat] = p
	}
	h.deckSize, h.deckPoints = h.countCards()

	h.Turn = h.Mano
	if variant.HasBidding() {
		h.Phase = Bidding
	} else {
		h.Phase = Playing
	}
	return h, nil
}

func validateDeal(variant Variant, dealer shared.Seat, deal shared.Deal) error {
	if !variant.Valid() {
		return fmt.Errorf("%w: unknown variant %q", ErrInvalidDeal, variant)
	}
	if !dealer.Valid() {
		return fmt.Errorf("%w: unknown dealer seat %d", ErrInvalidDeal, dealer)
	}

	deck := shared.NewDeck()
	if variant == Cuatrola {
		deck = shared.NewCuatrolaDeck()
	}
	inDeck := map[string]bool{}
	for _, c := range deck.Cards {
		inDeck[c.ID()] = true
	}

	seen := map[string]bool{}
	add := func(c shared.Card) error {
		if !inDeck[c.ID()] {
			return fmt.Errorf("%w: card %s not in the %s deck", ErrInvalidDeal, c, variant)
		}
		if seen[c.ID()] {
			return fmt.Errorf("%w: duplicate card %s", ErrInvalidDeal, c)
		}
		seen[c.ID()] = true
		return nil
	}

	for _, seat := range shared.Seats {
		if len(deal.Hands[seat]) != variant.HandSize() {
			return fmt.Errorf("%w: seat %s must have %d cards", ErrInvalidDeal, seat, variant.HandSize())
		}
		for _, c := range deal.Hands[seat] {
			if err := add(c); err != nil {
				return err
			}
		}
	}
	for _, c := range deal.Stock {
		if err := add(c); err != nil {
			return err
		}
	}
	if len(seen) != len(deck.Cards) {
		return fmt.Errorf("%w: expected %d cards, got %d", ErrInvalidDeal, len(deck.Cards), len(seen))
	}

	switch variant {
	case Cuatrola:
		if !containsCard(deal.Hands[dealer], deal.TrumpCard) {
			return fmt.Errorf("%w: trump card %s not held by dealer", ErrInvalidDeal, deal.TrumpCard)
		}
	case Tute:
		if len(deal.Stock) == 0 || !deal.Stock[len(deal.Stock)-1].Same(deal.TrumpCard) {
			return fmt.Errorf("%w: trump card %s must be the last card of the stock", ErrInvalidDeal, deal.TrumpCard)
		}
	}
	return nil
}

// SetNames sets the display names of the seats.
func (h *Hand) SetNames(names [shared.NumSeats]string) {
	for i, p := range h.Players {
		if names[i] != "" {
			p.Name = names[i]
		}
	}
}

// IsSolo reports whether a seat went solo this hand.
func (h *Hand) IsSolo() bool { return h.Solo != nil }

// IsActive reports whether seat takes part in trick play. Only the solo player's
// partner sits out.
func (h *Hand) IsActive(seat shared.Seat) bool {
	return h.Solo == nil || seat != h.Solo.Partner()
}

// ActiveSeats lists the seats taking part in trick play in turn order from Bottom.
func (h *Hand) ActiveSeats() []shared.Seat {
	seats := make([]shared.Seat, 0, shared.NumSeats)
	for _, s := range shared.Seats {
		if h.IsActive(s) {
			seats = append(seats, s)
		}
	}
	return seats
}

// TrickSize is the number of cards in a complete trick.
func (h *Hand) TrickSize() int { return len(h.ActiveSeats()) }

// NextActive returns the next seat after seat that takes part in play.
func (h *Hand) NextActive(seat shared.Seat) shared.Seat {
	next := seat.Next()
	for !h.IsActive(next) {
		next = next.Next()
	}
	return next
}

// CurrentActor returns the seat expected to act, false once the hand is over.
func (h *Hand) CurrentActor() (shared.Seat, bool) {
	switch h.Phase {
	case Bidding, Playing, Declaring:
		return h.Turn, true
	}
	return 0, false
}

// Finished reports whether the hand has been played out and scored.
func (h *Hand) Finished() bool { return h.Phase == HandOver }

// LegalMoves returns the cards seat may play now, nil when it is not seat's play.
func (h *Hand) LegalMoves(seat shared.Seat) []shared.Card {
	if h.Phase != Playing || seat != h.Turn {
		return nil
	}
	return shared.LegalMoves(h.Players[seat].Hand, h.Trick.Cards, h.Trump)
}

// Cantos returns the cantos seat may declare now.
func (h *Hand) Cantos(seat shared.Seat) []shared.Canto {
	if h.Phase != Declaring || seat != h.Turn {
		return nil
	}
	return append([]shared.Canto(nil), h.Pending...)
}

// LastTrickWinner returns the winner of the most recent trick.
func (h *Hand) LastTrickWinner() (shared.Seat, bool) {
	if len(h.Tricks) == 0 {
		return 0, false
	}
	return h.Tricks[len(h.Tricks)-1].Winner.Seat, true
}

// View is what a seat may see of the hand when deciding its next action.
type View struct {
	Seat       shared.Seat          `json:"seat"`
	Variant    Variant              `json:"variant"`
	Phase      Phase                `json:"phase"`
	Turn       shared.Seat          `json:"turn"`
	Dealer     shared.Seat          `json:"dealer"`
	Mano       shared.Seat          `json:"mano"`
	Trump      shared.Suit          `json:"trump"`
	TrumpCard  shared.Card          `json:"trump_card"`
	Hand       []shared.Card        `json:"hand"`
	HandSizes  [shared.NumSeats]int `json:"hand_sizes"`
	Trick      []shared.PlayedCard  `json:"trick"`
	Legal      []shared.Card        `json:"legal,omitempty"`
	Cantos     []shared.Canto       `json:"cantos,omitempty"`
	Bids       []Bid                `json:"bids,omitempty"`
	Solo       *shared.Seat         `json:"solo,omitempty"`
	StockSize  int                  `json:"stock_size"`
	TricksDone int                  `json:"tricks_done"`
	Score      HandScore            `json:"score"`
	Sung       []shared.Canto       `json:"sung,omitempty"`
}

// ViewFor builds the visible state for seat. Other seats' cards are only counted.
func (h *Hand) ViewFor(seat shared.Seat) View {
	v := View{
		Seat:       seat,
		Variant:    h.Variant,
		Phase:      h.Phase,
		Turn:       h.Turn,
		Dealer:     h.Dealer,
		Mano:       h.Mano,
		Trump:      h.Trump,
		TrumpCard:  h.TrumpCard,
		Hand:       append([]shared.Card(nil), h.Players[seat].Hand...),
		Trick:      append([]shared.PlayedCard(nil), h.Trick.Cards...),
		Legal:      h.LegalMoves(seat),
		Cantos:     h.Cantos(seat),
		Bids:       append([]Bid(nil), h.Bids...),
		StockSize:  len(h.Stock),
		TricksDone: len(h.Tricks),
		Score:      h.Score,
		Sung:       append([]shared.Canto(nil), h.CantoLog...),
	}
	if h.Solo != nil {
		solo := *h.Solo
		v.Solo = &solo
	}
	for i, p := range h.Players {
		v.HandSizes[i] = len(p.Hand)
	}
	return v
}

// countCards returns how many cards are accounted for and their total points.
func (h *Hand) countCards() (int, int) {
	count, points := 0, 0
	add := func(cards []shared.Card) {
		count += len(cards)
		points += shared.TotalPoints(cards)
	}
	for _, p := range h.Players {
		add(p.Hand)
	}
	add(h.Stock)
	add(h.Voided)
	for _, pc := range h.Trick.Cards {
		count++
		points += pc.Card.Points
	}
	for _, t := range h.Tricks {
		count += len(t.Plays)
	}
	points += h.Score.TrickPoints()
	return count, points
}

func containsCard(cards []shared.Card, card shared.Card) bool {
	for _, c := range cards {
		if c.Same(card) {
			return true
		}
	}
	return false
}
