package game

import "cuatrola-game/internal/shared"

// Phase represents the current state of a hand or match.
type Phase string

const (
	Bidding   Phase = "bidding"   // Cuatrola only: seats pass or go solo
	Playing   Phase = "playing"   // Seats are playing tricks
	Declaring Phase = "declaring" // The last trick winner may sing a canto
	HandOver  Phase = "hand-over" // All tricks played, hand scored
	GameOver  Phase = "game-over" // Target score reached
)

// Variant selects the rules of the game being played.
type Variant string

const (
	Cuatrola Variant = "cuatrola"
	Tute     Variant = "tute"
)

// Valid reports whether v is a known variant.
func (v Variant) Valid() bool { return v == Cuatrola || v == Tute }

// HandSize returns the number of cards dealt to each seat.
func (v Variant) HandSize() int {
	if v == Tute {
		return shared.TuteHandSize
	}
	return shared.CuatrolaHandSize
}

// HasBidding reports whether hands of this variant open with a bidding round.
func (v Variant) HasBidding() bool { return v == Cuatrola }

// BidType is a Cuatrola bid.
type BidType string

const (
	Paso BidType = "paso"
	Solo BidType = "solo"
)

// Valid reports whether b is a bid the engine accepts.
func (b BidType) Valid() bool { return b == Paso || b == Solo }

// Bid is one seat's declaration during bidding.
type Bid struct {
	Seat shared.Seat `json:"seat"`
	Bid  BidType     `json:"bid"`
}

// ActionKind names a hand command.
type ActionKind string

const (
	ActionBid     ActionKind = "bid"
	ActionPlay    ActionKind = "play_card"
	ActionDeclare ActionKind = "declare_canto"
	ActionDecline ActionKind = "decline_canto"
)

// Action is a single command issued by a seat. Only the fields relevant to Kind are read.
type Action struct {
	Kind ActionKind
	Seat shared.Seat
	Bid  BidType
	Card shared.Card
	Suit shared.Suit
}

// BidAction builds a bid action.
func BidAction(seat shared.Seat, bid BidType) Action {
	return Action{Kind: ActionBid, Seat: seat, Bid: bid}
}

// PlayAction builds a play action.
func PlayAction(seat shared.Seat, card shared.Card) Action {
	return Action{Kind: ActionPlay, Seat: seat, Card: card}
}

// DeclareAction builds a canto declaration.
func DeclareAction(seat shared.Seat, suit shared.Suit) Action {
	return Action{Kind: ActionDeclare, Seat: seat, Suit: suit}
}

// DeclineAction builds a canto refusal.
func DeclineAction(seat shared.Seat) Action {
	return Action{Kind: ActionDecline, Seat: seat}
}
