package shared

// LegalMoves returns the cards of hand that may be played onto trick under trump.
//
// The leader plays anything. A follower must follow the lead suit and beat the
// current winner with it when able, unless the trick is already trumped. Without
// the lead suit a follower must trump, overtrumping when a trump is winning; a
// follower who cannot overtrump, or holds neither suit, plays anything.
func LegalMoves(hand []Card, trick []PlayedCard, trump Suit) []Card {
	if len(trick) == 0 {
		return append([]Card(nil), hand...)
	}

	lead := trick[0].Card.Suit
	winner := CurrentWinner(trick, trump).Card
	winnerTrump := winner.Suit == trump

	if leadCards := filter(hand, func(c Card) bool { return c.Suit == lead }); len(leadCards) > 0 {
		if winnerTrump {
			return leadCards
		}
		if higher := above(leadCards, winner); len(higher) > 0 {
			return higher
		}
		return leadCards
	}

	if trumpCards := filter(hand, func(c Card) bool { return c.Suit == trump }); len(trumpCards) > 0 {
		if !winnerTrump {
			return trumpCards
		}
		if higher := above(trumpCards, winner); len(higher) > 0 {
			return higher
		}
	}

	return append([]Card(nil), hand...)
}

// IsLegal reports whether card is among the legal moves.
func IsLegal(card Card, hand []Card, trick []PlayedCard, trump Suit) bool {
	for _, c := range LegalMoves(hand, trick, trump) {
		if c.Same(card) {
			return true
		}
	}
	return false
}

func filter(cards []Card, keep func(Card) bool) []Card {
	var out []Card
	for _, c := range cards {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

func above(cards []Card, target Card) []Card {
	return filter(cards, func(c Card) bool { return c.Hierarchy > target.Hierarchy })
}
