package shared

// Canto values.
const (
	CantoPoints      = 20
	TrumpCantoPoints = 40
)

// Canto is a declarable King+Knight pair of one suit.
type Canto struct {
	Seat   Seat `json:"seat"`
	Suit   Suit `json:"suit"`
	Points int  `json:"points"`
}

// CantoValue returns the points a canto of suit is worth under trump.
func CantoValue(suit, trump Suit) int {
	if suit == trump {
		return TrumpCantoPoints
	}
	return CantoPoints
}

// AvailableCantos lists the cantos seat can declare with hand: every suit holding both
// the Knight and the King that is not in declared, in canonical suit order.
func AvailableCantos(seat Seat, hand []Card, declared []Suit, trump Suit) []Canto {
	var out []Canto
	for _, suit := range Suits {
		if containsSuit(declared, suit) {
			continue
		}
		if holds(hand, suit, Knight) && holds(hand, suit, King) {
			out = append(out, Canto{Seat: seat, Suit: suit, Points: CantoValue(suit, trump)})
		}
	}
	return out
}

// BestCanto returns the highest valued canto, the first one on ties.
func BestCanto(cantos []Canto) (Canto, bool) {
	if len(cantos) == 0 {
		return Canto{}, false
	}
	best := cantos[0]
	for _, c := range cantos[1:] {
		if c.Points > best.Points {
			best = c
		}
	}
	return best, true
}

func holds(hand []Card, suit Suit, number int) bool {
	for _, c := range hand {
		if c.Suit == suit && c.Number == number {
			return true
		}
	}
	return false
}

func containsSuit(suits []Suit, suit Suit) bool {
	for _, s := range suits {
		if s == suit {
			return true
		}
	}
	return false
}
