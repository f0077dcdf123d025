package shared

import (
	"math/rand/v2"

	log "github.com/sirupsen/logrus"
)

// Hand sizes and deck subsets of the two games.
const (
	CuatrolaHandSize = 5
	TuteHandSize     = 8
)

// CuatrolaNumbers are the numbers kept in the 20-card Cuatrola deck.
var CuatrolaNumbers = []int{Ace, Three, Jack, Knight, King}

// Deck represents a collection of cards.
type Deck struct {
	Cards []Card
}

// NewDeck creates the standard 40-card Spanish deck.
func NewDeck() *Deck {
	return newDeckOf(Numbers)
}

// NewCuatrolaDeck creates the 20-card deck used by Cuatrola (1, 3, 10, 11 and 12 of each suit).
func NewCuatrolaDeck() *Deck {
	return newDeckOf(CuatrolaNumbers)
}

func newDeckOf(numbers []int) *Deck {
	cards := make([]Card, 0, len(Suits)*len(numbers))
	for _, suit := range Suits {
		for _, n := range numbers {
			cards = append(cards, NewCard(suit, n))
		}
	}
	return &Deck{Cards: cards}
}

// Shuffled returns a uniformly shuffled copy of the deck. The receiver keeps its order.
// A nil rng uses the global source.
func (d *Deck) Shuffled(rng *rand.Rand) *Deck {
	cards := make([]Card, len(d.Cards))
	copy(cards, d.Cards)
	swap := func(i, j int) { cards[i], cards[j] = cards[j], cards[i] }
	if rng != nil {
		rng.Shuffle(len(cards), swap)
	} else {
		rand.Shuffle(len(cards), swap)
	}
	return &Deck{Cards: cards}
}

// Deal distributes cards to players from the top of the deck. Returns nil if not enough cards.
// Undealt cards stay in the deck.
func (d *Deck) Deal(numPlayers, cardsPerPlayer int) [][]Card {
	totalCardsNeeded := numPlayers * cardsPerPlayer
	if len(d.Cards) < totalCardsNeeded {
		log.Printf("Error: Not enough cards in deck (%d) to deal %d cards to %d players.", len(d.Cards), cardsPerPlayer, numPlayers)
		return nil
	}

	dealt := make([][]Card, numPlayers)
	start := 0
	for i := 0; i < numPlayers; i++ {
		end := start + cardsPerPlayer
		hand := make([]Card, cardsPerPlayer)
		copy(hand, d.Cards[start:end])
		dealt[i] = hand
		start = end
	}

	d.Cards = append([]Card(nil), d.Cards[start:]...)
	return dealt
}

// Deal is one distribution of cards for a hand: what each seat holds, the trump card
// and, in Tute, the draw stock (trump card last).
type Deal struct {
	Hands     [NumSeats][]Card
	TrumpCard Card
	Stock     []Card
}

// Trump returns the trump suit of the deal.
func (d Deal) Trump() Suit { return d.TrumpCard.Suit }

// DealCuatrola deals five cards to each seat from a shuffled 20-card deck. The dealer
// paints trump with the last card dealt to them.
func DealCuatrola(dealer Seat, rng *rand.Rand) Deal {
	deck := NewCuatrolaDeck().Shuffled(rng)
	hands := deck.Deal(NumSeats, CuatrolaHandSize)

	var deal Deal
	for i := range hands {
		deal.Hands[i] = hands[i]
	}
	dealerHand := deal.Hands[dealer]
	deal.TrumpCard = dealerHand[len(dealerHand)-1]
	return deal
}

// DealTute deals eight cards to each seat from a shuffled 40-card deck. The next card is
// turned up as trump and goes to the bottom of the stock.
func DealTute(rng *rand.Rand) Deal {
	deck := NewDeck().Shuffled(rng)
	hands := deck.Deal(NumSeats, TuteHandSize)

	var deal Deal
	for i := range hands {
		deal.Hands[i] = hands[i]
	}
	deal.TrumpCard = deck.Cards[0]
	deal.Stock = append(append([]Card(nil), deck.Cards[1:]...), deal.TrumpCard)
	return deal
}
