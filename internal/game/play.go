package game

import (
	"fmt"

	"cuatrola-game/internal/shared"

	log "github.com/sirupsen/logrus"
)

// Apply dispatches an action to the matching command.
func (h *Hand) Apply(a Action) error {
	switch a.Kind {
	case ActionBid:
		return h.Bid(a.Seat, a.Bid)
	case ActionPlay:
		return h.PlayCard(a.Seat, a.Card)
	case ActionDeclare:
		return h.DeclareCanto(a.Seat, a.Suit)
	case ActionDecline:
		return h.DeclineCanto(a.Seat)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, a.Kind)
	}
}

func (h *Hand) checkActor(phase Phase, seat shared.Seat) error {
	if h.Phase != phase {
		return fmt.Errorf("%w: %s during %s", ErrWrongPhase, phase, h.Phase)
	}
	if seat != h.Turn {
		return fmt.Errorf("%w: %s acted, expected %s", ErrNotYourTurn, seat, h.Turn)
	}
	return nil
}

// Bid records seat's bid. A solo bid ends bidding at once and sends the bidder's
// partner out of the hand; otherwise play starts once all four seats have passed.
func (h *Hand) Bid(seat shared.Seat, bid BidType) error {
	if err := h.checkActor(Bidding, seat); err != nil {
		return err
	}
	if !bid.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidBid, bid)
	}

	h.Bids = append(h.Bids, Bid{Seat: seat, Bid: bid})
	log.Debugf("Hand: %s bids %s.", seat, bid)

	if bid == Solo {
		solo := seat
		h.Solo = &solo
		partner := h.Players[seat.Partner()]
		h.Voided = append(h.Voided, partner.ClearHand()...)
		h.startPlay()
		log.Debugf("Hand: %s plays solo, %s sits out.", seat, partner.Seat)
		return nil
	}

	if len(h.Bids) == shared.NumSeats {
		h.startPlay()
		return nil
	}
	h.Turn = seat.Next()
	return nil
}

func (h *Hand) startPlay() {
	h.Phase = Playing
	h.Turn = h.Mano
	if !h.IsActive(h.Turn) {
		h.Turn = h.NextActive(h.Turn)
	}
}

// PlayCard plays card from seat's hand onto the current trick.
func (h *Hand) PlayCard(seat shared.Seat, card shared.Card) error {
	if err := h.checkActor(Playing, seat); err != nil {
		return err
	}
	player := h.Players[seat]
	held, found := player.FindCard(card.Suit, card.Number)
	if !found {
		return fmt.Errorf("%w: %s", ErrCardNotInHand, card)
	}
	if !shared.IsLegal(held, player.Hand, h.Trick.Cards, h.Trump) {
		return fmt.Errorf("%w: %s", ErrIllegalCard, held)
	}

	player.RemoveCard(held)
	h.Trick.AddCard(held, seat)
	log.Debugf("Hand: %s played %s.", seat, held)

	if len(h.Trick.Cards) == h.TrickSize() {
		h.resolveTrick()
		return nil
	}
	h.Turn = h.NextActive(seat)
	return nil
}

// resolveTrick settles a complete trick: credits the winner's team, refills hands
// from the stock and opens the canto window for the winner.
func (h *Hand) resolveTrick() {
	if len(h.Trick.Cards) != h.TrickSize() {
		log.Panicf("Error: resolving trick with %d cards, expected %d.", len(h.Trick.Cards), h.TrickSize())
	}

	winner := h.Trick.DetermineWinner(h.Trump)
	points := h.Trick.Points()
	tally := h.Score.Team(winner.Seat.Team())
	tally.Points += points
	tally.Tricks++
	h.Score.SeatPoints[winner.Seat] += points

	h.Tricks = append(h.Tricks, CompletedTrick{
		Plays:  h.Trick.Cards,
		Winner: winner,
		Points: points,
	})
	h.Trick = shared.NewTrick()
	log.Debugf("Hand: trick %d won by %s with %s (%d points).", len(h.Tricks), winner.Seat, winner.Card, points)

	h.drawFromStock(winner.Seat)
	h.checkInvariants()

	h.Pending = shared.AvailableCantos(winner.Seat, h.Players[winner.Seat].Hand, h.Players[winner.Seat].Cantos, h.Trump)
	if len(h.Pending) > 0 {
		h.Phase = Declaring
		h.Turn = winner.Seat
		return
	}
	h.continueFrom(winner.Seat)
}

// drawFromStock deals one stock card to each seat, winner first, while cards remain.
func (h *Hand) drawFromStock(winner shared.Seat) {
	seat := winner
	for range h.ActiveSeats() {
		if len(h.Stock) == 0 {
			return
		}
		h.Players[seat].AddCard(h.Stock[0])
		h.Stock = h.Stock[1:]
		seat = h.NextActive(seat)
	}
}

// DeclareCanto sings the canto of suit for the seat that just won a trick.
func (h *Hand) DeclareCanto(seat shared.Seat, suit shared.Suit) error {
	if err := h.checkActor(Declaring, seat); err != nil {
		return err
	}
	var canto shared.Canto
	found := false
	for _, c := range h.Pending {
		if c.Suit == suit {
			canto, found = c, true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: %s for %s", ErrCantoUnavailable, suit, seat)
	}

	h.Players[seat].Sing(suit)
	h.Score.Team(seat.Team()).Cantos += canto.Points
	h.CantoLog = append(h.CantoLog, canto)
	log.Debugf("Hand: %s sings las %d in %s.", seat, canto.Points, suit)

	h.Pending = nil
	h.continueFrom(seat)
	return nil
}

// DeclineCanto lets the trick winner pass on the cantos offered.
func (h *Hand) DeclineCanto(seat shared.Seat) error {
	if err := h.checkActor(Declaring, seat); err != nil {
		return err
	}
	h.Pending = nil
	h.continueFrom(seat)
	return nil
}

// continueFrom hands the lead to the trick winner, or ends the hand when every card
// has been played.
func (h *Hand) continueFrom(winner shared.Seat) {
	if h.exhausted() {
		h.finish()
		return
	}
	h.Phase = Playing
	h.Turn = winner
}

func (h *Hand) exhausted() bool {
	if len(h.Stock) > 0 {
		return false
	}
	for _, s := range h.ActiveSeats() {
		if len(h.Players[s].Hand) > 0 {
			return false
		}
	}
	return true
}

func (h *Hand) finish() {
	last, ok := h.LastTrickWinner()
	if !ok {
		log.Panicf("Error: finishing a hand without tricks.")
	}

	outcome := &HandOutcome{
		Variant:         h.Variant,
		Dealer:          h.Dealer,
		Score:           h.Score,
		LastTrickWinner: last,
	}
	if h.Solo != nil {
		solo := *h.Solo
		outcome.Solo = &solo
	}
	switch h.Variant {
	case Cuatrola:
		if len(h.Tricks) != CuatrolaTricks {
			log.Panicf("Error: Cuatrola hand ended after %d tricks.", len(h.Tricks))
		}
		outcome.Totals, outcome.Delta, outcome.Sweep = ScoreCuatrola(h.Score, last, h.IsSolo())
	case Tute:
		outcome.Totals, outcome.Delta = ScoreTute(h.Score)
	}

	h.Outcome = outcome
	h.Phase = HandOver
	log.Debugf("Hand: over, totals %+v, delta %+v.", outcome.Totals, outcome.Delta)
}

// checkInvariants panics if cards were lost or duplicated or trick counts drifted.
func (h *Hand) checkInvariants() {
	if h.Score.Tricks() != len(h.Tricks) {
		log.Panicf("Error: %d tricks scored but %d played.", h.Score.Tricks(), len(h.Tricks))
	}
	count, points := h.countCards()
	if count != h.deckSize || points != h.deckPoints {
		log.Panicf("Error: card conservation broken: %d cards/%d points, expected %d/%d.", count, points, h.deckSize, h.deckPoints)
	}
	seen := map[string]shared.Seat{}
	for _, p := range h.Players {
		for _, c := range p.Hand {
			if other, dup := seen[c.ID()]; dup {
				log.Panicf("Error: card %s held by both %s and %s.", c, other, p.Seat)
			}
			seen[c.ID()] = p.Seat
		}
	}
}
