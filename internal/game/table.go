package game

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"cuatrola-game/internal/protocol"
	"cuatrola-game/internal/shared"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// maxBotSteps bounds the bot actions run for one command. A full Tute hand plus
// its cantos is far below it.
const maxBotSteps = 500

// Decider picks the next action for a seat that is not played by a human.
type Decider interface {
	Decide(view View) Action
}

// MatchResult is the summary of a finished match handed to a ResultRecorder.
type MatchResult struct {
	ID         string
	TableID    string
	Variant    Variant
	PlayerName string
	Team1Score int
	Team2Score int
	Winner     shared.TeamEnum
	Hands      int
	FinishedAt time.Time
}

// ResultRecorder stores finished matches.
type ResultRecorder interface {
	RecordResult(result MatchResult) error
}

// RecorderFunc adapts a function to ResultRecorder.
type RecorderFunc func(result MatchResult) error

func (f RecorderFunc) RecordResult(result MatchResult) error { return f(result) }

// MessageSender defines the function signature for sending messages back to clients.
// The Hub will provide an implementation of this.
type MessageSender func(clientID string, message []byte)

// TableOptions configures a new table.
type TableOptions struct {
	Variant  Variant
	Target   int // 0 uses the variant default, negative plays without a target
	HumanID  string
	Names    [shared.NumSeats]string
	Deciders [shared.NumSeats]Decider // nil marks a seat driven by commands
	Recorder ResultRecorder
	Rand     *rand.Rand
	Deals    []shared.Deal // fixed deals, one per hand, instead of shuffling
}

// Table runs a match for one human at bottom against decider-driven seats and
// pushes every event to the human's client.
type Table struct {
	ID      string
	Match   *Match
	HumanID string
	Human   shared.Seat
	Teams   [2]*shared.Team

	seatIDs  [shared.NumSeats]string
	deciders [shared.NumSeats]Decider
	recorder ResultRecorder

	mu          sync.Mutex
	settling    atomic.Bool
	sendMessage MessageSender

	// events already pushed for the current hand and match
	hand       *Hand
	bidsSent   int
	tricksSent int
	cantosSent int
	handsSent  int
	overSent   bool
}

// NewTable creates a table and deals its first hand. Nothing is sent before Start.
func NewTable(opts TableOptions) (*Table, error) {
	if !opts.Variant.Valid() {
		return nil, fmt.Errorf("unknown variant %q", opts.Variant)
	}
	target := opts.Target
	switch {
	case target == 0:
		target = DefaultTarget(opts.Variant)
	case target < 0:
		target = 0
	}

	var match *Match
	if len(opts.Deals) > 0 {
		m, err := NewMatchWithDeals(opts.Variant, target, opts.Deals)
		if err != nil {
			return nil, err
		}
		m.Names = opts.Names
		m.Hand.SetNames(opts.Names)
		match = m
	} else {
		match = NewMatch(opts.Variant, target, opts.Names, opts.Rand)
	}

	t := &Table{
		ID:       uuid.NewString(),
		Match:    match,
		HumanID:  opts.HumanID,
		Human:    shared.Bottom,
		Teams:    [2]*shared.Team{shared.NewTeam(shared.Team1), shared.NewTeam(shared.Team2)},
		deciders: opts.Deciders,
		recorder: opts.Recorder,
		hand:     match.Hand,
	}
	for _, seat := range shared.Seats {
		t.seatIDs[seat] = uuid.NewString()
	}
	if t.HumanID != "" {
		t.seatIDs[t.Human] = t.HumanID
	}
	log.WithFields(log.Fields{"table": t.ID, "variant": opts.Variant, "target": target}).Info("Table created.")
	return t, nil
}

// Start announces the table to the human and lets the bots act until a human
// decision is needed.
func (t *Table) Start(sender MessageSender) error {
	t.mu.Lock()
	t.sendMessage = sender
	t.mu.Unlock()

	return t.command(func() error {
		log.Printf("Table %s: Starting match.", t.ID)
		t.broadcast(t.gameStartMessage())
		return nil
	})
}

// command runs fn under the table lock, then flushes events and drives the bots.
// A command issued while another one is still settling, typically from inside a
// MessageSender or Decider callback, is rejected with ErrBusy.
func (t *Table) command(fn func() error) error {
	if !t.settling.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer t.settling.Store(false)

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := fn(); err != nil {
		return err
	}
	t.flushEvents()
	t.runBots()
	t.broadcastGameState()
	return nil
}

// Bid places a bid for seat.
func (t *Table) Bid(seat shared.Seat, bid BidType) error {
	return t.command(func() error { return t.Match.Apply(BidAction(seat, bid)) })
}

// PlayCard plays card for seat.
func (t *Table) PlayCard(seat shared.Seat, card shared.Card) error {
	return t.command(func() error { return t.Match.Apply(PlayAction(seat, card)) })
}

// DeclareCanto sings the canto of suit for seat.
func (t *Table) DeclareCanto(seat shared.Seat, suit shared.Suit) error {
	return t.command(func() error { return t.Match.Apply(DeclareAction(seat, suit)) })
}

// DeclineCanto passes on the offered cantos for seat.
func (t *Table) DeclineCanto(seat shared.Seat) error {
	return t.command(func() error { return t.Match.Apply(DeclineAction(seat)) })
}

// AdvanceToNextHand deals the next hand once the current one is over.
func (t *Table) AdvanceToNextHand() error {
	return t.command(t.Match.AdvanceToNextHand)
}

// RestartGame resets the match scores and deals a fresh first hand.
func (t *Table) RestartGame() error {
	return t.command(func() error {
		t.Match.Restart()
		for _, team := range t.Teams {
			team.ResetScore()
		}
		t.handsSent = 0
		t.overSent = false
		log.Printf("Table %s: Match restarted.", t.ID)
		return nil
	})
}

// runBots applies decider actions while a decider-driven seat is to act.
// Assumes lock is held.
func (t *Table) runBots() {
	for step := 0; step < maxBotSteps; step++ {
		if t.Match.Over {
			return
		}
		h := t.Match.Hand
		seat, ok := h.CurrentActor()
		if !ok {
			return
		}
		decider := t.deciders[seat]
		if decider == nil {
			return
		}

		action := decider.Decide(h.ViewFor(seat))
		action.Seat = seat
		if err := t.Match.Apply(action); err != nil {
			log.WithFields(log.Fields{"table": t.ID, "seat": seat, "action": action.Kind}).Warnf("Bot action rejected: %v", err)
			fallback, ok := fallbackAction(h, seat)
			if !ok {
				log.Panicf("Table %s: no action available for %s in %s.", t.ID, seat, h.Phase)
			}
			if err := t.Match.Apply(fallback); err != nil {
				log.Panicf("Table %s: fallback action for %s rejected: %v", t.ID, seat, err)
			}
		}
		t.flushEvents()
	}
	log.Errorf("Table %s: bots still acting after %d steps.", t.ID, maxBotSteps)
}

// fallbackAction is the simplest action always accepted from seat.
func fallbackAction(h *Hand, seat shared.Seat) (Action, bool) {
	switch h.Phase {
	case Bidding:
		return BidAction(seat, Paso), true
	case Playing:
		legal := h.LegalMoves(seat)
		if len(legal) == 0 {
			return Action{}, false
		}
		return PlayAction(seat, legal[0]), true
	case Declaring:
		return DeclineAction(seat), true
	}
	return Action{}, false
}

// flushEvents pushes the bids, tricks, cantos and hand results that happened since
// the last flush. Assumes lock is held.
func (t *Table) flushEvents() {
	h := t.Match.Hand
	if h != t.hand {
		t.hand = h
		t.bidsSent, t.tricksSent, t.cantosSent = 0, 0, 0
	}

	for ; t.bidsSent < len(h.Bids); t.bidsSent++ {
		b := h.Bids[t.bidsSent]
		t.notify(protocol.TypeBidMade, protocol.BidMadePayload{Seat: b.Seat, Bid: string(b.Bid)})
	}
	for ; t.tricksSent < len(h.Tricks); t.tricksSent++ {
		tr := h.Tricks[t.tricksSent]
		t.notify(protocol.TypeTrickEnd, protocol.TrickEndPayload{
			Number: t.tricksSent + 1,
			Winner: tr.Winner,
			Cards:  tr.Plays,
			Points: tr.Points,
		})
	}
	for ; t.cantosSent < len(h.CantoLog); t.cantosSent++ {
		c := h.CantoLog[t.cantosSent]
		t.notify(protocol.TypeCanto, protocol.CantoPayload{Seat: c.Seat, Suit: c.Suit, Points: c.Points})
	}
	for ; t.handsSent < len(t.Match.History); t.handsSent++ {
		t.handEnd(t.Match.History[t.handsSent])
	}
	if t.Match.Over && !t.overSent {
		t.overSent = true
		t.gameOver()
	}
}

func (t *Table) handEnd(outcome HandOutcome) {
	for i, team := range t.Teams {
		team.AddScore(outcome.Delta.Of(shared.Teams[i]))
	}
	log.Printf("Table %s: Hand ended. Delta %d-%d, total %d-%d.", t.ID,
		outcome.Delta.Team1, outcome.Delta.Team2, t.Teams[0].Score, t.Teams[1].Score)
	t.notify(protocol.TypeHandEnd, protocol.HandEndPayload{
		Team1HandTotal:  outcome.Totals.Team1,
		Team2HandTotal:  outcome.Totals.Team2,
		Team1Delta:      outcome.Delta.Team1,
		Team2Delta:      outcome.Delta.Team2,
		Team1TotalScore: t.Teams[0].Score,
		Team2TotalScore: t.Teams[1].Score,
		LastTrickWinner: outcome.LastTrickWinner,
		Sweep:           outcome.Sweep,
		Solo:            outcome.Solo != nil,
	})
}

func (t *Table) gameOver() {
	winner := t.Teams[t.Match.Winner-1]
	log.Printf("Table %s: Game Over! Team %d (ID: %s) wins.", t.ID, winner.TeamNumber, winner.ID)
	t.notify(protocol.TypeGameOver, protocol.GameOverPayload{
		WinningTeamID: winner.ID,
		WinningTeam:   int(winner.TeamNumber),
		FinalScoreT1:  t.Match.Scores.Team1,
		FinalScoreT2:  t.Match.Scores.Team2,
	})

	if t.recorder == nil {
		return
	}
	result := MatchResult{
		ID:         uuid.NewString(),
		TableID:    t.ID,
		Variant:    t.Match.Variant,
		PlayerName: t.Match.Names[t.Human],
		Team1Score: t.Match.Scores.Team1,
		Team2Score: t.Match.Scores.Team2,
		Winner:     t.Match.Winner,
		Hands:      t.Match.HandsPlayed,
		FinishedAt: time.Now().UTC(),
	}
	if err := t.recorder.RecordResult(result); err != nil {
		log.WithError(err).WithField("table", t.ID).Error("Failed to record match result.")
	}
}

// TableState is a seat's view of the current hand plus the match standing.
type TableState struct {
	View
	MatchPhase  Phase           `json:"match_phase"`
	Scores      TeamPoints      `json:"scores"`
	Target      int             `json:"target"`
	HandsPlayed int             `json:"hands_played"`
	Winner      shared.TeamEnum `json:"winner,omitempty"`
}

// State returns what seat can see of the table. It must not be called from a
// MessageSender or Decider, which run with the table locked.
func (t *Table) State(seat shared.Seat) TableState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stateFor(seat)
}

func (t *Table) stateFor(seat shared.Seat) TableState {
	return TableState{
		View:        t.Match.Hand.ViewFor(seat),
		MatchPhase:  t.Match.Phase(),
		Scores:      t.Match.Scores,
		Target:      t.Match.Target,
		HandsPlayed: t.Match.HandsPlayed,
		Winner:      t.Match.Winner,
	}
}

// LegalMoves returns the cards seat may play now.
func (t *Table) LegalMoves(seat shared.Seat) []shared.Card {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.Match.Hand.LegalMoves(seat)
}

// Cantos returns the cantos seat may declare now.
func (t *Table) Cantos(seat shared.Seat) []shared.Canto {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.Match.Hand.Cantos(seat)
}

// HandlePlayerAction processes an incoming message from the human's client.
func (t *Table) HandlePlayerAction(clientID string, msg protocol.Message) {
	if clientID != t.HumanID {
		log.Printf("Table %s: Action from unknown client ID %s", t.ID, clientID)
		return
	}

	var err error
	switch msg.Type {
	case protocol.TypeBid:
		var payload protocol.BidPayload
		if err = msg.Decode(&payload); err == nil {
			err = t.Bid(t.Human, BidType(payload.Bid))
		}
	case protocol.TypePlayCard:
		var payload protocol.PlayCardPayload
		if err = msg.Decode(&payload); err == nil {
			err = t.PlayCard(t.Human, shared.NewCard(payload.Suit, payload.Number))
		}
	case protocol.TypeDeclareCanto:
		var payload protocol.DeclareCantoPayload
		if err = msg.Decode(&payload); err == nil {
			err = t.DeclareCanto(t.Human, payload.Suit)
		}
	case protocol.TypeDeclineCanto:
		err = t.DeclineCanto(t.Human)
	case protocol.TypeNextHand:
		err = t.AdvanceToNextHand()
	case protocol.TypeRestartGame:
		err = t.RestartGame()
	default:
		log.Printf("Table %s: Received unhandled action type '%s' from %s", t.ID, msg.Type, clientID)
		t.sendErrorToPlayer(clientID, "Unknown action.")
		return
	}

	if err != nil {
		log.WithFields(log.Fields{"table": t.ID, "type": msg.Type}).Infof("Action rejected: %v", err)
		t.sendErrorToPlayer(clientID, errorMessage(err))
	}
}

// errorMessage turns a rejection into the text shown to the player.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, ErrNotYourTurn):
		return "Not your turn."
	case errors.Is(err, ErrIllegalCard):
		return "Invalid move."
	case errors.Is(err, ErrCardNotInHand):
		return "Card not in your hand."
	case errors.Is(err, ErrGameOver):
		return "Game is already over."
	case errors.Is(err, ErrBusy):
		return "Please wait."
	}
	return err.Error()
}

// --- Messaging Helpers (Assume lock is held or called safely) ---

func (t *Table) gameStartMessage() []byte {
	players := make([]protocol.PlayerInfo, shared.NumSeats)
	for _, seat := range shared.Seats {
		players[seat] = protocol.PlayerInfo{
			ID:   t.seatIDs[seat],
			Name: t.Match.Hand.Players[seat].Name,
			Seat: seat,
			Bot:  t.deciders[seat] != nil,
		}
	}
	teams := make([]protocol.TeamInfo, len(t.Teams))
	for i, team := range t.Teams {
		teams[i] = protocol.TeamInfo{
			ID:         team.ID,
			Players:    []protocol.PlayerInfo{players[team.Seats[0]], players[team.Seats[1]]},
			Score:      team.Score,
			TeamNumber: int(team.TeamNumber),
		}
	}
	msg, err := protocol.NewMessage(protocol.TypeGameStart, protocol.GameStartPayload{
		GameID:     t.ID,
		Variant:    string(t.Match.Variant),
		Players:    players,
		Teams:      teams,
		PointsGoal: t.Match.Target,
	})
	if err != nil {
		log.Printf("Table %s: Error creating game_start message: %v", t.ID, err)
	}
	return msg
}

// broadcastGameState sends the human's view of the table.
func (t *Table) broadcastGameState() {
	s := t.stateFor(t.Human)
	payload := protocol.GameStatePayload{
		GameState:   string(s.MatchPhase),
		Dealer:      s.Dealer,
		Trump:       s.Trump,
		TrumpCard:   s.TrumpCard,
		Hand:        s.Hand,
		HandSizes:   s.HandSizes[:],
		Trick:       s.Trick,
		ValidMoves:  s.Legal,
		Cantos:      s.Cantos,
		Solo:        s.Solo,
		StockSize:   s.StockSize,
		TricksDone:  s.TricksDone,
		Team1Hand:   tallyInfo(s.Score.Team1),
		Team2Hand:   tallyInfo(s.Score.Team2),
		Team1Score:  s.Scores.Team1,
		Team2Score:  s.Scores.Team2,
		HandsPlayed: s.HandsPlayed,
	}
	if seat, ok := t.Match.Hand.CurrentActor(); ok && !t.Match.Over {
		payload.CurrentSeat = &seat
	}
	t.notify(protocol.TypeState, payload)
}

func tallyInfo(tally TeamTally) protocol.TallyInfo {
	return protocol.TallyInfo{Points: tally.Points, Tricks: tally.Tricks, Cantos: tally.Cantos}
}

func (t *Table) notify(msgType string, payload interface{}) {
	msg, err := protocol.NewMessage(msgType, payload)
	if err != nil {
		log.Printf("Table %s: Error creating %s message: %v", t.ID, msgType, err)
		return
	}
	t.broadcast(msg)
}

// broadcast sends a message to the human seat. Bots have no connection.
func (t *Table) broadcast(message []byte) {
	if t.HumanID == "" || message == nil {
		return
	}
	t.sendToPlayer(t.HumanID, message)
}

// sendToPlayer sends a message to a specific player by ID.
func (t *Table) sendToPlayer(playerID string, message []byte) {
	if t.sendMessage == nil {
		log.Printf("Table %s: Error - sendMessage callback is nil when sending to %s.", t.ID, playerID)
		return
	}
	t.sendMessage(playerID, message)
}

// sendErrorToPlayer sends an error message to a specific player.
func (t *Table) sendErrorToPlayer(playerID string, errorMsg string) {
	msgBytes, err := protocol.NewMessage(protocol.TypeError, protocol.ErrorPayload{Message: errorMsg})
	if err != nil {
		log.Printf("Table %s: Error creating error message: %v", t.ID, err)
		return
	}
	t.sendToPlayer(playerID, msgBytes)
}
