package game

import (
	"encoding/json"
	"math/rand/v2"
	"sync"
	"testing"

	"cuatrola-game/internal/protocol"
	"cuatrola-game/internal/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// firstLegal passes every bid, plays its first legal card and declines cantos.
type firstLegal struct{}

func (firstLegal) Decide(view View) Action {
	switch view.Phase {
	case Bidding:
		return BidAction(view.Seat, Paso)
	case Declaring:
		return DeclineAction(view.Seat)
	}
	return PlayAction(view.Seat, view.Legal[0])
}

// illegal always tries a card it does not hold.
type illegal struct{}

func (illegal) Decide(view View) Action {
	return PlayAction(view.Seat, card(shared.Copas, 7))
}

type outbox struct {
	mu       sync.Mutex
	messages []protocol.Message
}

func (o *outbox) send(clientID string, message []byte) {
	var msg protocol.Message
	if err := json.Unmarshal(message, &msg); err != nil {
		panic(err)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.messages = append(o.messages, msg)
}

func (o *outbox) types() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []string
	for _, m := range o.messages {
		out = append(out, m.Type)
	}
	return out
}

func (o *outbox) count(msgType string) int {
	n := 0
	for _, t := range o.types() {
		if t == msgType {
			n++
		}
	}
	return n
}

func (o *outbox) last(msgType string) protocol.Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := len(o.messages) - 1; i >= 0; i-- {
		if o.messages[i].Type == msgType {
			return o.messages[i]
		}
	}
	return protocol.Message{}
}

func botSeats(d Decider) [shared.NumSeats]Decider {
	return [shared.NumSeats]Decider{nil, d, d, d}
}

func TestTableRunsBotsUntilHumanTurn(t *testing.T) {
	table, err := NewTable(TableOptions{
		Variant:  Cuatrola,
		HumanID:  "human",
		Names:    [shared.NumSeats]string{"Ana", "Daniel", "Lucía", "Hugo"},
		Deciders: botSeats(firstLegal{}),
		Deals:    []shared.Deal{splitDeal()},
	})
	require.NoError(t, err)
	out := &outbox{}
	require.NoError(t, table.Start(out.send))

	types := out.types()
	require.NotEmpty(t, types)
	assert.Equal(t, protocol.TypeGameStart, types[0])
	assert.Equal(t, 3, out.count(protocol.TypeBidMade))

	state := table.State(shared.Bottom)
	assert.Equal(t, Bidding, state.Phase)
	assert.Equal(t, shared.Bottom, state.Turn)
	assert.Equal(t, CuatrolaTarget, state.Target)

	var start protocol.GameStartPayload
	require.NoError(t, out.messages[0].Decode(&start))
	assert.Equal(t, "human", start.Players[shared.Bottom].ID)
	assert.Equal(t, "Lucía", start.Players[shared.Top].Name)
	assert.True(t, start.Players[shared.Left].Bot)
	assert.False(t, start.Players[shared.Bottom].Bot)

	require.NoError(t, table.Bid(shared.Bottom, Paso))
	// Left leads copas 1, Top follows, Right trumps: Bottom is to play.
	state = table.State(shared.Bottom)
	assert.Equal(t, Playing, state.Phase)
	assert.Equal(t, shared.Bottom, state.Turn)
	assert.Len(t, state.Trick, 3)
	assert.Equal(t, []shared.Card{card(shared.Copas, 11), card(shared.Copas, 12)}, table.LegalMoves(shared.Bottom))
	assert.Nil(t, table.Cantos(shared.Bottom))

	assert.ErrorIs(t, table.PlayCard(shared.Bottom, card(shared.Oros, 10)), ErrIllegalCard)

	for !table.Match.Hand.Finished() {
		s := table.State(shared.Bottom)
		switch s.Phase {
		case Playing:
			require.NoError(t, table.PlayCard(shared.Bottom, s.Legal[0]))
		case Declaring:
			require.NoError(t, table.DeclineCanto(shared.Bottom))
		default:
			t.Fatalf("unexpected phase %s", s.Phase)
		}
	}

	assert.Equal(t, 5, out.count(protocol.TypeTrickEnd))
	assert.Equal(t, 1, out.count(protocol.TypeHandEnd))
	assert.Equal(t, 0, out.count(protocol.TypeGameOver))

	var end protocol.HandEndPayload
	require.NoError(t, out.last(protocol.TypeHandEnd).Decode(&end))
	assert.Equal(t, table.Match.History[0].Delta.Team1, end.Team1Delta)
	assert.Equal(t, table.Teams[0].Score, end.Team1TotalScore)

	assert.ErrorIs(t, table.AdvanceToNextHand(), ErrInvalidDeal, "only one fixed deal was given")
}

func TestTableRejectsReentrantCommands(t *testing.T) {
	table, err := NewTable(TableOptions{Variant: Cuatrola, HumanID: "human", Deciders: botSeats(firstLegal{}), Rand: rand.New(rand.NewPCG(2, 3))})
	require.NoError(t, err)

	var inner []error
	sender := func(clientID string, message []byte) {
		inner = append(inner, table.Bid(shared.Bottom, Paso))
	}
	require.NoError(t, table.Start(sender))

	require.NotEmpty(t, inner)
	for _, err := range inner {
		assert.ErrorIs(t, err, ErrBusy)
	}
	assert.Equal(t, Bidding, table.State(shared.Bottom).Phase, "re-entrant bids have no effect")
	assert.Equal(t, shared.Bottom, table.State(shared.Bottom).Turn)
}

func TestTableFallsBackOnRejectedBotAction(t *testing.T) {
	table, err := NewTable(TableOptions{Variant: Tute, Deciders: [shared.NumSeats]Decider{illegal{}, illegal{}, illegal{}, illegal{}}, Rand: rand.New(rand.NewPCG(4, 5))})
	require.NoError(t, err)
	require.NoError(t, table.Start(nil))

	assert.True(t, table.Match.Hand.Finished())
	assert.Len(t, table.Match.Hand.Tricks, 10)
	assert.Equal(t, 1, table.Match.HandsPlayed)
}

func TestTableRecordsResultOnce(t *testing.T) {
	var results []MatchResult
	table, err := NewTable(TableOptions{
		Variant:  Cuatrola,
		Target:   1,
		Names:    [shared.NumSeats]string{"Ana"},
		Deciders: [shared.NumSeats]Decider{firstLegal{}, firstLegal{}, firstLegal{}, firstLegal{}},
		Recorder: RecorderFunc(func(r MatchResult) error {
			results = append(results, r)
			return nil
		}),
		Rand: rand.New(rand.NewPCG(6, 7)),
	})
	require.NoError(t, err)
	require.NoError(t, table.Start(nil))

	require.True(t, table.Match.Over)
	require.Len(t, results, 1)
	r := results[0]
	assert.Equal(t, table.ID, r.TableID)
	assert.Equal(t, "Ana", r.PlayerName)
	assert.Equal(t, Cuatrola, r.Variant)
	assert.Equal(t, table.Match.Winner, r.Winner)
	assert.Equal(t, 1, r.Hands)
	assert.Equal(t, table.Match.Scores.Team1, r.Team1Score)

	assert.ErrorIs(t, table.AdvanceToNextHand(), ErrGameOver)
	assert.Len(t, results, 1)

	require.NoError(t, table.RestartGame())
	assert.Len(t, results, 2, "a restarted all-bot match plays to the end again")
}

func TestHandlePlayerAction(t *testing.T) {
	table, err := NewTable(TableOptions{
		Variant:  Cuatrola,
		HumanID:  "human",
		Deciders: botSeats(firstLegal{}),
		Deals:    []shared.Deal{sweepDeal()},
	})
	require.NoError(t, err)
	out := &outbox{}
	require.NoError(t, table.Start(out.send))

	msg := func(msgType string, payload interface{}) protocol.Message {
		raw, err := protocol.NewMessage(msgType, payload)
		require.NoError(t, err)
		var m protocol.Message
		require.NoError(t, json.Unmarshal(raw, &m))
		return m
	}

	table.HandlePlayerAction("human", msg(protocol.TypePlayCard, protocol.PlayCardPayload{Suit: shared.Oros, Number: 1}))
	assert.Equal(t, 1, out.count(protocol.TypeError))

	table.HandlePlayerAction("stranger", msg(protocol.TypeBid, protocol.BidPayload{Bid: "paso"}))
	assert.Equal(t, Bidding, table.State(shared.Bottom).Phase)

	table.HandlePlayerAction("human", msg(protocol.TypeBid, protocol.BidPayload{Bid: "paso"}))
	assert.Equal(t, 1, out.count(protocol.TypeError))

	// Left leads copas 1, Top and Right discard: Bottom must trump.
	state := table.State(shared.Bottom)
	require.Equal(t, Playing, state.Phase)
	require.Equal(t, shared.Bottom, state.Turn)

	table.HandlePlayerAction("human", msg(protocol.TypePlayCard, protocol.PlayCardPayload{Suit: shared.Oros, Number: 10}))
	assert.Equal(t, Declaring, table.State(shared.Bottom).Phase)
	assert.Len(t, table.Cantos(shared.Bottom), 1)

	table.HandlePlayerAction("human", msg(protocol.TypeDeclareCanto, protocol.DeclareCantoPayload{Suit: shared.Oros}))
	assert.Equal(t, 1, out.count(protocol.TypeCanto))
	var canto protocol.CantoPayload
	require.NoError(t, out.last(protocol.TypeCanto).Decode(&canto))
	assert.Equal(t, protocol.CantoPayload{Seat: shared.Bottom, Suit: shared.Oros, Points: 40}, canto)

	table.HandlePlayerAction("human", msg("dance", nil))
	assert.Equal(t, 2, out.count(protocol.TypeError))

	var errPayload protocol.ErrorPayload
	require.NoError(t, out.last(protocol.TypeError).Decode(&errPayload))
	assert.Equal(t, "Unknown action.", errPayload.Message)

	var state2 protocol.GameStatePayload
	require.NoError(t, out.last(protocol.TypeState).Decode(&state2))
	assert.Equal(t, string(Playing), state2.GameState)
	require.NotNil(t, state2.CurrentSeat)
	assert.Equal(t, shared.Bottom, *state2.CurrentSeat)
	assert.Equal(t, 40, state2.Team1Hand.Cantos)
}
