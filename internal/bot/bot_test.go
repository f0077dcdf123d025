package bot

import (
	"math/rand/v2"
	"testing"

	"cuatrola-game/internal/game"
	"cuatrola-game/internal/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func c(suit shared.Suit, n int) shared.Card { return shared.NewCard(suit, n) }

func TestWantsSolo(t *testing.T) {
	tests := []struct {
		name string
		hand []shared.Card
		want bool
	}{
		{"three trumps with ace", []shared.Card{c(shared.Oros, 1), c(shared.Oros, 10), c(shared.Oros, 11), c(shared.Copas, 10), c(shared.Bastos, 12)}, true},
		{"three trumps no top", []shared.Card{c(shared.Oros, 10), c(shared.Oros, 11), c(shared.Oros, 12), c(shared.Copas, 10), c(shared.Bastos, 12)}, false},
		{"three tops any suit", []shared.Card{c(shared.Copas, 1), c(shared.Espadas, 3), c(shared.Bastos, 1), c(shared.Copas, 10), c(shared.Bastos, 12)}, true},
		{"weak", []shared.Card{c(shared.Copas, 1), c(shared.Espadas, 10), c(shared.Bastos, 11), c(shared.Copas, 10), c(shared.Bastos, 12)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WantsSolo(tt.hand, shared.Oros))
		})
	}
}

func TestStrongest(t *testing.T) {
	cards := []shared.Card{c(shared.Copas, 12), c(shared.Oros, 3), c(shared.Bastos, 3), c(shared.Copas, 10)}
	assert.Equal(t, c(shared.Oros, 3), Strongest(cards))
}

func TestBasicDecide(t *testing.T) {
	b := Basic{}

	bid := b.Decide(game.View{Seat: shared.Left, Phase: game.Bidding, Trump: shared.Oros,
		Hand: []shared.Card{c(shared.Copas, 10), c(shared.Copas, 11)}})
	assert.Equal(t, game.BidAction(shared.Left, game.Paso), bid)

	sing := b.Decide(game.View{Seat: shared.Top, Phase: game.Declaring, Cantos: []shared.Canto{
		{Seat: shared.Top, Suit: shared.Copas, Points: 20},
		{Seat: shared.Top, Suit: shared.Oros, Points: 40},
	}})
	assert.Equal(t, game.DeclareAction(shared.Top, shared.Oros), sing)

	play := b.Decide(game.View{Seat: shared.Right, Phase: game.Playing,
		Legal: []shared.Card{c(shared.Espadas, 10), c(shared.Espadas, 1)}})
	assert.Equal(t, game.PlayAction(shared.Right, c(shared.Espadas, 1)), play)
}

func TestRandomAlwaysPlaysLegalCard(t *testing.T) {
	r := Random{Rand: rand.New(rand.NewPCG(1, 2))}
	legal := []shared.Card{c(shared.Espadas, 10), c(shared.Espadas, 1), c(shared.Bastos, 2)}
	for i := 0; i < 50; i++ {
		a := r.Decide(game.View{Seat: shared.Left, Phase: game.Playing, Legal: legal})
		assert.Contains(t, legal, a.Card)
	}
}

func TestNames(t *testing.T) {
	names := Names(rand.New(rand.NewPCG(3, 4)), 3)
	require.Len(t, names, 3)
	seen := map[string]bool{}
	for _, n := range names {
		assert.Contains(t, nameList, n)
		assert.False(t, seen[n], "duplicate name %s", n)
		seen[n] = true
	}
	assert.Len(t, Names(nil, 100), len(nameList))
}

// Bot-only matches must always finish without a rejected command.
func TestBotsFinishMatches(t *testing.T) {
	for _, variant := range []game.Variant{game.Cuatrola, game.Tute} {
		t.Run(string(variant), func(t *testing.T) {
			rng := rand.New(rand.NewPCG(7, uint64(len(variant))))
			deciders := [shared.NumSeats]game.Decider{Basic{}, Random{Rand: rng}, Basic{}, Random{Rand: rng}}
			m := game.NewMatch(variant, game.DefaultTarget(variant), [shared.NumSeats]string{}, rng)
			for hands := 0; hands < 50 && !m.Over; hands++ {
				for !m.Hand.Finished() {
					seat, ok := m.Hand.CurrentActor()
					require.True(t, ok)
					require.NoError(t, m.Apply(deciders[seat].Decide(m.Hand.ViewFor(seat))))
				}
				if variant == game.Tute {
					break
				}
				if !m.Over {
					require.NoError(t, m.AdvanceToNextHand())
				}
			}
			if variant == game.Cuatrola {
				assert.True(t, m.Over)
			} else {
				assert.Equal(t, 1, m.HandsPlayed)
			}
		})
	}
}
