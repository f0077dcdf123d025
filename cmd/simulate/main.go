// Command simulate plays bot-only matches headless and reports how they ended.
package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"

	"cuatrola-game/internal/bot"
	"cuatrola-game/internal/game"
	"cuatrola-game/internal/shared"

	log "github.com/sirupsen/logrus"
)

func main() {
	variant := flag.String("variant", "cuatrola", "cuatrola or tute")
	matches := flag.Int("matches", 100, "number of matches to play")
	target := flag.Int("target", 0, "points that end a Cuatrola match, 0 for the default")
	hands := flag.Int("hands", 10, "hands per Tute match")
	seed := flag.Uint64("seed", 1, "random seed")
	strategy := flag.String("team2", "random", "team 2 strategy: basic or random")
	verbose := flag.Bool("v", false, "log every table event")
	flag.Parse()

	log.SetLevel(log.WarnLevel)
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	v := game.Variant(*variant)
	if !v.Valid() {
		fmt.Fprintf(os.Stderr, "unknown variant %q\n", *variant)
		os.Exit(2)
	}

	rng := rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))
	var opponent game.Decider = bot.Random{Rand: rng}
	if *strategy == "basic" {
		opponent = bot.Basic{}
	}
	deciders := [shared.NumSeats]game.Decider{bot.Basic{}, opponent, bot.Basic{}, opponent}

	var wins [3]int
	var totals game.TeamPoints
	handsPlayed := 0
	for i := 0; i < *matches; i++ {
		names := [shared.NumSeats]string{}
		copy(names[:], bot.Names(rng, shared.NumSeats))
		table, err := game.NewTable(game.TableOptions{
			Variant:  v,
			Target:   *target,
			Names:    names,
			Deciders: deciders,
			Rand:     rng,
		})
		if err != nil {
			log.Fatalf("Failed to create table: %v", err)
		}
		if err := table.Start(nil); err != nil {
			log.Fatalf("Failed to start table %s: %v", table.ID, err)
		}
		for !table.Match.Over && (v != game.Tute || table.Match.HandsPlayed < *hands) {
			if err := table.AdvanceToNextHand(); err != nil {
				log.Fatalf("Table %s: %v", table.ID, err)
			}
		}

		state := table.State(shared.Bottom)
		if state.MatchPhase == game.GameOver {
			wins[state.Winner]++
		} else if leader, ok := state.Scores.Leader(); ok {
			wins[leader]++
		}
		totals.Team1 += state.Scores.Team1
		totals.Team2 += state.Scores.Team2
		handsPlayed += state.HandsPlayed
	}

	fmt.Printf("%s: %d matches, %d hands\n", v, *matches, handsPlayed)
	fmt.Printf("team 1 (basic): %d wins, %d points\n", wins[shared.Team1], totals.Team1)
	fmt.Printf("team 2 (%s): %d wins, %d points\n", *strategy, wins[shared.Team2], totals.Team2)
}
