package game

import (
	"cuatrola-game/internal/shared"

	log "github.com/sirupsen/logrus"
)

// Cuatrola scoring table.
const (
	CuatrolaTricks  = 5
	CuatrolaTarget  = 20
	LastTrickBonus  = 10
	SweepPoints     = 4
	SoloSweepPoints = 6
	WinPoints       = 1
	SoloWinPoints   = 2
)

// TeamTally is one team's running totals during a hand.
type TeamTally struct {
	Points int `json:"points"` // card points captured in tricks
	Tricks int `json:"tricks"`
	Cantos int `json:"cantos"` // points from declared cantos
}

// HandScore holds both teams' tallies plus raw trick points per seat.
type HandScore struct {
	Team1      TeamTally            `json:"team1"`
	Team2      TeamTally            `json:"team2"`
	SeatPoints [shared.NumSeats]int `json:"seat_points"`
}

// Team returns the tally of team t.
func (s *HandScore) Team(t shared.TeamEnum) *TeamTally {
	if t == shared.Team1 {
		return &s.Team1
	}
	return &s.Team2
}

// Tricks returns the number of tricks taken by both teams.
func (s HandScore) Tricks() int { return s.Team1.Tricks + s.Team2.Tricks }

// TrickPoints returns the card points captured by both teams.
func (s HandScore) TrickPoints() int { return s.Team1.Points + s.Team2.Points }

// TeamPoints is a pair of per-team values: a score delta or cumulative match points.
type TeamPoints struct {
	Team1 int `json:"team1"`
	Team2 int `json:"team2"`
}

// Of returns the value for team t.
func (p TeamPoints) Of(t shared.TeamEnum) int {
	if t == shared.Team1 {
		return p.Team1
	}
	return p.Team2
}

// Add adds n to team t.
func (p *TeamPoints) Add(t shared.TeamEnum, n int) {
	if t == shared.Team1 {
		p.Team1 += n
	} else {
		p.Team2 += n
	}
}

// Leader returns the team with more points, false on a tie.
func (p TeamPoints) Leader() (shared.TeamEnum, bool) {
	switch {
	case p.Team1 > p.Team2:
		return shared.Team1, true
	case p.Team2 > p.Team1:
		return shared.Team2, true
	}
	return 0, false
}

// HandOutcome is the scored result of a finished hand.
type HandOutcome struct {
	Variant         Variant      `json:"variant"`
	Dealer          shared.Seat  `json:"dealer"`
	Solo            *shared.Seat `json:"solo,omitempty"`
	Score           HandScore    `json:"score"`
	LastTrickWinner shared.Seat  `json:"last_trick_winner"`
	Totals          TeamPoints   `json:"totals"` // hand totals the delta was derived from
	Delta           TeamPoints   `json:"delta"`  // match points awarded
	Sweep           bool         `json:"sweep"`
}

// ScoreCuatrola applies the Cuatrola table in priority order: a team taking every
// trick scores the sweep, otherwise the higher total of trick points, cantos and the
// last-trick bonus scores, ties going to the team that won the last trick.
func ScoreCuatrola(score HandScore, lastTrickWinner shared.Seat, solo bool) (totals, delta TeamPoints, sweep bool) {
	lastTeam := lastTrickWinner.Team()
	for _, team := range shared.Teams {
		tally := score.Team(team)
		totals.Add(team, tally.Points+tally.Cantos)
	}
	totals.Add(lastTeam, LastTrickBonus)

	for _, team := range shared.Teams {
		if score.Team(team).Tricks == CuatrolaTricks {
			delta.Add(team, pick(solo, SoloSweepPoints, SweepPoints))
			return totals, delta, true
		}
	}

	winner, ok := totals.Leader()
	if !ok {
		winner = lastTeam
	}
	delta.Add(winner, pick(solo, SoloWinPoints, WinPoints))
	return totals, delta, false
}

// ScoreTute awards each team its raw trick points plus cantos.
func ScoreTute(score HandScore) (totals, delta TeamPoints) {
	for _, team := range shared.Teams {
		tally := score.Team(team)
		totals.Add(team, tally.Points+tally.Cantos)
	}
	return totals, totals
}

// ApplyHandResult adds a hand's delta to the cumulative scores and reports whether
// either team reached target. A target of zero or less never ends the game.
func ApplyHandResult(current, delta TeamPoints, target int) (TeamPoints, bool) {
	if delta.Team1 < 0 || delta.Team2 < 0 {
		log.Panicf("Error: negative score delta %+v.", delta)
	}
	next := TeamPoints{
		Team1: current.Team1 + delta.Team1,
		Team2: current.Team2 + delta.Team2,
	}
	over := target > 0 && (next.Team1 >= target || next.Team2 >= target)
	return next, over
}

func pick(solo bool, soloValue, value int) int {
	if solo {
		return soloValue
	}
	return value
}
