package shared

import (
	"fmt"

	"github.com/google/uuid"
)

// NumSeats is the fixed number of seats at the table.
const NumSeats = 4

// Seat is one of the four fixed table positions, in clockwise turn order.
type Seat int

const (
	Bottom Seat = iota // the human seat
	Left
	Top
	Right
)

// Seats lists every seat in turn order.
var Seats = [NumSeats]Seat{Bottom, Left, Top, Right}

func (s Seat) String() string {
	switch s {
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	case Top:
		return "top"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// ParseSeat maps a seat name back to its Seat.
func ParseSeat(name string) (Seat, bool) {
	for _, s := range Seats {
		if s.String() == name {
			return s, true
		}
	}
	return 0, false
}

// MarshalText encodes the seat by name.
func (s Seat) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid seat %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a seat name.
func (s *Seat) UnmarshalText(text []byte) error {
	seat, ok := ParseSeat(string(text))
	if !ok {
		return fmt.Errorf("unknown seat %q", text)
	}
	*s = seat
	return nil
}

// Valid reports whether s is a table seat.
func (s Seat) Valid() bool { return s >= Bottom && s <= Right }

// Next returns the following seat clockwise.
func (s Seat) Next() Seat { return (s + 1) % NumSeats }

// Partner returns the seat across the table.
func (s Seat) Partner() Seat { return (s + 2) % NumSeats }

// Team returns the partnership the seat belongs to.
func (s Seat) Team() TeamEnum {
	if s == Bottom || s == Top {
		return Team1
	}
	return Team2
}

// TeamEnum represents the two teams in the game.
type TeamEnum int

const (
	Team1 TeamEnum = 1 // bottom and top
	Team2 TeamEnum = 2 // left and right
)

// Teams lists both teams.
var Teams = [2]TeamEnum{Team1, Team2}

// Other returns the opposing team.
func (t TeamEnum) Other() TeamEnum {
	if t == Team1 {
		return Team2
	}
	return Team1
}

// Seats returns the two seats of the team.
func (t TeamEnum) Seats() [2]Seat {
	if t == Team1 {
		return [2]Seat{Bottom, Top}
	}
	return [2]Seat{Left, Right}
}

// Team represents a partnership and its cumulative match score.
type Team struct {
	ID         string   `json:"id"`
	Seats      [2]Seat  `json:"seats"`
	Score      int      `json:"score"`
	TeamNumber TeamEnum `json:"team_number"`
}

// NewTeam creates a team for the given number with a fresh UUID.
func NewTeam(team TeamEnum) *Team {
	return &Team{
		ID:         uuid.NewString(),
		Seats:      team.Seats(),
		TeamNumber: team,
	}
}

// AddScore adds points to the team's total score. Scores never decrease.
func (t *Team) AddScore(points int) {
	if points < 0 {
		return
	}
	t.Score += points
}

// ResetScore resets the score to 0.
func (t *Team) ResetScore() {
	t.Score = 0
}
