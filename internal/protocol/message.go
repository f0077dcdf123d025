package protocol

import (
	"encoding/json"

	"cuatrola-game/internal/shared"
)

// Message represents a generic WebSocket message structure.
type Message struct {
	Type    string          `json:"type"`              // Type of the message (e.g., "new_game", "play_card")
	Payload json.RawMessage `json:"payload,omitempty"` // Raw JSON payload, allows flexible structures
}

// Client -> server message types.
const (
	TypeNewGame      = "new_game"
	TypeBid          = "bid"
	TypePlayCard     = "play_card"
	TypeDeclareCanto = "declare_canto"
	TypeDeclineCanto = "decline_canto"
	TypeNextHand     = "next_hand"
	TypeRestartGame  = "restart_game"
	TypePing         = "ping"
)

// Server -> client message types.
const (
	TypeGameStart = "game_start"
	TypeState     = "game_state_update"
	TypeBidMade   = "bid_made"
	TypeTrickEnd  = "trick_end"
	TypeCanto     = "canto"
	TypeHandEnd   = "hand_end"
	TypeGameOver  = "game_over"
	TypeError     = "error"
	TypePong      = "pong"
)

// --- Client -> Server Payload Structs ---

type NewGamePayload struct {
	Name       string `json:"name"`
	Variant    string `json:"variant"`     // "cuatrola" or "tute"
	PointsGoal int    `json:"points_goal"` // 0 keeps the variant's default
}

type BidPayload struct {
	Bid string `json:"bid"` // "paso" or "solo"
}

type PlayCardPayload struct {
	Suit   shared.Suit `json:"suit"`
	Number int         `json:"number"`
}

type DeclareCantoPayload struct {
	Suit shared.Suit `json:"suit"`
}

// --- Server -> Client Payload Structs ---

type PlayerInfo struct {
	ID   string      `json:"id"`
	Name string      `json:"name"`
	Seat shared.Seat `json:"seat"`
	Bot  bool        `json:"bot"`
}

type TeamInfo struct {
	ID         string       `json:"id"`
	Players    []PlayerInfo `json:"players"`
	Score      int          `json:"score"`
	TeamNumber int          `json:"team_number"`
}

type GameStartPayload struct {
	GameID     string       `json:"game_id"`
	Variant    string       `json:"variant"`
	Players    []PlayerInfo `json:"players"`
	Teams      []TeamInfo   `json:"teams"`
	PointsGoal int          `json:"points_goal"`
}

type TallyInfo struct {
	Points int `json:"points"`
	Tricks int `json:"tricks"`
	Cantos int `json:"cantos"`
}

type GameStatePayload struct {
	GameState   string              `json:"game_state"`
	CurrentSeat *shared.Seat        `json:"current_seat,omitempty"`
	Dealer      shared.Seat         `json:"dealer"`
	Trump       shared.Suit         `json:"trump"`
	TrumpCard   shared.Card         `json:"trump_card"`
	Hand        []shared.Card       `json:"hand"`
	HandSizes   []int               `json:"hand_sizes"`
	Trick       []shared.PlayedCard `json:"trick"`
	ValidMoves  []shared.Card       `json:"valid_moves,omitempty"`
	Cantos      []shared.Canto      `json:"cantos,omitempty"`
	Solo        *shared.Seat        `json:"solo,omitempty"`
	StockSize   int                 `json:"stock_size"`
	TricksDone  int                 `json:"tricks_done"`
	Team1Hand   TallyInfo           `json:"team1_hand"`
	Team2Hand   TallyInfo           `json:"team2_hand"`
	Team1Score  int                 `json:"team1_score"`
	Team2Score  int                 `json:"team2_score"`
	HandsPlayed int                 `json:"hands_played"`
}

type BidMadePayload struct {
	Seat shared.Seat `json:"seat"`
	Bid  string      `json:"bid"`
}

type TrickEndPayload struct {
	Number int                 `json:"number"`
	Winner shared.PlayedCard   `json:"winner"`
	Cards  []shared.PlayedCard `json:"cards"`
	Points int                 `json:"points"`
}

type CantoPayload struct {
	Seat   shared.Seat `json:"seat"`
	Suit   shared.Suit `json:"suit"`
	Points int         `json:"points"`
}

type HandEndPayload struct {
	Team1HandTotal  int         `json:"team1_hand_total"`
	Team2HandTotal  int         `json:"team2_hand_total"`
	Team1Delta      int         `json:"team1_delta"`
	Team2Delta      int         `json:"team2_delta"`
	Team1TotalScore int         `json:"team1_total_score"`
	Team2TotalScore int         `json:"team2_total_score"`
	LastTrickWinner shared.Seat `json:"last_trick_winner"`
	Sweep           bool        `json:"sweep"`
	Solo            bool        `json:"solo"`
}

type GameOverPayload struct {
	WinningTeamID string `json:"winning_team_id"`
	WinningTeam   int    `json:"winning_team"`
	FinalScoreT1  int    `json:"final_score_t1"`
	FinalScoreT2  int    `json:"final_score_t2"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// Helper function to create a JSON message
func NewMessage(msgType string, payload interface{}) ([]byte, error) {
	if payload == nil {
		return json.Marshal(Message{Type: msgType})
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	msg := Message{
		Type:    msgType,
		Payload: payloadBytes,
	}
	return json.Marshal(msg)
}

// Decode unmarshals the message payload into v.
func (m Message) Decode(v interface{}) error {
	return json.Unmarshal(m.Payload, v)
}
