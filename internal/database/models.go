package database

// GameResult is one finished match in the results archive.
type GameResult struct {
	ID         string `json:"id"`
	CreatedAt  string `json:"created_at"`
	TableID    string `json:"table_id"`
	Variant    string `json:"variant"`
	Player     string `json:"player"`
	Team1Score int    `json:"team1_score"`
	Team2Score int    `json:"team2_score"`
	Winner     int    `json:"winner"` // winning team number, 1 for the player's team
	Hands      int    `json:"hands"`
}

// PlayerStats sums up a player's archived matches.
type PlayerStats struct {
	Player  string `json:"player"`
	Matches int    `json:"matches"`
	Wins    int    `json:"wins"`
}
