package database

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	log "github.com/sirupsen/logrus"
)

// Supported drivers.
const (
	SQLite   = "sqlite3"
	Postgres = "pgx"
)

const tableName = "cuatrola_results"

const columns = "id, created_at, table_id, variant, player, team1_score, team2_score, winner, hands"

type Service struct {
	db        *sql.DB
	m         *sync.Mutex
	driver    string
	tableName string
}

// New opens the results archive and creates its table if needed.
func New(driver, dsn string) (*Service, error) {
	if driver != SQLite && driver != Postgres {
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == SQLite {
		// sqlite serializes writers; a single connection also keeps :memory: databases alive.
		db.SetMaxOpenConns(1)
	}

	sqlStmt := `
	create table if not exists ` + tableName + ` (
		id text not null primary key,
		created_at text,
		table_id text,
		variant text,
		player text,
		team1_score integer,
		team2_score integer,
		winner integer,
		hands integer
	);
	`
	if _, err := db.Exec(sqlStmt); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	log.WithField("driver", driver).Info("Results archive ready.")
	return &Service{
		db:        db,
		m:         &sync.Mutex{},
		driver:    driver,
		tableName: tableName,
	}, nil
}

func (s *Service) Close() error {
	return s.db.Close()
}

func (s *Service) TableName() string {
	return s.tableName
}

// rebind rewrites ? placeholders into the driver's syntax.
func rebind(driver, query string) string {
	if driver != Postgres {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func (s *Service) query(q string, args ...any) ([]GameResult, error) {
	rows, err := s.db.Query(rebind(s.driver, q), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []GameResult
	for rows.Next() {
		var result GameResult
		if err := rows.Scan(
			&result.ID,
			&result.CreatedAt,
			&result.TableID,
			&result.Variant,
			&result.Player,
			&result.Team1Score,
			&result.Team2Score,
			&result.Winner,
			&result.Hands); err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

func (s *Service) GetAll() ([]GameResult, error) {
	s.m.Lock()
	defer s.m.Unlock()
	return s.query("SELECT " + columns + " FROM " + s.tableName + " ORDER BY created_at")
}

func (s *Service) GetByID(id string) (GameResult, error) {
	s.m.Lock()
	defer s.m.Unlock()
	results, err := s.query("SELECT "+columns+" FROM "+s.tableName+" WHERE id = ?", id)
	if err != nil {
		return GameResult{}, err
	}
	if len(results) == 0 {
		return GameResult{}, sql.ErrNoRows
	}
	return results[0], nil
}

func (s *Service) Insert(result GameResult) error {
	s.m.Lock()
	defer s.m.Unlock()
	_, err := s.db.Exec(rebind(s.driver, "INSERT INTO "+s.tableName+
		" ("+columns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)"),
		result.ID,
		result.CreatedAt,
		result.TableID,
		result.Variant,
		result.Player,
		result.Team1Score,
		result.Team2Score,
		result.Winner,
		result.Hands)
	return err
}

// GetByPlayer returns the player's matches, sql.ErrNoRows when there are none.
func (s *Service) GetByPlayer(player string) ([]GameResult, error) {
	s.m.Lock()
	defer s.m.Unlock()
	results, err := s.query("SELECT "+columns+" FROM "+s.tableName+" WHERE player = ? ORDER BY created_at", player)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, sql.ErrNoRows // No results found
	}
	return results, nil
}

// StatsByPlayer counts the player's matches and the ones their team won.
func (s *Service) StatsByPlayer(player string) (PlayerStats, error) {
	s.m.Lock()
	defer s.m.Unlock()
	stats := PlayerStats{Player: player}
	err := s.db.QueryRow(rebind(s.driver,
		"SELECT COUNT(*), COALESCE(SUM(CASE WHEN winner = 1 THEN 1 ELSE 0 END), 0) FROM "+s.tableName+" WHERE player = ?"),
		player).Scan(&stats.Matches, &stats.Wins)
	return stats, err
}
