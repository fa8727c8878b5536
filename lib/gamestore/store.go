// Package gamestore keeps a log of finished games in sqlite. It is a history,
// sessions are not stored and cannot be resumed from it.
package gamestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"akinator-client/internal/akinator/session"
	"akinator-client/internal/components/chrono"
	"akinator-client/lib/gamestore/db"
	"akinator-client/lib/sqliteutil"

	"github.com/mazen160/go-random"
)

type Store struct {
	db    *sql.DB
	qry   *db.Queries
	clock chrono.API
}

// Open opens the store at the given path, ":memory:" gives a throwaway store.
func Open(path string, clock chrono.API) (Store, error) {
	database, err := sqliteutil.OpenDB(db.Schema, path)
	if err != nil {
		return Store{}, fmt.Errorf("open game store: %w", err)
	}
	return Store{
		db:    database,
		qry:   db.New(database),
		clock: clock,
	}, nil
}

func (s Store) Close() error {
	return s.db.Close()
}

type Game struct {
	ID         string
	Region     string
	ChildMode  bool
	Steps      int
	Progress   float64
	Won        bool
	Guesses    []session.Guess
	FinishedAt time.Time
}

// Record stores the final state of a session and returns the game's id.
func (s Store) Record(ctx context.Context, state session.State) (string, error) {
	id, err := random.String(8)
	if err != nil {
		return "", err
	}

	guesses := state.Guesses()
	if guesses == nil {
		guesses = []session.Guess{}
	}
	serialized, err := json.Marshal(guesses)
	if err != nil {
		return "", err
	}

	err = s.qry.InsertGame(ctx, db.Game{
		ID:         id,
		Region:     string(state.Region),
		ChildMode:  state.ChildMode,
		Steps:      int64(state.Step),
		Progress:   state.Progress,
		Won:        state.Win,
		Guesses:    string(serialized),
		FinishedAt: s.clock.Now().Unix(),
	})
	if err != nil {
		return "", fmt.Errorf("record game: %w", err)
	}
	return id, nil
}

// Recent returns the last `limit` games, most recent first.
func (s Store) Recent(ctx context.Context, limit int) ([]Game, error) {
	rows, err := s.qry.RecentGames(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("recent games: %w", err)
	}

	games := make([]Game, len(rows))
	for i, row := range rows {
		var guesses []session.Guess
		err := json.Unmarshal([]byte(row.Guesses), &guesses)
		if err != nil {
			return nil, fmt.Errorf("recent games: game %s: %w", row.ID, err)
		}
		games[i] = Game{
			ID:         row.ID,
			Region:     row.Region,
			ChildMode:  row.ChildMode,
			Steps:      int(row.Steps),
			Progress:   row.Progress,
			Won:        row.Won,
			Guesses:    guesses,
			FinishedAt: time.Unix(row.FinishedAt, 0).UTC(),
		}
	}
	return games, nil
}
