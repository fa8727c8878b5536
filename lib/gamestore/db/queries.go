package db

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Game struct {
	ID         string
	Region     string
	ChildMode  bool
	Steps      int64
	Progress   float64
	Won        bool
	Guesses    string
	FinishedAt int64
}

const insertGame = `
insert into Game (id, region, child_mode, steps, progress, won, guesses, finished_at)
values (?, ?, ?, ?, ?, ?, ?, ?)
`

func (q *Queries) InsertGame(ctx context.Context, arg Game) error {
	_, err := q.db.ExecContext(ctx, insertGame,
		arg.ID,
		arg.Region,
		arg.ChildMode,
		arg.Steps,
		arg.Progress,
		arg.Won,
		arg.Guesses,
		arg.FinishedAt,
	)
	return err
}

const recentGames = `
select id, region, child_mode, steps, progress, won, guesses, finished_at from Game
order by finished_at desc, id
limit ?
`

func (q *Queries) RecentGames(ctx context.Context, limit int64) ([]Game, error) {
	rows, err := q.db.QueryContext(ctx, recentGames, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Game
	for rows.Next() {
		var i Game
		err := rows.Scan(
			&i.ID,
			&i.Region,
			&i.ChildMode,
			&i.Steps,
			&i.Progress,
			&i.Won,
			&i.Guesses,
			&i.FinishedAt,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
