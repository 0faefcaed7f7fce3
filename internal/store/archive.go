package store

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sudooom.codex.logic/internal/game/codex"
	"sudooom.codex.logic/internal/game/core"
)

// Schema 结果归档表结构
const Schema = `
CREATE TABLE IF NOT EXISTS game_results (
	id           UUID PRIMARY KEY,
	game_name    TEXT        NOT NULL,
	player_count INT         NOT NULL,
	winners      TEXT[]      NOT NULL,
	finished_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_game_results_finished_at ON game_results (finished_at DESC);

CREATE TABLE IF NOT EXISTS game_result_players (
	result_id            UUID    NOT NULL REFERENCES game_results (id) ON DELETE CASCADE,
	seat                 INT     NOT NULL,
	player_name          TEXT    NOT NULL,
	pawn_color           TEXT    NOT NULL,
	track_points         INT     NOT NULL,
	objective_points     INT     NOT NULL,
	objectives_completed INT     NOT NULL,
	total                INT     NOT NULL,
	winner               BOOLEAN NOT NULL,
	PRIMARY KEY (result_id, seat)
);
`

// Result 一局已结束游戏的归档记录
type Result struct {
	ID          uuid.UUID      `json:"id"`
	GameName    string         `json:"gameName"`
	PlayerCount int            `json:"playerCount"`
	Winners     []string       `json:"winners"`
	FinishedAt  time.Time      `json:"finishedAt"`
	Players     []ResultPlayer `json:"players"`
}

// ResultPlayer 玩家最终得分
type ResultPlayer struct {
	Name                string         `json:"name"`
	Color               core.PawnColor `json:"color"`
	TrackPoints         int            `json:"trackPoints"`
	ObjectivePoints     int            `json:"objectivePoints"`
	ObjectivesCompleted int            `json:"objectivesCompleted"`
	Total               int            `json:"total"`
	Winner              bool           `json:"winner"`
}

// NewResult 由结束时的视图生成归档记录
func NewResult(view codex.View, finishedAt time.Time) Result {
	r := Result{
		ID:          uuid.New(),
		GameName:    view.Name,
		PlayerCount: view.PlayerCount,
		Winners:     slices.Clone(view.Winners),
		FinishedAt:  finishedAt,
		Players:     make([]ResultPlayer, 0, len(view.Players)),
	}
	for _, p := range view.Players {
		rp := ResultPlayer{
			Name:   p.Name,
			Color:  p.Color,
			Winner: slices.Contains(view.Winners, p.Name),
		}
		if p.Final != nil {
			rp.TrackPoints = p.Final.TrackPoints
			rp.ObjectivePoints = p.Final.ObjectivePoints
			rp.ObjectivesCompleted = p.Final.ObjectivesCompleted
			rp.Total = p.Final.Total
		} else {
			rp.TrackPoints = p.Score
			rp.Total = p.Score
		}
		r.Players = append(r.Players, rp)
	}
	return r
}

// ResultArchive PostgreSQL 结果归档
type ResultArchive struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewResultArchive 创建结果归档
func NewResultArchive(db *pgxpool.Pool) *ResultArchive {
	return &ResultArchive{
		db:     db,
		logger: slog.Default().With("component", "ResultArchive"),
	}
}

// EnsureSchema 建表
func (a *ResultArchive) EnsureSchema(ctx context.Context) error {
	if _, err := a.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Archive 在一个事务内写入结果和玩家得分
func (a *ResultArchive) Archive(ctx context.Context, r Result) error {
	tx, err := a.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin archive %s: %w", r.GameName, err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO game_results (id, game_name, player_count, winners, finished_at)
		VALUES ($1, $2, $3, $4, $5)
	`, r.ID, r.GameName, r.PlayerCount, r.Winners, r.FinishedAt)
	if err != nil {
		return fmt.Errorf("insert result %s: %w", r.GameName, err)
	}

	batch := &pgx.Batch{}
	for seat, p := range r.Players {
		batch.Queue(`
			INSERT INTO game_result_players
				(result_id, seat, player_name, pawn_color, track_points, objective_points, objectives_completed, total, winner)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, r.ID, seat, p.Name, string(p.Color), p.TrackPoints, p.ObjectivePoints, p.ObjectivesCompleted, p.Total, p.Winner)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert result players %s: %w", r.GameName, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit archive %s: %w", r.GameName, err)
	}
	a.logger.Info("Archived game result", "game", r.GameName, "resultId", r.ID, "winners", r.Winners)
	return nil
}

// Recent 最近结束的游戏，按结束时间倒序
func (a *ResultArchive) Recent(ctx context.Context, limit int) ([]Result, error) {
	rows, err := a.db.Query(ctx, `
		SELECT id, game_name, player_count, winners, finished_at
		FROM game_results
		ORDER BY finished_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}

	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Result, error) {
		var r Result
		err := row.Scan(&r.ID, &r.GameName, &r.PlayerCount, &r.Winners, &r.FinishedAt)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan results: %w", err)
	}
	if len(results) == 0 {
		return results, nil
	}

	ids := make([]uuid.UUID, len(results))
	index := make(map[uuid.UUID]int, len(results))
	for i, r := range results {
		ids[i] = r.ID
		index[r.ID] = i
	}

	rows, err = a.db.Query(ctx, `
		SELECT result_id, player_name, pawn_color, track_points, objective_points, objectives_completed, total, winner
		FROM game_result_players
		WHERE result_id = ANY($1)
		ORDER BY result_id, seat
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("query result players: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id    uuid.UUID
			p     ResultPlayer
			color string
		)
		if err := rows.Scan(&id, &p.Name, &color, &p.TrackPoints, &p.ObjectivePoints, &p.ObjectivesCompleted, &p.Total, &p.Winner); err != nil {
			return nil, fmt.Errorf("scan result player: %w", err)
		}
		p.Color = core.PawnColor(color)
		if i, ok := index[id]; ok {
			results[i].Players = append(results[i].Players, p)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate result players: %w", err)
	}
	return results, nil
}
