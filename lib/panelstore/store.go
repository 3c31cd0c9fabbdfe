// Package panelstore keeps the snapshot panel in sqlite as an
// alternative to the flat CSV, in long format so per-metric time series
// come back with a single query.
package panelstore

import (
	"context"
	"database/sql"

	"hiscores-backend/lib/panel"
)

type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) Store {
	return Store{db: database}
}

// Append implements panel.Sink. Re-pushing the same (player, date)
// replaces that day's rows instead of duplicating them, so an aborted
// run can safely be repeated the same day.
func (s Store) Append(ctx context.Context, snapshots []panel.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, snapshot := range snapshots {
		_, err = tx.ExecContext(
			ctx,
			`DELETE FROM skill_snapshot WHERE player = ? AND date = ?`,
			snapshot.PlayerName, snapshot.Date,
		)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(
			ctx,
			`DELETE FROM boss_snapshot WHERE player = ? AND date = ?`,
			snapshot.PlayerName, snapshot.Date,
		)
		if err != nil {
			return err
		}

		for skill, entry := range snapshot.Stats.Skills {
			_, err = tx.ExecContext(
				ctx,
				`INSERT INTO skill_snapshot (player, date, skill, rank, level, xp)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				snapshot.PlayerName, snapshot.Date, skill,
				entry.Rank, entry.Level, entry.Experience,
			)
			if err != nil {
				return err
			}
		}
		for boss, entry := range snapshot.Stats.Bosses {
			_, err = tx.ExecContext(
				ctx,
				`INSERT INTO boss_snapshot (player, date, boss, rank, kc)
				 VALUES (?, ?, ?, ?, ?)`,
				snapshot.PlayerName, snapshot.Date, boss,
				nullable(entry.Rank), nullable(entry.KillCount),
			)
			if err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

func nullable(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

// SkillPoint is one day of one skill's series.
type SkillPoint struct {
	Date       string
	Rank       int64
	Level      int64
	Experience int64
}

func (s Store) PullSkill(ctx context.Context, player, skill string) ([]SkillPoint, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT date, rank, level, xp FROM skill_snapshot
		 WHERE player = ? AND skill = ? ORDER BY date`,
		player, skill,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []SkillPoint
	for rows.Next() {
		var p SkillPoint
		err = rows.Scan(&p.Date, &p.Rank, &p.Level, &p.Experience)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// BossPoint is one day of one boss's series. Rank and KillCount are nil
// where the original snapshot carried a placeholder.
type BossPoint struct {
	Date      string
	Rank      *int64
	KillCount *int64
}

func (s Store) PullBoss(ctx context.Context, player, boss string) ([]BossPoint, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT date, rank, kc FROM boss_snapshot
		 WHERE player = ? AND boss = ? ORDER BY date`,
		player, boss,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []BossPoint
	for rows.Next() {
		var p BossPoint
		var rank, kc sql.NullInt64
		err = rows.Scan(&p.Date, &rank, &kc)
		if err != nil {
			return nil, err
		}
		if rank.Valid {
			p.Rank = &rank.Int64
		}
		if kc.Valid {
			p.KillCount = &kc.Int64
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
