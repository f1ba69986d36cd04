package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

const alarmColumns = "id, title, body, sound, fire_at, created_at, fired_at, canceled_at"

func (s *Store) AddAlarm(ctx context.Context, alarm models.Alarm) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO alarms (id, title, body, sound, fire_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		alarm.ID, alarm.Title, alarm.Body, alarm.Sound, alarm.FireAt.UTC(), alarm.CreatedAt.UTC())
	return err
}

func (s *Store) GetAlarm(ctx context.Context, id string) (models.Alarm, error) {
	db, err := s.conn()
	if err != nil {
		return models.Alarm{}, err
	}

	row := db.QueryRowContext(ctx, "SELECT "+alarmColumns+" FROM alarms WHERE id = $1", id)
	a, err := scanAlarm(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Alarm{}, storage.ErrAlarmNotFound
	}
	return a, err
}

func (s *Store) GetDueAlarms(ctx context.Context, now time.Time) ([]models.Alarm, error) {
	return s.queryAlarms(ctx, `
		SELECT `+alarmColumns+` FROM alarms
		WHERE fired_at IS NULL AND canceled_at IS NULL AND fire_at <= $1
		ORDER BY fire_at`, now.UTC())
}

func (s *Store) GetPendingAlarms(ctx context.Context) ([]models.Alarm, error) {
	return s.queryAlarms(ctx, `
		SELECT `+alarmColumns+` FROM alarms
		WHERE fired_at IS NULL AND canceled_at IS NULL
		ORDER BY fire_at`)
}

func (s *Store) MarkAlarmFired(ctx context.Context, id string, at time.Time) error {
	return s.closeAlarm(ctx, "fired_at", id, at)
}

func (s *Store) CancelAlarm(ctx context.Context, id string, at time.Time) error {
	return s.closeAlarm(ctx, "canceled_at", id, at)
}

func (s *Store) closeAlarm(ctx context.Context, column, id string, at time.Time) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	res, err := db.ExecContext(ctx,
		fmt.Sprintf("UPDATE alarms SET %s = $1 WHERE id = $2 AND fired_at IS NULL AND canceled_at IS NULL", column),
		at.UTC(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrAlarmNotFound
	}
	return nil
}

func (s *Store) queryAlarms(ctx context.Context, query string, args ...any) ([]models.Alarm, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alarms []models.Alarm
	for rows.Next() {
		a, err := scanAlarm(rows)
		if err != nil {
			return nil, err
		}
		alarms = append(alarms, a)
	}
	return alarms, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAlarm(row scanner) (models.Alarm, error) {
	var a models.Alarm
	var firedAt, canceledAt sql.NullTime

	if err := row.Scan(&a.ID, &a.Title, &a.Body, &a.Sound, &a.FireAt, &a.CreatedAt, &firedAt, &canceledAt); err != nil {
		return models.Alarm{}, err
	}
	a.FireAt = a.FireAt.UTC()
	a.CreatedAt = a.CreatedAt.UTC()
	if firedAt.Valid {
		t := firedAt.Time.UTC()
		a.FiredAt = &t
	}
	if canceledAt.Valid {
		t := canceledAt.Time.UTC()
		a.CanceledAt = &t
	}
	return a, nil
}
