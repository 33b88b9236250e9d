package bot

import (
	"context"
	"database/sql"
	"time"

	"gameday/internal/common"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// Which of the two channels is accepting messages
type ChannelMode string

const (
	ModeDaily   ChannelMode = "daily"
	ModeGameday ChannelMode = "gameday"
)

// Last mode applied to the channels
type ModeRecord struct {
	Mode         ChannelMode
	ChangedAt    time.Time
	TransitionId uuid.UUID
}

type DatabaseBot struct {
	common.Database
}

var modeSchema = []string{
	`CREATE TABLE IF NOT EXISTS channel_mode (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		mode TEXT NOT NULL,
		changed_at TEXT NOT NULL,
		transition_id TEXT NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS transitions (
		transition_id TEXT PRIMARY KEY,
		mode TEXT NOT NULL,
		changed_at TEXT NOT NULL
	);`,
}

type modeRow struct {
	Mode         string `db:"mode"`
	ChangedAt    string `db:"changed_at"`
	TransitionId string `db:"transition_id"`
}

func CreateDatabaseBot(ctx context.Context, dbFilename string) (DatabaseBot, error) {

	database, err := common.OpenDatabase(dbFilename)
	if err != nil {
		return DatabaseBot{}, err
	}
	db := DatabaseBot{database}
	if err := db.Migrate(ctx, modeSchema...); err != nil {
		db.Close()
		return DatabaseBot{}, err
	}
	return db, nil
}

// Get the last mode applied. The boolean is false if no mode was ever recorded
func (db *DatabaseBot) GetMode(ctx context.Context) (ModeRecord, bool, error) {

	var row modeRow
	err := db.GetContext(ctx, &row, `SELECT mode, changed_at, transition_id FROM channel_mode WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return ModeRecord{}, false, nil
	}
	if err != nil {
		return ModeRecord{}, false, errors.Wrap(err, "could not read channel mode")
	}

	record, err := row.record()
	if err != nil {
		return ModeRecord{}, false, err
	}
	return record, true, nil
}

// Record a new mode, applied at the provided time
func (db *DatabaseBot) SetMode(ctx context.Context, mode ChannelMode, at time.Time) (ModeRecord, error) {

	record := ModeRecord{Mode: mode, ChangedAt: at.UTC(), TransitionId: uuid.New()}
	changedAt := record.ChangedAt.Format(time.RFC3339Nano)

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return ModeRecord{}, errors.Wrap(err, "could not start transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO channel_mode (id, mode, changed_at, transition_id) VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET mode = excluded.mode, changed_at = excluded.changed_at, transition_id = excluded.transition_id`,
		string(mode), changedAt, record.TransitionId.String()); err != nil {
		return ModeRecord{}, errors.Wrap(err, "could not store channel mode")
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO transitions (transition_id, mode, changed_at) VALUES (?, ?, ?)`,
		record.TransitionId.String(), string(mode), changedAt); err != nil {
		return ModeRecord{}, errors.Wrap(err, "could not store transition")
	}
	if err := tx.Commit(); err != nil {
		return ModeRecord{}, errors.Wrap(err, "could not commit channel mode")
	}

	return record, nil
}

// Most recent transitions first
func (db *DatabaseBot) Transitions(ctx context.Context, limit int) ([]ModeRecord, error) {

	var rows []modeRow
	if err := db.SelectContext(ctx, &rows,
		`SELECT mode, changed_at, transition_id FROM transitions ORDER BY rowid DESC LIMIT ?`, limit); err != nil {
		return nil, errors.Wrap(err, "could not read transitions")
	}

	records := make([]ModeRecord, 0, len(rows))
	for _, row := range rows {
		record, err := row.record()
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func (row modeRow) record() (ModeRecord, error) {

	changedAt, err := time.Parse(time.RFC3339Nano, row.ChangedAt)
	if err != nil {
		return ModeRecord{}, errors.Wrapf(err, "stored time %q not understood", row.ChangedAt)
	}
	transitionId, err := uuid.Parse(row.TransitionId)
	if err != nil {
		return ModeRecord{}, errors.Wrapf(err, "stored transition id %q not understood", row.TransitionId)
	}
	return ModeRecord{Mode: ChannelMode(row.Mode), ChangedAt: changedAt, TransitionId: transitionId}, nil
}
