package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"
	"github.com/siherrmann/combiner/core/ledger"
	"github.com/siherrmann/combiner/helper"
	"github.com/siherrmann/combiner/model"
	loadSql "github.com/siherrmann/combiner/sql"
)

// ActivityDBHandler stores combination activity events
type ActivityDBHandler struct {
	db *helper.Database
}

var _ ledger.ActivitySink = (*ActivityDBHandler)(nil)

// NewActivityDBHandler creates a new activity database handler.
// If force is true, it will reload the SQL functions even if they already exist.
func NewActivityDBHandler(db *helper.Database, force bool) (*ActivityDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	activityDbHandler := &ActivityDBHandler{
		db: db,
	}

	err := loadSql.LoadActivitySql(activityDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load activity sql", err)
	}

	err = activityDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized ActivityDBHandler")

	return activityDbHandler, nil
}

// CreateTable creates the 'activity_events' table in the database.
// If the table already exists, it does not create it again.
func (h *ActivityDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_activity_events();`)
	if err != nil {
		log.Panicf("error initializing activity_events table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table activity_events")

	return nil
}

// InsertActivityEvent stores event and sets its ID, RID and CreatedAt
func (h *ActivityDBHandler) InsertActivityEvent(ctx context.Context, event *model.ActivityEvent) error {
	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM insert_activity_event($1, $2, $3, $4, $5)`,
		string(event.Type),
		event.Label,
		pq.Array(event.Ancestors),
		event.Count,
		event.Metadata,
	)

	err := row.Scan(
		&event.ID,
		&event.RID,
		&event.CreatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectActivityEventsByLabel returns the newest events of label first
func (h *ActivityDBHandler) SelectActivityEventsByLabel(ctx context.Context, label string, limit int) ([]*model.ActivityEvent, error) {
	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM select_activity_events_by_label($1, $2)`,
		label,
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	return scanActivityEvents(rows)
}

// SelectRecentActivityEvents returns the newest events of all labels
func (h *ActivityDBHandler) SelectRecentActivityEvents(ctx context.Context, limit int) ([]*model.ActivityEvent, error) {
	rows, err := h.db.Instance.QueryContext(
		ctx,
		`SELECT * FROM select_recent_activity_events($1)`,
		limit,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	return scanActivityEvents(rows)
}

type rowsScanner interface {
	scanner
	Next() bool
	Err() error
}

func scanActivityEvents(rows rowsScanner) ([]*model.ActivityEvent, error) {
	var events []*model.ActivityEvent
	for rows.Next() {
		event := &model.ActivityEvent{}
		var eventType string
		err := rows.Scan(
			&event.ID,
			&event.RID,
			&eventType,
			&event.Label,
			pq.Array(&event.Ancestors),
			&event.Count,
			&event.Metadata,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		event.Type = model.EventType(eventType)

		events = append(events, event)
	}

	err := rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return events, nil
}
