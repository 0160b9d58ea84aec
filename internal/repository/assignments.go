package repository

import (
	"context"
	"time"

	"github.com/aerops-dev/crew-scheduler/backend/internal/domain"
)

// GetAssignments loads the stored team bindings and pin flags for one
// operational date.
func (r *Repository) GetAssignments(dateKey string) (domain.AssignmentSet, domain.PinSet, error) {
	query := `
		SELECT turnaround_id, leg_type, team_id, pinned
		FROM assignments
		WHERE date_key = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, dateKey)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	assignments := domain.AssignmentSet{}
	pins := domain.PinSet{}
	for rows.Next() {
		var turnaroundID, legType, teamID string
		var pinned bool
		if err := rows.Scan(&turnaroundID, &legType, &teamID, &pinned); err != nil {
			return nil, nil, err
		}

		leg := domain.LegType(legType)
		entry := assignments[turnaroundID]
		entry.Set(leg, teamID)
		assignments[turnaroundID] = entry

		if pinned {
			pinEntry := pins[turnaroundID]
			if leg == domain.LegArrival {
				pinEntry.Arrival = true
			} else {
				pinEntry.Departure = true
			}
			pins[turnaroundID] = pinEntry
		}
	}

	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	return assignments, pins, nil
}

// SaveAssignments replaces every binding for the date in one transaction.
// Pin flags are taken from pins so a pinned leg survives the rewrite.
func (r *Repository) SaveAssignments(dateKey string, assignments domain.AssignmentSet, pins domain.PinSet) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM assignments WHERE date_key = $1`, dateKey); err != nil {
		return err
	}

	query := `
		INSERT INTO assignments (date_key, turnaround_id, leg_type, team_id, pinned)
		VALUES ($1, $2, $3, $4, $5)
	`
	for turnaroundID, entry := range assignments {
		for _, leg := range []domain.LegType{domain.LegArrival, domain.LegDeparture} {
			teamID := entry.Get(leg)
			if teamID == "" {
				continue
			}
			params := []any{dateKey, turnaroundID, string(leg), teamID, pins.Pinned(turnaroundID, leg)}
			if _, err := tx.ExecContext(ctx, query, params...); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// UpsertAssignment writes a single manual binding. An empty team id clears
// the leg instead.
func (r *Repository) UpsertAssignment(dateKey, turnaroundID string, leg domain.LegType, teamID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if teamID == "" {
		query := `
			DELETE FROM assignments
			WHERE date_key = $1 AND turnaround_id = $2 AND leg_type = $3
		`
		_, err := r.dbpool.ExecContext(ctx, query, dateKey, turnaroundID, string(leg))
		return err
	}

	query := `
		INSERT INTO assignments (date_key, turnaround_id, leg_type, team_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (date_key, turnaround_id, leg_type)
		DO UPDATE SET team_id = EXCLUDED.team_id
	`
	_, err := r.dbpool.ExecContext(ctx, query, dateKey, turnaroundID, string(leg), teamID)
	return err
}

// SetAssignmentPinned toggles the pin flag on an existing binding.
func (r *Repository) SetAssignmentPinned(dateKey, turnaroundID string, leg domain.LegType, pinned bool) error {
	query := `
		UPDATE assignments
		SET pinned = $1
		WHERE date_key = $2 AND turnaround_id = $3 AND leg_type = $4
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, pinned, dateKey, turnaroundID, string(leg)); err != nil {
		return err
	}

	return nil
}
