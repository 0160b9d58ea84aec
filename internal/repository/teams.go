package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aerops-dev/crew-scheduler/backend/internal/domain"
)

func (r *Repository) GetAllTeams() ([]*domain.Team, error) {
	query := `
		SELECT
			id,
			name,
			shift_start_hour,
			shift_end_hour,
			members,
			version
		FROM teams
		ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := []*domain.Team{}
	for rows.Next() {
		var team domain.Team
		var members []byte
		dst := []any{
			&team.ID,
			&team.Name,
			&team.ShiftStartHour,
			&team.ShiftEndHour,
			&members,
			&team.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(members, &team.Members); err != nil {
			return nil, err
		}
		teams = append(teams, &team)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return teams, nil
}

func (r *Repository) GetTeamByID(id string) (*domain.Team, error) {
	query := `
		SELECT
			name,
			shift_start_hour,
			shift_end_hour,
			members,
			version
		FROM teams
		WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	team := &domain.Team{
		ID: id,
	}

	var members []byte
	dst := []any{
		&team.Name,
		&team.ShiftStartHour,
		&team.ShiftEndHour,
		&members,
		&team.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(members, &team.Members); err != nil {
		return nil, err
	}

	return team, nil
}

func (r *Repository) CreateTeam(team *domain.Team) error {
	query := `
		INSERT INTO teams (id, name, shift_start_hour, shift_end_hour, members)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING version
	`

	members, err := json.Marshal(team.Members)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{team.ID, team.Name, team.ShiftStartHour, team.ShiftEndHour, members}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&team.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateTeam(team *domain.Team) error {
	query := `
		UPDATE teams
		SET
			name = $1,
			shift_start_hour = $2,
			shift_end_hour = $3,
			members = $4,
			version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING version
	`

	members, err := json.Marshal(team.Members)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{team.Name, team.ShiftStartHour, team.ShiftEndHour, members, team.ID, team.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&team.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteTeam(id string) error {
	query := `
		DELETE FROM teams WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}

// ReplaceAllTeams swaps the whole roster in one transaction, used when a
// committed capacity plan materializes a fresh set of crews.
func (r *Repository) ReplaceAllTeams(teams []*domain.Team) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM teams`); err != nil {
		return err
	}

	query := `
		INSERT INTO teams (id, name, shift_start_hour, shift_end_hour, members)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING version
	`
	for _, team := range teams {
		members, err := json.Marshal(team.Members)
		if err != nil {
			return err
		}
		params := []any{team.ID, team.Name, team.ShiftStartHour, team.ShiftEndHour, members}
		if err := tx.QueryRowContext(ctx, query, params...).Scan(&team.Version); err != nil {
			return err
		}
	}

	return tx.Commit()
}
