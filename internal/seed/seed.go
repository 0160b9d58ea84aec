package seed

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/aerops-dev/crew-scheduler/backend/internal/domain"
	"github.com/aerops-dev/crew-scheduler/backend/internal/repository"
)

// EnsureSchema creates the tables the service needs. Safe to run repeatedly.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS teams (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			shift_start_hour DOUBLE PRECISION NOT NULL,
			shift_end_hour DOUBLE PRECISION NOT NULL,
			members JSONB NOT NULL DEFAULT '[]',
			version INTEGER NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS assignments (
			date_key TEXT NOT NULL,
			turnaround_id TEXT NOT NULL,
			leg_type TEXT NOT NULL CHECK (leg_type IN ('arrival', 'departure')),
			team_id TEXT NOT NULL,
			pinned BOOLEAN NOT NULL DEFAULT FALSE,
			PRIMARY KEY (date_key, turnaround_id, leg_type)
		)`,
		`CREATE INDEX IF NOT EXISTS assignments_date_key_idx ON assignments (date_key)`,
	}

	for _, stmt := range ddl {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func crew(leader, driver, headset, loader, loader2 string, startHour float64) []domain.CrewMember {
	return []domain.CrewMember{
		{Name: leader, Skill: domain.SkillLeader, StartHour: startHour},
		{Name: driver, Skill: domain.SkillDriver, StartHour: startHour},
		{Name: headset, Skill: domain.SkillHeadset, StartHour: startHour},
		{Name: loader, Skill: domain.SkillLoader, StartHour: startHour},
		{Name: loader2, Skill: domain.SkillLoader, StartHour: startHour},
	}
}

func demoTeams() []*domain.Team {
	return []*domain.Team{
		{ID: "team_1", Name: "Crew 1", ShiftStartHour: 4, ShiftEndHour: 12,
			Members: crew("Sadhbh O'Neill", "Cormac Moore", "Riona Walsh", "Aisling Moore", "Nuala Kennedy", 4)},
		{ID: "team_2", Name: "Crew 2", ShiftStartHour: 4, ShiftEndHour: 12,
			Members: crew("Fionnuala Kelly", "Aisling Murray", "Tara O'Neill", "Niall Kennedy", "Rory Daly", 4)},
		{ID: "team_3", Name: "Crew 3", ShiftStartHour: 4, ShiftEndHour: 12,
			Members: crew("Blathnaid O'Sullivan", "Sorcha McCarthy", "Nuala O'Reilly", "Rory Johnston", "Aisling McMahon", 4)},
		{ID: "team_4", Name: "Crew 4", ShiftStartHour: 13, ShiftEndHour: 21,
			Members: crew("Conor Clarke", "Fionnuala Gallagher", "Ronan McLoughlin", "Nuala Hughes", "Conor O'Connor", 13)},
		{ID: "team_5", Name: "Crew 5", ShiftStartHour: 5, ShiftEndHour: 13,
			Members: crew("Riona Thompson", "Declan Browne", "Aisling Kennedy", "Blathnaid Browne", "Fionnuala O'Brien", 5)},
		{ID: "team_6", Name: "Crew 6", ShiftStartHour: 5, ShiftEndHour: 13,
			Members: crew("Caoimhe Doherty", "Grainne Johnston", "Cara Martin", "Fionnuala Martin", "Sadhbh Johnston", 5)},
	}
}

// SeedDemoTeams inserts the demo crew roster, skipping teams that already
// exist.
func SeedDemoTeams(repo *repository.Repository) {
	inserted := 0
	for _, team := range demoTeams() {
		if err := repo.CreateTeam(team); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				slog.Info("team already exists, skipping", "id", team.ID)
				continue
			}
			slog.Error("failed to insert team", "id", team.ID, "error", err)
			continue
		}
		inserted++
	}
	slog.Info("demo teams seeded", "count", inserted)
}
