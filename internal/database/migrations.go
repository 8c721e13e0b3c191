package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// EnsureIndexes adds the lookup indexes the authorization queries rely on.
// Relation tables are keyed (user_id, team_id), so lookups by team need their
// own index.
func EnsureIndexes(db *gorm.DB, log *logrus.Logger) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Relation lookups by team
		{"team_memberships", "idx_team_memberships_team_id", "team_id"},
		{"team_manager_assignments", "idx_team_manager_assignments_team_id", "team_id"},
		{"team_partner_assignments", "idx_team_partner_assignments_team_id", "team_id"},

		// Organisation scoping and lifecycle filters
		{"users", "idx_users_organisation_id", "organisation_id"},
		{"users", "idx_users_department_id", "department_id"},
		{"users", "idx_users_state", "state"},
		{"users", "idx_users_archived_by_id", "archived_by_id"},
		{"teams", "idx_teams_created_by_id", "created_by_id"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			log.WithField("index", idx.name).Debug("Index already exists, skipping")
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.WithFields(logrus.Fields{
			"index":   idx.name,
			"table":   idx.table,
			"columns": idx.columns,
		}).Info("Created index")
	}

	return nil
}
