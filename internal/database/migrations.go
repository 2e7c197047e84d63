package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Issue indexes for filtering and sorting
		{"issues", "idx_issues_project_id", "project_id"},
		{"issues", "idx_issues_reporter_id", "reporter_id"},
		{"issues", "idx_issues_assignee_id", "assignee_id"},
		{"issues", "idx_issues_status", "status"},
		{"issues", "idx_issues_priority", "priority"},
		{"issues", "idx_issues_created_at", "created_at"},

		// Comment thread lookups
		{"comments", "idx_comments_issue_id", "issue_id"},
		{"comments", "idx_comments_parent_comment_id", "parent_comment_id"},

		// Project catalog ordering
		{"projects", "idx_projects_created_at", "created_at"},
		{"projects", "idx_projects_owner_id", "owner_id"},
	}

	for _, idx := range indexes {
		// Check if index already exists
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
