package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/sadopc/brainrot/internal/usage"
)

// SaveCategoryAssignment upserts the category for app. Blank names are ignored.
func (s *Store) SaveCategoryAssignment(app string, category usage.Category) error {
	name := strings.TrimSpace(app)
	if name == "" {
		return nil
	}
	if !category.Counted() {
		return fmt.Errorf("save category for %q: %s cannot be persisted", name, category)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO app_categories (app, category, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(app) DO UPDATE SET app = excluded.app, category = excluded.category, updated_at = excluded.updated_at`,
		name, category.String(), now,
	)
	if err != nil {
		return fmt.Errorf("save category for %q: %w", name, err)
	}
	return nil
}

// LoadCategoryAssignments returns every persisted assignment keyed by application.
func (s *Store) LoadCategoryAssignments() (map[string]usage.Category, error) {
	list, err := s.ListCategoryAssignments()
	if err != nil {
		return nil, err
	}
	out := make(map[string]usage.Category, len(list))
	for _, a := range list {
		out[a.App] = a.Category
	}
	return out, nil
}

// ListCategoryAssignments returns assignments sorted by application name.
func (s *Store) ListCategoryAssignments() ([]CategoryAssignment, error) {
	rows, err := s.db.Query(`SELECT app, category FROM app_categories ORDER BY app COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var list []CategoryAssignment
	for rows.Next() {
		var a CategoryAssignment
		var category string
		if err := rows.Scan(&a.App, &category); err != nil {
			return nil, err
		}
		if strings.TrimSpace(a.App) == "" {
			continue
		}
		if a.Category, err = usage.ParseCategory(category); err != nil {
			return nil, fmt.Errorf("category for %q: %w", a.App, err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}
