package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var countedTables = []string{"users", "posts", "tags", "post_tags", "likes", "follows", "images"}

type statsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) CountTables(ctx context.Context) (int, error) {
	var count int

	err := r.db.GetContext(ctx, &count, `
			SELECT COUNT(*)
			FROM information_schema.tables
			WHERE table_schema = 'public'
		`)

	if err != nil {
		return 0, fmt.Errorf("failed to count database tables: %w", err)
	}

	return count, nil
}

func (r *statsRepository) RowCounts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, len(countedTables))

	for _, table := range countedTables {
		var count int
		// table names come from countedTables, never from input
		if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM `+table); err != nil {
			return nil, fmt.Errorf("failed to count rows of %s: %w", table, err)
		}
		counts[table] = count
	}

	return counts, nil
}
