package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/upca/personnel-console/internal/dashboard"
)

var countQueries = map[dashboard.Source]string{
	dashboard.SourceNovedades:     "SELECT COUNT(*) FROM novedades",
	dashboard.SourceIncapacidades: "SELECT COUNT(*) FROM incapacidades",
	dashboard.SourceEnfermeria:    "SELECT COUNT(*) FROM enfermeria",
	dashboard.SourceUsuarios:      "SELECT COUNT(*) FROM users",
}

type Counter struct {
	db *sqlx.DB
}

func NewCounter(db *sqlx.DB) dashboard.CounterAPI {
	return &Counter{db: db}
}

func (c *Counter) Count(ctx context.Context, source dashboard.Source) (int64, error) {
	query, ok := countQueries[source]
	if !ok {
		return 0, fmt.Errorf("dashboard: unknown source %q", source)
	}
	var n int64
	if err := c.db.GetContext(ctx, &n, query); err != nil {
		return 0, fmt.Errorf("count %s: %w", source, err)
	}
	return n, nil
}
