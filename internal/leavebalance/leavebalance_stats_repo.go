package leavebalance

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Querier is the subset of *pgxpool.Pool used for reporting.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type StatsRepository interface {
	YearStats(ctx context.Context, year int) ([]TypeStats, error)
}

type statsRepository struct {
	db Querier
}

func NewStatsRepository(db Querier) StatsRepository {
	return &statsRepository{db: db}
}

const yearStatsQuery = `
	SELECT
		lt.id::text,
		lt.name,
		COUNT(lb.id) AS employees,
		COALESCE(SUM(lb.allocated_days), 0)::text AS total_allocated,
		COALESCE(SUM(lb.used_days), 0)::text AS total_used
	FROM leave_types lt
	LEFT JOIN leave_balances lb ON lb.leave_type_id = lt.id AND lb.year = $1
	WHERE lt.is_active = TRUE OR lb.id IS NOT NULL
	GROUP BY lt.id, lt.name
	ORDER BY lt.name ASC
`

func (r *statsRepository) YearStats(ctx context.Context, year int) ([]TypeStats, error) {
	rows, err := r.db.Query(ctx, yearStatsQuery, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query leave balance stats: %w", err)
	}
	defer rows.Close()

	stats := []TypeStats{}
	for rows.Next() {
		var (
			st                    TypeStats
			allocatedRaw, usedRaw string
		)
		if err := rows.Scan(&st.LeaveTypeID, &st.LeaveTypeName, &st.Employees, &allocatedRaw, &usedRaw); err != nil {
			return nil, fmt.Errorf("failed to scan leave balance stats: %w", err)
		}
		if st.TotalAllocated, err = decimal.NewFromString(allocatedRaw); err != nil {
			return nil, fmt.Errorf("failed to parse allocated total: %w", err)
		}
		if st.TotalUsed, err = decimal.NewFromString(usedRaw); err != nil {
			return nil, fmt.Errorf("failed to parse used total: %w", err)
		}
		st.TotalRemaining = st.TotalAllocated.Sub(st.TotalUsed)
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read leave balance stats: %w", err)
	}
	return stats, nil
}
