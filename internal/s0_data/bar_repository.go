package s0_data

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/tremor/internal/contracts"
)

// BarRepository is the Postgres-backed bar store, used instead of the
// file cache when DATABASE_URL is configured. Same contract as BarCache:
// a symbol with no rows is unavailable, not an error.
type BarRepository struct {
	pool *pgxpool.Pool
}

// NewBarRepository creates a new bar repository.
func NewBarRepository(pool *pgxpool.Pool) *BarRepository {
	return &BarRepository{pool: pool}
}

// Bars retrieves the ascending daily bar series for a symbol.
func (r *BarRepository) Bars(ctx context.Context, symbol string) ([]contracts.Bar, bool, error) {
	query := `
		SELECT trade_date, close_price
		FROM data.daily_bars
		WHERE symbol = $1
		ORDER BY trade_date ASC
	`

	rows, err := r.pool.Query(ctx, query, strings.ToUpper(symbol))
	if err != nil {
		return nil, false, fmt.Errorf("query bars for %s: %w", symbol, err)
	}
	defer rows.Close()

	var bars []contracts.Bar
	for rows.Next() {
		var b contracts.Bar
		if err := rows.Scan(&b.Date, &b.Close); err != nil {
			return nil, false, fmt.Errorf("scan bar for %s: %w", symbol, err)
		}
		bars = append(bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate bars for %s: %w", symbol, err)
	}

	if len(bars) == 0 {
		return nil, false, nil
	}
	return bars, true, nil
}

// SaveBars upserts a batch of bars for a symbol. Re-ingesting a date
// replaces its close (last writer wins), matching the file cache merge.
func (r *BarRepository) SaveBars(ctx context.Context, symbol string, bars []contracts.Bar) error {
	if len(bars) == 0 {
		return nil
	}

	query := `
		INSERT INTO data.daily_bars (symbol, trade_date, close_price)
		VALUES ($1, $2, $3)
		ON CONFLICT (symbol, trade_date) DO UPDATE SET
			close_price = EXCLUDED.close_price
	`

	code := strings.ToUpper(symbol)
	for _, bar := range bars {
		if _, err := r.pool.Exec(ctx, query, code, bar.Date, bar.Close); err != nil {
			return fmt.Errorf("upsert bar %s/%s: %w", code, contracts.FormatDate(bar.Date), err)
		}
	}
	return nil
}
