package contracts

import "context"

// BarReader supplies per-symbol daily bars, ascending by date.
// The second return value reports whether the symbol has any usable data;
// an unavailable symbol is not an error, the caller simply excludes it.
type BarReader interface {
	Bars(ctx context.Context, symbol string) ([]Bar, bool, error)
}

// BarWriter persists per-symbol daily bars.
type BarWriter interface {
	SaveBars(ctx context.Context, symbol string, bars []Bar) error
}

// UniverseProvider supplies the ordered list of asset symbols to analyze.
type UniverseProvider interface {
	Symbols(ctx context.Context) ([]string, error)
}
