package sim

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrPositionExists = errors.New("position already open")
	ErrNoPosition     = errors.New("no open position")
)

// PositionBook holds the currently open positions, at most one per symbol.
type PositionBook struct {
	positions map[string]Position
}

func NewPositionBook() *PositionBook {
	return &PositionBook{positions: make(map[string]Position)}
}

// Open inserts p. It fails if the symbol already has an open position.
func (b *PositionBook) Open(p Position) error {
	if p.Symbol == "" {
		return fmt.Errorf("open position: empty symbol")
	}
	if _, ok := b.positions[p.Symbol]; ok {
		return fmt.Errorf("open %s: %w", p.Symbol, ErrPositionExists)
	}
	b.positions[p.Symbol] = p
	return nil
}

// Close removes and returns the position for symbol.
func (b *PositionBook) Close(symbol string) (Position, error) {
	p, ok := b.positions[symbol]
	if !ok {
		return Position{}, fmt.Errorf("close %s: %w", symbol, ErrNoPosition)
	}
	delete(b.positions, symbol)
	return p, nil
}

func (b *PositionBook) Get(symbol string) (Position, bool) {
	p, ok := b.positions[symbol]
	return p, ok
}

func (b *PositionBook) Has(symbol string) bool {
	_, ok := b.positions[symbol]
	return ok
}

func (b *PositionBook) Len() int { return len(b.positions) }

// Symbols returns the open symbols in lexicographic order.
func (b *PositionBook) Symbols() []string {
	out := make([]string, 0, len(b.positions))
	for s := range b.positions {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Positions returns the open positions ordered by symbol.
func (b *PositionBook) Positions() []Position {
	syms := b.Symbols()
	out := make([]Position, 0, len(syms))
	for _, s := range syms {
		out = append(out, b.positions[s])
	}
	return out
}

// OpenRisk sums RiskAmount over the open positions by scanning the book.
func (b *PositionBook) OpenRisk() float64 {
	var sum float64
	for _, p := range b.positions {
		sum += p.RiskAmount
	}
	return sum
}
