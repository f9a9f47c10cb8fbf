package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Instruments maps trading symbols to the identifiers a Provider loads by.
// A nil *Instruments resolves every symbol to itself.
type Instruments struct {
	keys    map[string]string
	symbols []string
}

// NewInstruments builds a map from symbol -> identifier pairs, keeping the
// order of first appearance.
func NewInstruments(pairs ...[2]string) *Instruments {
	in := &Instruments{keys: make(map[string]string)}
	for _, p := range pairs {
		in.add(p[0], p[1])
	}
	return in
}

func (in *Instruments) add(symbol, key string) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	key = strings.TrimSpace(key)
	if symbol == "" {
		return
	}
	if _, ok := in.keys[symbol]; ok {
		return
	}
	in.keys[symbol] = key
	in.symbols = append(in.symbols, symbol)
}

// LoadInstruments reads a CSV with a header containing "tradingsymbol" and
// "instrument_key" columns. Other columns are ignored.
func LoadInstruments(path string) (*Instruments, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open instruments: %w", err)
	}
	defer f.Close()
	return ReadInstruments(f)
}

func ReadInstruments(r io.Reader) (*Instruments, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read instruments header: %w", err)
	}
	symCol, keyCol := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "tradingsymbol", "symbol":
			symCol = i
		case "instrument_key", "key":
			keyCol = i
		}
	}
	if symCol < 0 || keyCol < 0 {
		return nil, fmt.Errorf("instruments: header needs tradingsymbol and instrument_key, got %v", header)
	}

	in := NewInstruments()
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return in, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read instruments: %w", err)
		}
		if len(row) <= symCol || len(row) <= keyCol {
			continue
		}
		in.add(row[symCol], row[keyCol])
	}
}

// Resolve returns the identifier for symbol. ok is false when the symbol is
// mapped to nothing.
func (in *Instruments) Resolve(symbol string) (key string, ok bool) {
	if in == nil {
		return symbol, symbol != ""
	}
	key, ok = in.keys[strings.ToUpper(strings.TrimSpace(symbol))]
	if key == "" {
		return "", false
	}
	return key, ok
}

// Symbols returns the mapped symbols in file order.
func (in *Instruments) Symbols() []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in.symbols))
	copy(out, in.symbols)
	return out
}

func (in *Instruments) Len() int {
	if in == nil {
		return 0
	}
	return len(in.symbols)
}
