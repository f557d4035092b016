package game

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrEmptyLevel is returned when a level file has no grid rows.
	ErrEmptyLevel = errors.New("level has no rows")
	// ErrRaggedLevel is returned when rows differ in width.
	ErrRaggedLevel = errors.New("ragged level rows")
	// ErrUnknownTile is returned for characters outside the tile legend.
	ErrUnknownTile = errors.New("unknown tile character")
)

// LoadLevel reads and validates a level description before handing it to
// ParseGrid. ParseGrid itself never rejects input.
func LoadLevel(r io.Reader, tileSize float64) (*GridMap, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("level: read: %w", err)
	}
	text := string(data)
	if err := ValidateLevel(text); err != nil {
		return nil, err
	}
	return ParseGrid(text, tileSize), nil
}

// ValidateLevel checks that every row uses only legend characters and that
// all rows have the width of the first one.
func ValidateLevel(text string) error {
	_, body, _ := strings.Cut(text, "\n")
	rows := strings.Split(body, "\n")
	if n := len(rows); n > 0 && strings.TrimRight(rows[n-1], "\r") == "" {
		rows = rows[:n-1]
	}
	if len(rows) == 0 {
		return fmt.Errorf("level: %w", ErrEmptyLevel)
	}

	width := -1
	for i, row := range rows {
		row = strings.TrimRight(row, "\r")
		n := 0
		for col, ch := range []rune(row) {
			if _, ok := tileLegend[ch]; !ok {
				return fmt.Errorf("level: row %d col %d: %q: %w", i+1, col, ch, ErrUnknownTile)
			}
			n++
		}
		if width < 0 {
			width = n
			if width == 0 {
				return fmt.Errorf("level: row 1 is empty: %w", ErrEmptyLevel)
			}
			continue
		}
		if n != width {
			return fmt.Errorf("level: row %d has width %d, want %d: %w", i+1, n, width, ErrRaggedLevel)
		}
	}
	return nil
}
