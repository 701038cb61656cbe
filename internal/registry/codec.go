package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// playSuffix is appended to every media reference in the lookup table; the
// card scanner consumes the composite value as a play command.
const playSuffix = ":play"

// fieldSeparator joins card fields in the row file. Values are cleansed of
// the separator at the search edge; raw /update input is written as-is.
const fieldSeparator = ";"

// Codec serializes the registry snapshot to its two file representations.
// It is the sole writer of both files, and always rewrites them in full
// from the same snapshot so they cannot diverge.
type Codec struct {
	rowPath    string
	lookupPath string
}

// NewCodec builds a codec writing to the given row and lookup file paths.
func NewCodec(rowPath, lookupPath string) *Codec {
	return &Codec{rowPath: rowPath, lookupPath: lookupPath}
}

// Load reads the row-oriented file. A missing file yields an empty
// registry. Each non-blank line splits on the field separator; missing
// fields load as empty strings and surplus fields are dropped, matching
// how the store has always tolerated hand-edited rows.
func (c *Codec) Load() ([]Card, error) {
	content, err := os.ReadFile(c.rowPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read row store: %w", err)
	}

	var cards []Card
	for _, line := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, fieldSeparator)
		cards = append(cards, Card{
			ID:   fieldAt(fields, 0),
			Name: fieldAt(fields, 1),
			URL:  fieldAt(fields, 2),
		})
	}
	return cards, nil
}

// Save rewrites both representations from the snapshot. Either write
// failing is surfaced to the caller; a broadcast must never outrun a
// failed write silently.
func (c *Codec) Save(cards []Card) error {
	lines := make([]string, 0, len(cards))
	lookup := make(map[string]string, len(cards))
	for _, card := range cards {
		lines = append(lines, strings.Join([]string{card.ID, card.Name, card.URL}, fieldSeparator))
		lookup[card.ID] = card.URL + playSuffix
	}

	if err := os.WriteFile(c.rowPath, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		return fmt.Errorf("write row store: %w", err)
	}

	encoded, err := json.MarshalIndent(lookup, "", "  ")
	if err != nil {
		return fmt.Errorf("encode lookup store: %w", err)
	}
	if err := os.WriteFile(c.lookupPath, encoded, 0o644); err != nil {
		return fmt.Errorf("write lookup store: %w", err)
	}
	return nil
}

func fieldAt(fields []string, index int) string {
	if index < len(fields) {
		return fields[index]
	}
	return ""
}
