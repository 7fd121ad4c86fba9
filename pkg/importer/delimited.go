package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/unowned-ai/rpager/pkg/study"
)

// columns maps card fields to row indexes; -1 means absent.
type columns struct {
	front, back, deck, difficulty int
}

var positionalColumns = columns{front: 0, back: 1, deck: 2, difficulty: 3}

var headerNames = map[string]string{
	"term":       "front",
	"front":      "front",
	"question":   "front",
	"definition": "back",
	"back":       "back",
	"answer":     "back",
	"deck":       "deck",
	"difficulty": "difficulty",
}

// sniffHeader reports whether row is a header and, if so, which columns it
// names. A header may leave front or back unnamed; callers check.
func sniffHeader(row []string) (columns, bool) {
	cols := columns{front: -1, back: -1, deck: -1, difficulty: -1}
	isHeader := false
	for i, cell := range row {
		field, ok := headerNames[strings.ToLower(strings.TrimSpace(cell))]
		if !ok {
			continue
		}
		isHeader = true
		switch field {
		case "front":
			cols.front = i
		case "back":
			cols.back = i
		case "deck":
			cols.deck = i
		case "difficulty":
			cols.difficulty = i
		}
	}
	if !isHeader {
		return positionalColumns, false
	}
	return cols, true
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(strings.ReplaceAll(row[i], `"`, ""))
}

func parseDifficulty(s string, fallback study.Difficulty) (study.Difficulty, error) {
	switch d := study.Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case "":
		return fallback, nil
	case study.DifficultyEasy, study.DifficultyMedium, study.DifficultyHard:
		return d, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q", s)
	}
}

// rowParser turns table rows into candidates; it is shared by CSV and XLSX.
type rowParser struct {
	d       Defaults
	p       Preview
	cols    columns
	started bool
}

func newRowParser(d Defaults) (*rowParser, error) {
	d, err := d.normalized()
	if err != nil {
		return nil, err
	}
	return &rowParser{d: d, p: Preview{Cards: []Candidate{}, Skipped: []Skipped{}}}, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func (rp *rowParser) row(line int, row []string) {
	if blank(row) {
		return
	}
	raw := strings.Join(row, ",")
	if !rp.started {
		rp.started = true
		cols, isHeader := sniffHeader(row)
		switch {
		case !isHeader:
			rp.cols = cols
		case cols.front < 0 || cols.back < 0:
			// Columns like "term,meaning" name only one side; read by position.
			rp.cols = positionalColumns
			rp.p.skip(line, raw, "header names no front or back column; reading columns by position")
			return
		default:
			rp.cols = cols
			return
		}
	}

	front, back := cell(row, rp.cols.front), cell(row, rp.cols.back)
	if front == "" || back == "" {
		rp.p.skip(line, raw, "front and back must both be present")
		return
	}
	difficulty, err := parseDifficulty(cell(row, rp.cols.difficulty), rp.d.Difficulty)
	if err != nil {
		rp.p.skip(line, raw, "%v", err)
		return
	}
	deck := cell(row, rp.cols.deck)
	if deck == "" {
		deck = rp.d.Deck
	}

	rp.p.Cards = append(rp.p.Cards, Candidate{Line: line, Front: front, Back: back, Deck: deck, Difficulty: difficulty})
}

// ParseDelimited reads comma- or tab-separated cards. A first row naming any
// of term, definition, front, back, question, answer, deck or difficulty is a
// header and fixes the column order; otherwise columns are front, back, deck,
// difficulty. Rows that cannot become a card are skipped and reported.
func ParseDelimited(r io.Reader, comma rune, d Defaults) (Preview, error) {
	rp, err := newRowParser(d)
	if err != nil {
		return Preview{}, err
	}

	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				rp.p.skip(perr.Line, "", "%v", perr.Err)
				continue
			}
			return Preview{}, fmt.Errorf("failed to read delimited import: %w", err)
		}
		line, _ := reader.FieldPos(0)
		rp.row(line, row)
	}
	return rp.p, nil
}
