package importer

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ParseText reads one "front: back" card per line. Blank lines are ignored;
// lines without a colon or with an empty side are skipped and reported.
func ParseText(r io.Reader, d Defaults) (Preview, error) {
	d, err := d.normalized()
	if err != nil {
		return Preview{}, err
	}
	p := Preview{Cards: []Candidate{}, Skipped: []Skipped{}}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		raw := sc.Text()
		if strings.TrimSpace(raw) == "" {
			continue
		}

		colon := strings.Index(raw, ":")
		if colon <= 0 {
			p.skip(line, raw, "expected \"front: back\"")
			continue
		}
		front := strings.TrimSpace(raw[:colon])
		back := strings.TrimSpace(raw[colon+1:])
		if front == "" || back == "" {
			p.skip(line, raw, "front and back must both be present")
			continue
		}

		p.Cards = append(p.Cards, Candidate{Line: line, Front: front, Back: back, Deck: d.Deck, Difficulty: d.Difficulty})
	}
	if err := sc.Err(); err != nil {
		return Preview{}, fmt.Errorf("failed to read text import: %w", err)
	}
	return p, nil
}
