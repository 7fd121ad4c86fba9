package importer

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/unowned-ai/rpager/pkg/store"
	"github.com/unowned-ai/rpager/pkg/study"
)

func openStore(t *testing.T) *study.Store {
	t.Helper()
	now := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	s, err := study.Open(context.Background(), store.NewMemoryKV(), nil, study.Options{
		Location: time.UTC,
		Now:      func() time.Time { return now },
	})
	require.NoError(t, err)
	return s
}

const sampleText = `Tachycardia: Heart rate over 100 bpm
Bradycardia: Heart rate under 60 bpm

no colon on this line
Hypertension: High blood pressure
: missing front
Hypotension: Low blood pressure
Tachypnea: Rapid breathing
`

func TestParseTextPreviewDoesNotPersist(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	p, err := ParseText(strings.NewReader(sampleText), Defaults{Deck: "Cardiology"})
	require.NoError(t, err)
	require.Len(t, p.Cards, 5)
	require.Len(t, p.Skipped, 2)

	assert.Equal(t, Candidate{Line: 1, Front: "Tachycardia", Back: "Heart rate over 100 bpm", Deck: "Cardiology", Difficulty: study.DifficultyMedium}, p.Cards[0])
	assert.Equal(t, 4, p.Skipped[0].Line)
	assert.Equal(t, 6, p.Skipped[1].Line)

	decks, err := s.ListDecks(ctx)
	require.NoError(t, err)
	for _, d := range decks {
		cards, err := s.Cards(ctx, d.ID)
		require.NoError(t, err)
		assert.Empty(t, cards)
	}

	res, err := p.Confirm(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Added)
	assert.Equal(t, []string{"Cardiology"}, res.DecksCreated)

	deck, err := s.DeckByName(ctx, "cardiology")
	require.NoError(t, err)
	cards, err := s.Cards(ctx, deck.ID)
	require.NoError(t, err)
	require.Len(t, cards, 5)
	assert.Equal(t, "Tachypnea", cards[4].Front)
}

func TestParseTextSplitsAtFirstColon(t *testing.T) {
	p, err := ParseText(strings.NewReader("Ratio: 3:1 mix\n"), Defaults{})
	require.NoError(t, err)
	require.Len(t, p.Cards, 1)
	assert.Equal(t, "3:1 mix", p.Cards[0].Back)
	assert.Equal(t, study.DefaultDeckName, p.Cards[0].Deck)
}

func TestParseDelimited(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		comma   rune
		want    []Candidate
		skipped int
	}{
		{
			name:  "positional",
			input: "Aorta,Main artery\nVena cava,Main vein,Anatomy,hard\n",
			comma: ',',
			want: []Candidate{
				{Line: 1, Front: "Aorta", Back: "Main artery", Deck: "Bulk", Difficulty: study.DifficultyEasy},
				{Line: 2, Front: "Vena cava", Back: "Main vein", Deck: "Anatomy", Difficulty: study.DifficultyHard},
			},
		},
		{
			name:  "header reorders columns",
			input: "Deck,Definition,Term\nAnatomy,Main artery,Aorta\n,,Empty\n",
			comma: ',',
			want: []Candidate{
				{Line: 2, Front: "Aorta", Back: "Main artery", Deck: "Anatomy", Difficulty: study.DifficultyEasy},
			},
			skipped: 1,
		},
		{
			name:  "quoted fields and unknown difficulty",
			input: "front,back,difficulty\n\"Femur, long\",\"Thigh bone\",easy\nTibia,Shin bone,extreme\n",
			comma: ',',
			want: []Candidate{
				{Line: 2, Front: "Femur, long", Back: "Thigh bone", Deck: "Bulk", Difficulty: study.DifficultyEasy},
			},
			skipped: 1,
		},
		{
			name:  "tab separated",
			input: "question\tanswer\nPulse\tHeartbeat felt at an artery\n",
			comma: '\t',
			want: []Candidate{
				{Line: 2, Front: "Pulse", Back: "Heartbeat felt at an artery", Deck: "Bulk", Difficulty: study.DifficultyEasy},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParseDelimited(strings.NewReader(tt.input), tt.comma, Defaults{Deck: "Bulk", Difficulty: study.DifficultyEasy})
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, p.Cards); diff != "" {
				t.Errorf("cards mismatch (-want +got):\n%s", diff)
			}
			assert.Len(t, p.Skipped, tt.skipped)
		})
	}
}

func TestParseDelimitedHeaderWithoutCardColumns(t *testing.T) {
	p, err := ParseDelimited(strings.NewReader("term,meaning\nMI,heart attack\nCVA,stroke\n"), ',', Defaults{})
	require.NoError(t, err)

	want := []Candidate{
		{Line: 2, Front: "MI", Back: "heart attack", Deck: study.DefaultDeckName, Difficulty: study.DifficultyMedium},
		{Line: 3, Front: "CVA", Back: "stroke", Deck: study.DefaultDeckName, Difficulty: study.DifficultyMedium},
	}
	if diff := cmp.Diff(want, p.Cards); diff != "" {
		t.Errorf("cards mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, p.Skipped, 1)
	assert.Equal(t, 1, p.Skipped[0].Line)
	assert.Contains(t, p.Skipped[0].Reason, "no front or back column")
}

func TestParseRejectsUnknownDefaultDifficulty(t *testing.T) {
	d := Defaults{Difficulty: "banana"}

	_, err := ParseText(strings.NewReader("a: b\n"), d)
	require.ErrorIs(t, err, store.ErrInvalid)

	_, err = ParseDelimited(strings.NewReader("a,b\n"), ',', d)
	require.ErrorIs(t, err, store.ErrInvalid)

	_, err = ParseFile("cards.xlsx", workbook(t, [][]any{{"a", "b"}}), d)
	require.ErrorIs(t, err, store.ErrInvalid)

	p, err := ParseText(strings.NewReader("a: b\n"), Defaults{Difficulty: "Hard"})
	require.NoError(t, err)
	require.Len(t, p.Cards, 1)
	assert.Equal(t, study.DifficultyHard, p.Cards[0].Difficulty)
}

func workbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellRef, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParseXLSX(t *testing.T) {
	buf := workbook(t, [][]any{
		{"Front", "Back", "Deck"},
		{"Neuron", "Nerve cell", "Neuro"},
		{"Synapse", "", "Neuro"},
		{"Axon", "Carries impulses away", ""},
	})

	p, err := ParseFile("cards.xlsx", buf, Defaults{Deck: "Imported"})
	require.NoError(t, err)
	assert.Equal(t, "cards.xlsx", p.Source)

	want := []Candidate{
		{Line: 2, Front: "Neuron", Back: "Nerve cell", Deck: "Neuro", Difficulty: study.DifficultyMedium},
		{Line: 4, Front: "Axon", Back: "Carries impulses away", Deck: "Imported", Difficulty: study.DifficultyMedium},
	}
	if diff := cmp.Diff(want, p.Cards); diff != "" {
		t.Errorf("cards mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, p.Skipped, 1)
	assert.Equal(t, 3, p.Skipped[0].Line)
	assert.Equal(t, []string{"Neuro", "Imported"}, p.Decks())
}

func TestParseFileDispatch(t *testing.T) {
	_, err := ParseFile("media.zip", strings.NewReader(""), Defaults{})
	require.ErrorIs(t, err, ErrArchiveNotSupported)

	_, err = ParseFile("slides.pptx", strings.NewReader(""), Defaults{})
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	p, err := ParseFile("DECK.TXT", strings.NewReader("a: b\n"), Defaults{})
	require.NoError(t, err)
	assert.Len(t, p.Cards, 1)
}

func TestConfirmReusesExistingDeck(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	existing, err := s.CreateDeck(ctx, "Anatomy")
	require.NoError(t, err)

	p, err := ParseDelimited(strings.NewReader("Aorta,Main artery,anatomy\nNeuron,Nerve cell,Neuro\n"), ',', Defaults{})
	require.NoError(t, err)

	res, err := p.Confirm(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Added)
	assert.Equal(t, []string{"Neuro"}, res.DecksCreated)

	cards, err := s.Cards(ctx, existing.ID)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "Aorta", cards[0].Front)
}

func TestConfirmBadCandidateCreatesNothing(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	p := Preview{Cards: []Candidate{
		{Line: 1, Front: "Aorta", Back: "Main artery", Deck: "Cardio", Difficulty: study.DifficultyEasy},
		{Line: 2, Front: "Neuron", Back: "Nerve cell", Deck: "Neuro", Difficulty: "banana"},
	}}
	_, err := p.Confirm(ctx, s)
	require.ErrorIs(t, err, store.ErrInvalid)

	decks, err := s.ListDecks(ctx)
	require.NoError(t, err)
	for _, d := range decks {
		assert.NotContains(t, []string{"Cardio", "Neuro"}, d.Name)
	}
	cards, err := s.Cards(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestConfirmEmptyPreview(t *testing.T) {
	res, err := Preview{}.Confirm(context.Background(), openStore(t))
	require.NoError(t, err)
	assert.Zero(t, res)
}
