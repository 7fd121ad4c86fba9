package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	textinput "github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/unowned-ai/rpager/pkg/appstate"
	"github.com/unowned-ai/rpager/pkg/study"
)

type model struct {
	st    *study.Store
	state *appstate.Manager

	decks    []study.Deck
	cards    []study.Flashcard
	stats    study.DeckStats
	overview overviewMsg

	columnFocus int // 0 = decks, 1 = cards, 2 = card review
	width       int // Current terminal width (for layout)
	height      int // Current terminal height
	err         error

	dbFilename string

	quitting bool

	deckCursor           int // Index of selected deck
	deckCreating         bool
	deckCreatingError    string
	deckNameInput        textinput.Model
	deckDeleting         bool
	deckDeleteConfirmIdx int // 0 = "Yes" selected, 1 = "No"

	cardCursor int  // Index of selected card
	revealed   bool // Back of the selected card is visible

	// Animation state
	marqueeOffset int
	marqueeTimer  int
}

// Initialize TUI model
func initModel(st *study.Store, state *appstate.Manager, dbFilename string) model {
	name := textinput.New()
	name.Placeholder = "Deck name"
	name.Focus()
	name.CharLimit = 128

	return model{
		st:            st,
		state:         state,
		decks:         []study.Deck{},
		cards:         []study.Flashcard{},
		dbFilename:    dbFilename,
		deckNameInput: name,
	}
}

func tick() tea.Cmd {
	return tea.Tick(marqueeTickDuration, func(t time.Time) tea.Msg {
		return t
	})
}

// Execute commands concurrently with no ordering guarantees during initialization
func (m model) Init() tea.Cmd {
	return tea.Batch(listDecks(m.st), loadOverview(m.st), tick())
}

func (m model) selectedDeckID() string {
	if m.deckCursor < len(m.decks) {
		return m.decks[m.deckCursor].ID
	}
	return ""
}

// Processes events like window resize, errors, loaded data, and key presses
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case error:
		m.err = msg
		return m, nil

	case decksMsg:
		m.decks = msg
		m.deckCursor = min(m.deckCursor, max(len(m.decks)-1, 0))
		if len(m.decks) > 0 {
			return m, listCards(m.st, m.selectedDeckID())
		}
		m.cards = []study.Flashcard{}
		return m, nil

	case cardsMsg:
		// Ignore stale loads for a deck that is no longer selected
		if msg.deckID != m.selectedDeckID() {
			return m, nil
		}
		m.cards = msg.cards
		m.stats = msg.stats
		m.cardCursor = min(m.cardCursor, max(len(m.cards)-1, 0))
		return m, nil

	case overviewMsg:
		m.overview = msg
		return m, nil

	case reviewedMsg:
		for i := range m.cards {
			if m.cards[i].ID == msg.card.ID {
				m.cards[i] = msg.card
			}
		}
		m.revealed = false
		if m.cardCursor < len(m.cards)-1 {
			m.cardCursor++
		}
		return m, tea.Batch(listCards(m.st, m.selectedDeckID()), loadOverview(m.st))

	case tea.KeyMsg:
		if m.deckCreating {
			return m.updateDeckForm(msg)
		}
		if m.deckDeleting {
			return m.updateDeckDelete(msg)
		}
		return m.updateNavigation(msg)

	case time.Time:
		// Update marquee animation every x ticks (adjust for speed)
		m.marqueeTimer++
		if m.marqueeTimer >= 10 {
			m.marqueeTimer = 0
			m.marqueeOffset++
		}
		return m, tick()
	}

	return m, nil
}

func (m model) updateDeckForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		name := strings.TrimSpace(m.deckNameInput.Value())
		if name == "" {
			m.deckCreatingError = "Deck name cannot be empty"
			return m, nil
		}
		if _, err := m.st.CreateDeck(context.Background(), name); err != nil {
			m.deckCreatingError = err.Error()
			return m, nil
		}
		m.deckCreating = false
		m.deckCreatingError = ""
		m.deckNameInput.Reset()
		return m, listDecks(m.st)

	case tea.KeyEsc:
		m.deckCreating = false
		m.deckCreatingError = ""
		m.deckNameInput.Reset()
		return m, nil
	}

	var cmd tea.Cmd
	m.deckNameInput, cmd = m.deckNameInput.Update(msg)
	return m, cmd
}

func (m model) updateDeckDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.deckDeleteConfirmIdx = 0
	case "down", "j":
		m.deckDeleteConfirmIdx = 1
	case "enter":
		m.deckDeleting = false
		if m.deckDeleteConfirmIdx != 0 {
			return m, nil
		}
		if _, err := m.st.DeleteDeck(context.Background(), m.selectedDeckID()); err != nil {
			m.err = err
			return m, nil
		}
		if m.deckCursor > 0 {
			m.deckCursor--
		}
		m.columnFocus = 0
		return m, tea.Batch(listDecks(m.st), loadOverview(m.st))
	case "esc":
		m.deckDeleting = false
	}
	return m, nil
}

func (m model) updateNavigation(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		// Exit alt screen before quitting so the goodbye message displays
		return m, tea.Sequence(tea.ExitAltScreen, tea.Quit)

	case "up", "k":
		if m.columnFocus == 0 && m.deckCursor > 0 {
			m.deckCursor--
			m.cardCursor = 0
			return m, listCards(m.st, m.selectedDeckID())
		}
		if m.columnFocus >= 1 && m.cardCursor > 0 {
			m.cardCursor--
			m.revealed = false
		}

	case "down", "j":
		if m.columnFocus == 0 && m.deckCursor < len(m.decks)-1 {
			m.deckCursor++
			m.cardCursor = 0
			return m, listCards(m.st, m.selectedDeckID())
		}
		if m.columnFocus >= 1 && m.cardCursor < len(m.cards)-1 {
			m.cardCursor++
			m.revealed = false
		}

	case "right", "l":
		if m.columnFocus < 2 && len(m.cards) > 0 {
			m.columnFocus++
		}

	case "left", "h":
		if m.columnFocus > 0 {
			m.columnFocus--
			m.revealed = false
		}

	case " ", "enter":
		if m.columnFocus == 2 {
			m.revealed = !m.revealed
		}

	case "y", "x":
		// Grade the revealed card: y = correct, x = incorrect
		if m.columnFocus == 2 && m.revealed && m.cardCursor < len(m.cards) {
			return m, reviewCard(m.st, m.cards[m.cardCursor].ID, msg.String() == "y")
		}

	case "n":
		if m.columnFocus == 0 {
			m.deckNameInput.Reset()
			m.deckNameInput.Focus()
			m.deckCreating = true
		}

	case "d":
		if m.columnFocus == 0 && len(m.decks) > 0 {
			m.deckDeleteConfirmIdx = 1
			m.deckDeleting = true
		}

	case "t":
		if m.state != nil {
			if _, err := m.state.ToggleTheme(context.Background()); err != nil {
				m.err = err
			}
		}
	}
	return m, nil
}

func (m model) headerLine() string {
	var parts []string
	if m.state != nil {
		code := m.state.Current().CodeStatus
		parts = append(parts, codeStyle(code).Render(code.String()))
	}
	stress := m.overview.stress
	parts = append(parts, labelStyle.Render("Stress: ")+stressStyle(stress.Level).Render(stress.Level.String()))
	if stress.NextExam != nil {
		parts = append(parts, labelStyle.Render("Next exam: ")+fmt.Sprintf("%s in %dd", stress.NextExam.Title, stress.NextExam.Days))
	}
	if m.overview.mood.Samples > 0 {
		lvl := m.overview.mood.Level
		parts = append(parts, labelStyle.Render("Mood: ")+fmt.Sprintf("%s %s", lvl.Emoji(), lvl.Label()))
	}
	p := m.overview.progress
	parts = append(parts, labelStyle.Render("Streak: ")+fmt.Sprintf("%dd", p.Streak))
	return strings.Join(parts, "  •  ")
}

// Assembles the UI string for each frame
func (m model) View() string {
	if m.quitting {
		return "Paging out... Study session saved.\n"
	}
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n", m.err)
	}

	titleBar := titleStyle.Width(m.width).Render("R-PAGER - clinical study companion")

	// Calculate column widths (left ~25%, middle ~35%, right ~40%)
	leftWidth := m.width / 4
	middleWidth := (m.width * 35) / 100
	rightWidth := m.width - (leftWidth + middleWidth)

	bordersAndPaddingWidth := 4
	m.deckNameInput.Width = rightWidth - bordersAndPaddingWidth
	quarterHeight := (m.height - bordersAndPaddingWidth) / 4

	// Left column: decks and info
	var decksBuilder, infoBuilder strings.Builder
	decksBuilder.WriteString(subtitleStyle.Width(leftWidth - bordersAndPaddingWidth).Render("  Decks"))
	decksBuilder.WriteString("\n\n")
	if len(m.decks) == 0 {
		decksBuilder.WriteString("No decks yet. Press 'n' to create new.\n")
	}
	for i, deck := range m.decks {
		pointer := "  "
		itemStyle := inactiveStyle
		availableWidth := leftWidth - len(pointer) - 4 - 1
		name := truncate(deck.Name, availableWidth)
		if i == m.deckCursor {
			pointer = "> "
			itemStyle = selectedStyle
			name = marqueeText(deck.Name, m.marqueeOffset, availableWidth)
		}
		name = lipgloss.NewStyle().MaxWidth(availableWidth).Render(name)
		decksBuilder.WriteString(pointer + itemStyle.Render(name) + "\n")
	}

	databaseStatus := 0
	if m.dbFilename != "" {
		databaseStatus = 1
	}
	p := m.overview.progress
	infoBuilder.WriteString(fmt.Sprintf("Database file: %v\nStudy hours: %.1f\nAccuracy: %d%%\n",
		TextStatusColorize(m.dbFilename, databaseStatus), p.StudyHours, p.Accuracy))

	decksPanel := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, true, false).
		BorderForeground(lipgloss.Color(colorGray)).
		Padding(0, 2).
		Width(leftWidth).Height(quarterHeight * 3).
		Render(decksBuilder.String())
	infoPanel := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(lipgloss.Color(colorGray)).
		Padding(1, 2).
		Width(leftWidth).Height(quarterHeight).
		Render(infoBuilder.String())
	leftPanel := lipgloss.JoinVertical(lipgloss.Left, decksPanel, infoPanel)

	// Middle column: cards of the selected deck
	var middleBuilder strings.Builder
	middleBuilder.WriteString(subtitleStyle.Width(middleWidth - bordersAndPaddingWidth).Render("  Cards"))
	middleBuilder.WriteString("\n\n")
	if len(m.cards) == 0 {
		middleBuilder.WriteString("  No cards in this deck.\n")
	} else {
		middleBuilder.WriteString(fmt.Sprintf("  %d cards • %d reviewed • %d%% accuracy\n", m.stats.Cards, m.stats.Reviewed, m.stats.Accuracy))
		middleBuilder.WriteString("  " + accentStyle.Render(progressBar(m.stats.Accuracy, 20)) + "\n\n")
		for i, card := range m.cards {
			pointer := "  "
			itemStyle := inactiveStyle
			if i == m.cardCursor && m.columnFocus != 0 {
				if m.columnFocus == 1 {
					pointer = "> "
				}
				itemStyle = selectedStyle
			}
			availableWidth := middleWidth - len(pointer) - 4 - 1
			front := lipgloss.NewStyle().MaxWidth(availableWidth).Render(truncate(card.Front, availableWidth))
			middleBuilder.WriteString(pointer + itemStyle.Render(front) + "\n")
		}
	}

	// Right column: card review, new deck form or delete confirmation
	var rightBuilder strings.Builder
	subtitle := "Review"
	switch {
	case m.deckCreating:
		subtitle = "Create New Deck"
	case m.deckDeleting:
		subtitle = "Delete Deck"
	}
	rightBuilder.WriteString(subtitleStyle.Width(rightWidth - bordersAndPaddingWidth).Render(subtitle))
	rightBuilder.WriteString("\n\n")

	switch {
	case m.deckCreating:
		rightBuilder.WriteString("Name: " + m.deckNameInput.View() + "\n\n")
		rightBuilder.WriteString("(enter to submit, esc to cancel)")
		if m.deckCreatingError != "" {
			rightBuilder.WriteString("\n\n" + errorStyle.Render(m.deckCreatingError) + "\n")
		}
	case m.deckDeleting:
		rightBuilder.WriteString("Name: " + errorStyle.Render(m.decks[m.deckCursor].Name) + "\n")
		rightBuilder.WriteString(fmt.Sprintf("Cards removed with it: %d\n\n", len(m.cards)))
		yesOpt, noOpt := "Yes", "No"
		if m.deckDeleteConfirmIdx == 0 {
			yesOpt = dangerSelectedStyle.Render(" >" + yesOpt)
			noOpt = inactiveStyle.Render("  " + noOpt)
		} else {
			yesOpt = inactiveStyle.Render("  " + yesOpt)
			noOpt = selectedStyle.Render(" >" + noOpt)
		}
		rightBuilder.WriteString(fmt.Sprintf("%s\n%s\n\n", yesOpt, noOpt))
		rightBuilder.WriteString("(enter to confirm, esc to cancel, up/down to switch)")
	case m.columnFocus > 0 && m.cardCursor < len(m.cards):
		card := m.cards[m.cardCursor]
		rightBuilder.WriteString(labelStyle.Render("Front: ") + inactiveStyle.Bold(true).Render(card.Front) + "\n\n")
		if m.revealed {
			rightBuilder.WriteString(labelStyle.Render("Back: ") + inactiveStyle.Render(card.Back) + "\n\n")
			rightBuilder.WriteString("(y if you got it, x if you missed it)\n\n")
		} else {
			rightBuilder.WriteString(accentStyle.Render("(space to reveal)") + "\n\n")
		}
		rightBuilder.WriteString(labelStyle.Render("Difficulty: ") + accentStyle.Render(string(card.Difficulty)) + "\n")
		rightBuilder.WriteString(labelStyle.Render("Answered: ") + fmt.Sprintf("%d right, %d wrong", card.CorrectCount, card.IncorrectCount))
	default:
		rightBuilder.WriteString("Select a card to review.")
	}

	panelHeightPadding := 5

	middlePanel := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(lipgloss.Color(colorGray)).
		Padding(0, 2).
		Width(middleWidth).Height(m.height - panelHeightPadding).
		Render(middleBuilder.String())
	rightPanel := lipgloss.NewStyle().Padding(0, 2).
		Width(rightWidth).Height(m.height - panelHeightPadding).
		Render(rightBuilder.String())

	columns := lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, middlePanel, rightPanel)

	footerText := "\n↑/↓ navigate • ←/→ columns • space reveal • y/x grade • n new deck • d delete • t theme • q quit"
	footerBar := footerStyle.Width(m.width).Render(footerText)

	return titleBar + "\n" + m.headerLine() + "\n\n" + columns + footerBar
}

// Create and start the Bubble Tea TUI
func ShowTUI(st *study.Store, state *appstate.Manager, dbFilename string) error {
	p := tea.NewProgram(initModel(st, state, dbFilename), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
