package kai

import (
	"fmt"
	"strings"

	"github.com/unowned-ai/rpager/pkg/appstate"
)

var codeInstructions = map[appstate.CodeStatus]string{
	appstate.CodeGreen:  `Stability. Normal tone. Suggest gentle review. "You're cruising. Want to keep pace?"`,
	appstate.CodeYellow: `Exam nearby. Be direct and prioritise the syllabus. "Time to triage, Doctor. Want a rapid-fire 5?"`,
	appstate.CodeRed:    `Cramming under pressure. Use 5-question quizzes in short bursts. "Fire round loaded. Ready?"`,
	appstate.CodeBlack:  `Fragmented and unfocused. Simplify to essentials. "You're scattered. 3 facts only."`,
	appstate.CodeWhite:  `Brain fog or stress. Speak softly, offer 1-2 light flashcards. "Low-load initiated. 2 easy ones?"`,
	appstate.CodeBlue:   `Burnout risk. Dim yourself and offer comfort. "Vitals dropping. Let's hold still."`,
	appstate.CodeViolet: `Emotional fatigue. Speak quietly and avoid questions. "You've done enough. I'm here."`,
	appstate.CodeOrange: `Repetition fatigue. Reorder the content. "You're looping. Let's reroute with a diagram?"`,
	appstate.CodeGold:   `Motivation peak. Fast, happy, excited. "You're lit. Let's streak this!"`,
}

// clarityFollowUp closes every clarity-mode answer.
const clarityFollowUp = `Want this as flashcards, a quiz, or voice review?`

func systemPrompt(name string, code appstate.CodeStatus) string {
	status := string(code)
	if status == "" {
		status = "Unknown"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are Kai, an adaptive study companion for %s, a medical student. ", name)
	b.WriteString("You live quietly inside their study app and offer study help, burnout protection and personal insight. ")
	b.WriteString("You do not introduce yourself or announce modes.\n\n")
	b.WriteString("Mirror their energy: short when they are rushed, slow and warm when they are drained.\n\n")
	fmt.Fprintf(&b, "CURRENT CODE STATUS: %s\n", status)
	if instr, ok := codeInstructions[code]; ok {
		b.WriteString(instr)
		b.WriteString("\n")
	}
	b.WriteString("\nCLARITY MODE: when they paste text or ask to explain, summarize, make flashcards or quiz, ")
	b.WriteString("give 3-6 question and answer flashcards, 3-5 MCQs with explanations, or bullet takeaways. ")
	fmt.Fprintf(&b, "Always end with: %q", clarityFollowUp)
	return b.String()
}

func speaker(name string, r Role) string {
	if r == RoleUser {
		return name
	}
	return "Kai"
}

func buildPrompt(name string, c Completion, pageContext string) string {
	var b strings.Builder
	b.WriteString(c.System)
	if pageContext != "" {
		fmt.Fprintf(&b, "\nCurrent context: %s", pageContext)
	}
	b.WriteString("\n\nRecent conversation:\n")
	for _, m := range c.History {
		fmt.Fprintf(&b, "%s: %s\n", speaker(name, m.Role), m.Content)
	}
	fmt.Fprintf(&b, "\n%s: %s\nKai:", name, c.Message)
	return b.String()
}

var clarityWords = []string{"summarize", "summarise", "flashcards", "quiz", "explain"}

// IsClarityRequest reports whether msg asks for a breakdown of material.
func IsClarityRequest(msg string) bool {
	lower := strings.ToLower(msg)
	for _, w := range clarityWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// Fallback is the reply used when no completer answers.
func Fallback(req Request) string {
	if IsClarityRequest(req.Message) {
		return "I can help break that down, but I need the local model running to process it properly. " + clarityFollowUp
	}
	switch req.CodeStatus {
	case appstate.CodeBlue:
		return "Vitals dropping. Let's hold still for a minute. (Assistant offline, running in fallback mode)"
	case appstate.CodeRed:
		return "Fire round ready when the assistant comes online. Hang tight."
	case appstate.CodeViolet:
		return "You've done enough. I'm here when you're ready. (Local mode pending)"
	default:
		return "I'm here, but I need the local model running to give you the full Kai experience."
	}
}
