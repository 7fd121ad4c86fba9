package appstate

import (
	"fmt"
	"strings"

	"github.com/unowned-ai/rpager/pkg/store"
)

// CodeStatus is the self-reported study state that tunes the assistant.
type CodeStatus string

const (
	CodeGreen  CodeStatus = "Code Green"
	CodeYellow CodeStatus = "Code Yellow"
	CodeRed    CodeStatus = "Code Red"
	CodeBlack  CodeStatus = "Code Black"
	CodeWhite  CodeStatus = "Code White"
	CodeBlue   CodeStatus = "Code Blue"
	CodeViolet CodeStatus = "Code Violet"
	CodeOrange CodeStatus = "Code Orange"
	CodeGold   CodeStatus = "Code Gold"
)

const DefaultCodeStatus = CodeGreen

var codeLabels = map[CodeStatus]string{
	CodeGreen:  "Balanced Flow",
	CodeYellow: "Exam Imminent",
	CodeRed:    "Focus Peak",
	CodeBlack:  "Overloaded",
	CodeWhite:  "Brain Fog",
	CodeBlue:   "Burnout Risk",
	CodeViolet: "Emotional Strain",
	CodeOrange: "Repetition Fatigue",
	CodeGold:   "Confidence Zone",
}

// Codes lists every code status in display order.
func Codes() []CodeStatus {
	return []CodeStatus{CodeBlue, CodeRed, CodeBlack, CodeWhite, CodeOrange, CodeYellow, CodeGreen, CodeGold, CodeViolet}
}

func (c CodeStatus) Valid() bool {
	_, ok := codeLabels[c]
	return ok
}

func (c CodeStatus) Label() string {
	return codeLabels[c]
}

func (c CodeStatus) String() string {
	if !c.Valid() {
		return string(c)
	}
	return fmt.Sprintf("%s - %s", string(c), c.Label())
}

// ParseCodeStatus accepts "Code Red", "red" or "RED".
func ParseCodeStatus(s string) (CodeStatus, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.TrimSpace(strings.TrimPrefix(name, "code"))
	for _, c := range Codes() {
		if strings.EqualFold(strings.TrimPrefix(string(c), "Code "), name) {
			return c, nil
		}
	}
	return "", store.Invalid("code_status", "unknown code status %q", s)
}
