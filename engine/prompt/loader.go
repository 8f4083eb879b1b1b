package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/interviewer.txt
	interviewerRaw string

	//go:embed template/persona.txt
	personaRaw string

	//go:embed template/coach_instructions.txt
	coachInstructionsRaw string

	//go:embed template/welcome.txt
	welcomeRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	Interviewer       string
	Persona           string
	CoachInstructions string
	Welcome           string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
// This is safe to call concurrently; the embed is compile-time, and trimming is cheap.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Interviewer:       strings.TrimSpace(interviewerRaw),
		Persona:           strings.TrimSpace(personaRaw),
		CoachInstructions: strings.TrimSpace(coachInstructionsRaw),
		Welcome:           strings.TrimSpace(welcomeRaw),
	}
}

// Render substitutes {key} placeholders in a template.
func Render(template string, vars map[string]string) string {
	if len(vars) == 0 {
		return template
	}
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
