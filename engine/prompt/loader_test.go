package prompt

import (
	"strings"
	"testing"
)

func TestLoadPromptSet(t *testing.T) {
	t.Parallel()

	set := LoadPromptSet()

	prompts := map[string]string{
		"interviewer":        set.Interviewer,
		"persona":            set.Persona,
		"coach instructions": set.CoachInstructions,
		"welcome":            set.Welcome,
	}
	for name, body := range prompts {
		if strings.TrimSpace(body) == "" {
			t.Errorf("%s prompt is empty", name)
		}
		if body != strings.TrimSpace(body) {
			t.Errorf("%s prompt not trimmed", name)
		}
	}

	for _, placeholder := range []string{"{name}", "{expertise}", "{personality}", "{coaching_style}"} {
		if !strings.Contains(set.CoachInstructions, placeholder) {
			t.Errorf("coach instructions missing placeholder %s", placeholder)
		}
	}
	if !strings.Contains(set.Welcome, "{name}") {
		t.Error("welcome prompt missing {name} placeholder")
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		template string
		vars     map[string]string
		want     string
	}{
		{
			name:     "substitutes all keys",
			template: "Hi {name}, focus: {expertise}.",
			vars:     map[string]string{"name": "Dana", "expertise": "running"},
			want:     "Hi Dana, focus: running.",
		},
		{
			name:     "repeated placeholder",
			template: "{name} and {name}",
			vars:     map[string]string{"name": "Dana"},
			want:     "Dana and Dana",
		},
		{
			name:     "no vars returns template",
			template: "plain {text}",
			vars:     nil,
			want:     "plain {text}",
		},
		{
			name:     "unknown placeholder left intact",
			template: "{name} {unknown}",
			vars:     map[string]string{"name": "Dana"},
			want:     "Dana {unknown}",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Render(tt.template, tt.vars); got != tt.want {
				t.Fatalf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}
