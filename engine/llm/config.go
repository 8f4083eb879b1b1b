package llm

import (
	"fmt"
	"strings"
)

// ModelParams selects the model and sampling temperature for one
// completion-backed stage.
type ModelParams struct {
	Model       string
	Temperature float64
}

// Config carries per-stage model selection. The interview and persona
// stages run free-form completions; AgentModel backs the durable coaching
// agents themselves.
type Config struct {
	InterviewModel       string  `envconfig:"INTERVIEW_MODEL" split_words:"true" default:"gpt-4"`
	InterviewTemperature float64 `envconfig:"INTERVIEW_TEMPERATURE" split_words:"true" default:"0.7"`
	PersonaModel         string  `envconfig:"PERSONA_MODEL" split_words:"true" default:"gpt-4"`
	PersonaTemperature   float64 `envconfig:"PERSONA_TEMPERATURE" split_words:"true" default:"0.8"`
	AgentModel           string  `envconfig:"AGENT_MODEL" split_words:"true" default:"gpt-4-turbo-preview"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.InterviewModel) == "" {
		return fmt.Errorf("interview model is required")
	}
	if strings.TrimSpace(c.PersonaModel) == "" {
		return fmt.Errorf("persona model is required")
	}
	if strings.TrimSpace(c.AgentModel) == "" {
		return fmt.Errorf("agent model is required")
	}
	return nil
}

func (c Config) Interview() ModelParams {
	return ModelParams{
		Model:       strings.TrimSpace(c.InterviewModel),
		Temperature: c.InterviewTemperature,
	}
}

func (c Config) Persona() ModelParams {
	return ModelParams{
		Model:       strings.TrimSpace(c.PersonaModel),
		Temperature: c.PersonaTemperature,
	}
}

func (c Config) Agent() string {
	return strings.TrimSpace(c.AgentModel)
}
