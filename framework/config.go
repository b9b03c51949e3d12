package framework

import "fmt"

// Config contains the knobs supplied by the server or CLI. Agents store the
// pointer passed at construction so they can reference shared defaults (model
// name, round-trip caps, etc.) inside their loop logic.
type Config struct {
	Model          string    `yaml:"model"`
	AnswerMode     string    `yaml:"answer_mode"`
	MaxRoundTrips  int       `yaml:"max_round_trips"`
	MaxResults     int       `yaml:"max_results"`
	OpenAIEndpoint string    `yaml:"openai_endpoint"`
	TavilyEndpoint string    `yaml:"tavily_endpoint"`
	TelemetryLog   string    `yaml:"telemetry_log"`
	DebugLLM       bool      `yaml:"debug_llm"`
	Telemetry      Telemetry `yaml:"-"`
}

// ConfigError reports a missing or invalid piece of required configuration.
// It is raised at construction time, before any model or search call is
// attempted, and always names the variable the operator must set.
type ConfigError struct {
	Variable string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing environment variable: %s (set it in your shell or .env)", e.Variable)
}

// MissingVar builds the standard configuration error for an unset variable.
func MissingVar(name string) error {
	return &ConfigError{Variable: name}
}
