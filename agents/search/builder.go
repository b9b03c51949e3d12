package search

import (
	"os"

	"github.com/lexcodex/asklang/framework"
	"github.com/lexcodex/asklang/llm"
	"github.com/lexcodex/asklang/tools"
)

// Credential environment variables. Their absence is a construction-time
// failure, never a per-call one: a misconfigured deployment should fail before
// any conversational turn is attempted.
const (
	EnvOpenAIKey   = "OPENAI_API_KEY"
	EnvTavilyKey   = "TAVILY_API_KEY"
	EnvOpenAIModel = "OPENAI_MODEL"
)

// Build assembles a ready-to-invoke agent: OpenAI chat client plus the Tavily
// search tool, wired per cfg. Both credentials are read from the environment
// and validated first; a missing one yields a framework.ConfigError naming it.
//
// Model resolution order: cfg.Model, then OPENAI_MODEL, then the package
// default.
func Build(cfg *framework.Config) (*Agent, error) {
	if cfg == nil {
		cfg = &framework.Config{}
	}
	openAIKey, err := requireEnv(EnvOpenAIKey)
	if err != nil {
		return nil, err
	}
	tavilyKey, err := requireEnv(EnvTavilyKey)
	if err != nil {
		return nil, err
	}

	model := cfg.Model
	if model == "" {
		model = os.Getenv(EnvOpenAIModel)
	}
	if model == "" {
		model = DefaultModel
	}
	cfg.Model = model

	client := llm.NewClient(cfg.OpenAIEndpoint, model, openAIKey)
	client.SetDebugLogging(cfg.DebugLLM)

	registry := framework.NewToolRegistry()
	if err := registry.Register(tools.NewSearchTool(cfg.TavilyEndpoint, tavilyKey, cfg.MaxResults)); err != nil {
		return nil, err
	}

	return New(client, registry, cfg)
}

func requireEnv(name string) (string, error) {
	val := os.Getenv(name)
	if val == "" {
		return "", framework.MissingVar(name)
	}
	return val, nil
}
