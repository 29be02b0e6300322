// Package llm generates practice scenarios with Google's Gemini models.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/speakaussie/server/domain/entities"
	"github.com/speakaussie/server/domain/repositories"
)

const (
	defaultModel       = "gemini-2.0-flash"
	defaultTemperature = 0.8
)

var modeFocus = map[entities.SessionMode]string{
	entities.ModeEveryday:  "casual everyday situations like shopping, directions, and ordering food",
	entities.ModeSlang:     "classic Australian slang, abbreviations, and expressions like 'no worries' and 'fair dinkum'",
	entities.ModeWorkplace: "professional but friendly Australian workplace communication",
}

// GeminiScenarioGenerator implements ScenarioGenerator using Gemini.
type GeminiScenarioGenerator struct {
	client *genai.Client
	logger *zap.Logger
	model  string
}

var _ repositories.ScenarioGenerator = (*GeminiScenarioGenerator)(nil)

// NewGeminiScenarioGenerator creates a new Gemini scenario generator.
func NewGeminiScenarioGenerator(ctx context.Context, logger *zap.Logger) (*GeminiScenarioGenerator, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiScenarioGenerator{
		client: client,
		logger: logger,
		model:  defaultModel,
	}, nil
}

// GenerateScenario implements repositories.ScenarioGenerator
func (g *GeminiScenarioGenerator) GenerateScenario(ctx context.Context, mode entities.SessionMode, topic string) (*repositories.Scenario, error) {
	prompt := buildScenarioPrompt(mode, topic)
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(defaultTemperature)),
		ResponseMIMEType: "application/json",
	}

	response, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("scenario generation failed: %w", err)
	}

	text := response.Text()
	if text == "" {
		return nil, fmt.Errorf("empty scenario response")
	}

	var scenario repositories.Scenario
	if err := json.Unmarshal([]byte(text), &scenario); err != nil {
		return nil, fmt.Errorf("failed to parse scenario response: %w", err)
	}
	if scenario.Title == "" || scenario.OpeningLine == "" {
		return nil, fmt.Errorf("scenario response missing required fields")
	}

	g.logger.Info("Generated scenario",
		zap.String("mode", string(mode)),
		zap.String("title", scenario.Title))
	return &scenario, nil
}

func buildScenarioPrompt(mode entities.SessionMode, topic string) string {
	var b strings.Builder
	b.WriteString("You are an Australian English teacher. Draft a short spoken practice scenario focused on ")
	b.WriteString(modeFocus[mode])
	b.WriteString(".")
	if topic != "" {
		b.WriteString(" The learner asked to practice: ")
		b.WriteString(topic)
		b.WriteString(".")
	}
	b.WriteString(` Respond with JSON only, using the keys "title", "setting", "opening_line", and "learning_goal". The opening line will be spoken aloud, so avoid special characters and emojis.`)
	return b.String()
}
