package llm

import (
	"context"

	"github.com/speakaussie/server/domain/entities"
	"github.com/speakaussie/server/domain/repositories"
)

// MockScenarioGenerator is a placeholder implementation for scenario drafting
type MockScenarioGenerator struct{}

var _ repositories.ScenarioGenerator = (*MockScenarioGenerator)(nil)

// NewMockScenarioGenerator creates a new mock scenario generator
func NewMockScenarioGenerator() *MockScenarioGenerator {
	return &MockScenarioGenerator{}
}

// GenerateScenario returns a canned scenario.
func (g *MockScenarioGenerator) GenerateScenario(ctx context.Context, mode entities.SessionMode, topic string) (*repositories.Scenario, error) {
	return &repositories.Scenario{
		Title:        "Ordering a flat white",
		Setting:      "A busy Melbourne cafe on a Monday morning",
		OpeningLine:  "G'day! What can I get ya?",
		LearningGoal: "Order coffee and make small talk with the barista",
	}, nil
}
