package repositories

import (
	"context"

	"github.com/speakaussie/server/domain/entities"
)

// Scenario is a generated practice prompt for a conversation mode.
type Scenario struct {
	Title        string `json:"title"`
	Setting      string `json:"setting"`
	OpeningLine  string `json:"opening_line"`
	LearningGoal string `json:"learning_goal"`
}

// ScenarioGenerator abstracts the LLM that drafts practice scenarios.
type ScenarioGenerator interface {
	GenerateScenario(ctx context.Context, mode entities.SessionMode, topic string) (*Scenario, error)
}
