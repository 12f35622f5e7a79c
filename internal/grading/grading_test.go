package grading

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGradeObjectiveQuestions(t *testing.T) {
	questions := []Question{
		{ID: 1, Type: TypeMultipleChoice, CorrectAnswer: "Option B", Points: 2},
		{ID: 2, Type: TypeTrueFalse, CorrectAnswer: "true", Points: 1},
		{ID: 3, Type: TypeMultipleChoice, CorrectAnswer: "Option A", Points: 2},
	}
	answers := map[int]string{
		1: "  option b ", // case and whitespace are not graded
		2: "True",
		3: "Option C",
	}

	res := Grade(context.Background(), questions, answers, nil)

	assert.Equal(t, 3, res.Score)
	assert.Equal(t, 5, res.MaxScore)
	assert.InDelta(t, 60.0, res.Percentage, 0.001)
	assert.True(t, res.Questions[0].Correct)
	assert.True(t, res.Questions[1].Correct)
	assert.False(t, res.Questions[2].Correct)
	assert.Equal(t, 0, res.Questions[2].PointsAwarded)
}

func TestGradeUnansweredScoresZero(t *testing.T) {
	questions := []Question{
		{ID: 1, Type: TypeTrueFalse, CorrectAnswer: "false", Points: 1},
		{ID: 2, Type: TypeEssay, ExpectedTopics: []string{"erosion"}, Points: 3},
	}

	res := Grade(context.Background(), questions, map[int]string{}, nil)

	assert.Equal(t, 0, res.Score)
	assert.Equal(t, 4, res.MaxScore)
	assert.Equal(t, 0.0, res.Percentage)
	for _, qr := range res.Questions {
		assert.False(t, qr.Correct)
	}
}

func TestGradeEmptyQuizHasZeroPercentage(t *testing.T) {
	res := Grade(context.Background(), nil, nil, nil)
	assert.Equal(t, 0, res.MaxScore)
	assert.Equal(t, 0.0, res.Percentage)
}

func TestTopicGraderRequiresHalfTheTopics(t *testing.T) {
	q := Question{
		ID:             1,
		Type:           TypeShortAnswer,
		ExpectedTopics: []string{"Photosynthesis", "chlorophyll", "sunlight", "glucose"},
		Points:         4,
	}

	res := Grade(context.Background(), []Question{q}, map[int]string{
		1: "Plants use sunlight and chlorophyll to make food.",
	}, TopicGrader{})
	assert.Equal(t, 4, res.Score, "two of four topics is enough")

	res = Grade(context.Background(), []Question{q}, map[int]string{
		1: "Plants need sunlight.",
	}, TopicGrader{})
	assert.Equal(t, 0, res.Score, "one of four topics is not enough")
}

type failingGrader struct{}

func (failingGrader) GradeFreeText(context.Context, Question, string) (bool, error) {
	return false, errors.New("gateway unavailable")
}

func TestGradeFreeTextGraderFailureScoresIncorrect(t *testing.T) {
	questions := []Question{
		{ID: 1, Type: TypeEssay, ExpectedTopics: []string{"anything"}, Points: 5},
		{ID: 2, Type: TypeTrueFalse, CorrectAnswer: "true", Points: 1},
	}
	answers := map[int]string{1: "a long essay", 2: "true"}

	res := Grade(context.Background(), questions, answers, failingGrader{})

	assert.False(t, res.Questions[0].Correct, "grader failure must not award points")
	assert.True(t, res.Questions[1].Correct, "grader failure must not sink the submission")
	assert.Equal(t, 1, res.Score)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "option b", Normalize("  Option   B "))
	assert.Equal(t, "", Normalize("   "))
}
