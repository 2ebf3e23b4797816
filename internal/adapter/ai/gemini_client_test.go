package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/alamtis/skill-assessment-platform/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// stubModel is a canned llms.Model: it records prompts and returns a fixed
// response or error.
type stubModel struct {
	response string
	err      error
	calls    int
	prompts  []string
}

func (s *stubModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	s.calls++
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				s.prompts = append(s.prompts, text.Text)
			}
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: s.response}},
	}, nil
}

func (s *stubModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	s.calls++
	s.prompts = append(s.prompts, prompt)
	return s.response, s.err
}

func TestGenerateQuiz_Success(t *testing.T) {
	model := &stubModel{response: "```json\n" + `{
		"title": "Beginner Go Concepts",
		"questions": [
			{"questionText": "What does go vet do?", "optionA": "a", "optionB": "b", "optionC": "c", "optionD": "d", "correctOption": "A", "explanation": "static analysis"}
		]
	}` + "\n```"}
	client := NewGeminiClient(model)

	quiz, err := client.GenerateQuiz(context.Background(), "GOLANG_DEVELOPER", domain.DifficultyBeginner, 1)
	require.NoError(t, err)
	assert.Equal(t, "Beginner Go Concepts", quiz.Title)
	require.Len(t, quiz.Questions, 1)
	assert.Equal(t, "A", quiz.Questions[0].CorrectOption)

	require.NotEmpty(t, model.prompts)
	assert.Contains(t, model.prompts[0], "GOLANG_DEVELOPER")
	assert.Contains(t, model.prompts[0], "BEGINNER")
}

func TestGenerateQuiz_MalformedJSON(t *testing.T) {
	client := NewGeminiClient(&stubModel{response: "{ not json at all"})

	quiz, err := client.GenerateQuiz(context.Background(), "PYTHON_DEVELOPER", domain.DifficultyIntermediate, 3)
	assert.Nil(t, quiz)
	assert.True(t, domain.IsAIServiceError(err))
}

func TestGenerateQuiz_EmptyResponse(t *testing.T) {
	client := NewGeminiClient(&stubModel{response: "   "})

	quiz, err := client.GenerateQuiz(context.Background(), "PYTHON_DEVELOPER", domain.DifficultyIntermediate, 3)
	assert.Nil(t, quiz)
	assert.True(t, domain.IsAIServiceError(err))
}

func TestGenerateQuiz_TransportError(t *testing.T) {
	client := NewGeminiClient(&stubModel{err: errors.New("connection refused")})

	quiz, err := client.GenerateQuiz(context.Background(), "PYTHON_DEVELOPER", domain.DifficultyAdvanced, 5)
	assert.Nil(t, quiz)
	assert.True(t, domain.IsAIServiceError(err))
}

func TestGenerateQuiz_MissingQuestions(t *testing.T) {
	client := NewGeminiClient(&stubModel{response: `{"title": "Empty", "questions": []}`})

	quiz, err := client.GenerateQuiz(context.Background(), "JAVA_DEVELOPER", domain.DifficultyBeginner, 2)
	assert.Nil(t, quiz)
	assert.True(t, domain.IsAIServiceError(err))
}

func TestGenerateReportAndStudyPlan_PerfectScoreSkipsModel(t *testing.T) {
	model := &stubModel{response: "should never be used"}
	client := NewGeminiClient(model)

	bundle, err := client.GenerateReportAndStudyPlan(context.Background(), "jane", "PYTHON DEVELOPER", domain.DifficultyBeginner, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.PerfectScoreReportJSON, bundle.ReportJSON)
	assert.Equal(t, domain.PerfectScoreStudyPlanJSON, bundle.StudyPlanJSON)
	assert.Zero(t, model.calls, "a perfect score must not reach the model")
}

func TestGenerateReportAndStudyPlan_Success(t *testing.T) {
	model := &stubModel{response: `Here you go: {
		"report": {"overallPerformance": "Fair", "summary": "jane, review loops.", "detailedAnalysis": []},
		"studyPlan": {"focusAreas": ["Loops"], "suggestedSchedule": []}
	}`}
	client := NewGeminiClient(model)

	bundle, err := client.GenerateReportAndStudyPlan(context.Background(), "jane", "PYTHON DEVELOPER", domain.DifficultyBeginner, []string{"What is a for loop?"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"overallPerformance": "Fair", "summary": "jane, review loops.", "detailedAnalysis": []}`, bundle.ReportJSON)
	assert.JSONEq(t, `{"focusAreas": ["Loops"], "suggestedSchedule": []}`, bundle.StudyPlanJSON)

	require.NotEmpty(t, model.prompts)
	assert.Contains(t, model.prompts[0], "- Question: 'What is a for loop?'")
	assert.Contains(t, model.prompts[0], "USER NAME: jane")
}

func TestGenerateReportAndStudyPlan_MissingKeys(t *testing.T) {
	client := NewGeminiClient(&stubModel{response: `{"report": {"summary": "ok"}}`})

	bundle, err := client.GenerateReportAndStudyPlan(context.Background(), "jane", "PYTHON DEVELOPER", domain.DifficultyBeginner, []string{"q"})
	assert.Nil(t, bundle)
	assert.True(t, domain.IsAIServiceError(err))
}

func TestGenerateReportAndStudyPlan_MalformedJSON(t *testing.T) {
	client := NewGeminiClient(&stubModel{response: "total garbage"})

	bundle, err := client.GenerateReportAndStudyPlan(context.Background(), "jane", "PYTHON DEVELOPER", domain.DifficultyBeginner, []string{"q"})
	assert.Nil(t, bundle)
	assert.True(t, domain.IsAIServiceError(err))
}
