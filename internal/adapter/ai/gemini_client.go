package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/alamtis/skill-assessment-platform/internal/domain"
	"github.com/alamtis/skill-assessment-platform/internal/logger"
	"github.com/alamtis/skill-assessment-platform/internal/util"
	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

const (
	callTimeout = 60 * time.Second
	temperature = 0.2
)

// reportExample is the few-shot example embedded in the report prompt. The
// model is told to reproduce this structure exactly, which keeps the two
// payloads parseable by the frontend without any schema negotiation.
const reportExample = `{
  "report": {
    "overallPerformance": "Good Understanding",
    "summary": "Jane, you have a solid grasp of the basics but should review...",
    "detailedAnalysis": [
      {
        "topic": "Variable Fundamentals",
        "explanation": "Your mistake on the variable question suggests...",
        "recommendedResources": ["https://docs.python.org/3/tutorial/introduction.html#first-steps-towards-programming"]
      }
    ]
  },
  "studyPlan": {
    "focusAreas": ["Python Data Types", "Conditional Logic"],
    "suggestedSchedule": [
      {
        "title": "Day 1",
        "topic": "Integers and Floats",
        "activities": ["Read the official documentation...", "Complete 5 exercises..."],
        "timeCommitment": "1 hour"
      }
    ]
  }
}`

// GeminiClient implements domain.AIService on top of a langchaingo model.
// All failures, from transport errors to malformed model output, surface as
// AI_SERVICE_ERROR domain errors so callers can decide whether to absorb or
// propagate them.
type GeminiClient struct {
	model llms.Model
}

// NewGeminiClient creates a new GeminiClient wrapping the given model.
func NewGeminiClient(model llms.Model) domain.AIService {
	return &GeminiClient{model: model}
}

func (c *GeminiClient) callModel(ctx context.Context, prompt string) (string, error) {
	l := logger.Get()

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	response, err := llms.GenerateFromSinglePrompt(ctx, c.model, prompt, llms.WithTemperature(temperature))
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			l.Error("AI request timed out", zap.Error(err))
			return "", fmt.Errorf("AI request timed out: %w", err)
		}
		l.Error("Failed to get response from AI model", zap.Error(err))
		return "", fmt.Errorf("AI call failed: %w", err)
	}

	if strings.TrimSpace(response) == "" {
		return "", fmt.Errorf("AI service returned an empty response")
	}

	return response, nil
}

// GenerateQuiz asks the model for a complete quiz (title plus questions) for
// the given profile and difficulty.
func (c *GeminiClient) GenerateQuiz(ctx context.Context, itProfile string, difficulty string, numQuestions int) (*domain.GeneratedQuiz, error) {
	l := logger.Get()

	prompt := fmt.Sprintf(
		"Generate a complete IT skill assessment quiz. The output MUST be a single, valid JSON object with no surrounding text or markdown. "+
			"The JSON object must have two top-level keys: 'title' (a short, relevant string for the quiz title, e.g., 'Intermediate Python Challenge') and 'questions' (a JSON array). "+
			"Generate %d multiple-choice questions for the topic of '%s' at a '%s' difficulty level. "+
			"Each question object in the 'questions' array must have the following exact structure: "+
			`{"questionText": "...", "optionA": "...", "optionB": "...", "optionC": "...", "optionD": "...", "correctOption": "A", "explanation": "..."}. `+
			`Example output format: {"title": "Beginner Java Concepts", "questions": [{"questionText": "...", ...}]}`,
		numQuestions, itProfile, difficulty)

	l.Info("Requesting full quiz generation from AI model",
		zap.String("it_profile", itProfile),
		zap.String("difficulty", difficulty),
		zap.Int("num_questions", numQuestions))

	raw, err := c.callModel(ctx, prompt)
	if err != nil {
		return nil, domain.NewAIServiceError("failed to communicate with the AI service", err)
	}

	cleaned := util.ExtractJSON(raw)

	var quiz domain.GeneratedQuiz
	if err := json.Unmarshal([]byte(cleaned), &quiz); err != nil {
		l.Error("Failed to parse generated quiz JSON",
			zap.Error(err),
			zap.String("cleaned_response", cleaned))
		return nil, domain.NewAIServiceError("AI service returned a malformed JSON for the quiz", err)
	}

	if quiz.Title == "" || len(quiz.Questions) == 0 {
		l.Error("Generated quiz is missing title or questions", zap.String("cleaned_response", cleaned))
		return nil, domain.NewAIServiceError("AI service returned an incomplete quiz", nil)
	}

	return &quiz, nil
}

// GenerateReportAndStudyPlan produces the post-attempt analysis pair. A user
// with no incorrect questions never reaches the model: the canned
// congratulations payloads are returned immediately.
func (c *GeminiClient) GenerateReportAndStudyPlan(ctx context.Context, userName string, quizTopic string, difficulty string, incorrectQuestions []string) (*domain.ReportBundle, error) {
	l := logger.Get()

	if len(incorrectQuestions) == 0 {
		l.Info("Perfect score, skipping AI report generation", zap.String("user", userName))
		return &domain.ReportBundle{
			ReportJSON:    domain.PerfectScoreReportJSON,
			StudyPlanJSON: domain.PerfectScoreStudyPlanJSON,
		}, nil
	}

	var summary strings.Builder
	for _, q := range incorrectQuestions {
		summary.WriteString(fmt.Sprintf("\n- Question: '%s'", q))
	}

	prompt := fmt.Sprintf(
		"TASK: Analyze a user's quiz results and generate a JSON object containing a detailed report and a study plan. "+
			"You MUST follow the JSON structure provided in the example below EXACTLY. Do not add or remove keys. "+
			"Address the user '%s' by name in the summary. "+
			"The final output MUST be only the raw JSON object without any surrounding text, comments, or markdown backticks (`). "+
			"--- EXAMPLE OF PERFECT OUTPUT STRUCTURE ---"+
			"%s"+
			"--- END OF EXAMPLE ---"+
			"--- ACTUAL TASK ---"+
			"USER NAME: %s"+
			"QUIZ TOPIC: %s"+
			"DIFFICULTY: %s"+
			"INCORRECT QUESTIONS:"+
			"%s"+
			"--- GENERATE JSON OUTPUT NOW ---",
		userName, reportExample, userName, quizTopic, difficulty, summary.String())

	l.Info("Requesting report and study plan from AI model",
		zap.String("user", userName),
		zap.String("quiz_topic", quizTopic),
		zap.Int("incorrect_count", len(incorrectQuestions)))

	raw, err := c.callModel(ctx, prompt)
	if err != nil {
		return nil, domain.NewAIServiceError("failed to communicate with the AI service", err)
	}

	cleaned := util.ExtractJSON(raw)

	var full map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &full); err != nil {
		l.Error("Failed to parse report JSON from AI model",
			zap.Error(err),
			zap.String("cleaned_response", cleaned))
		return nil, domain.NewAIServiceError("AI service returned a malformed JSON for the report", err)
	}

	report, ok := full["report"]
	if !ok {
		return nil, domain.NewAIServiceError("AI response is missing the 'report' key", nil)
	}
	studyPlan, ok := full["studyPlan"]
	if !ok {
		return nil, domain.NewAIServiceError("AI response is missing the 'studyPlan' key", nil)
	}

	return &domain.ReportBundle{
		ReportJSON:    string(report),
		StudyPlanJSON: string(studyPlan),
	}, nil
}
