package domain

import "context"

// Sentinel payloads substituted when report generation fails. Submission must
// still succeed with the user's score; the client detects the degraded state
// by the "error" key.
const (
	FallbackReportJSON    = `{"error":"AI report generation failed. Please contact support."}`
	FallbackStudyPlanJSON = `{"error":"AI study plan generation failed."}`
)

// Fixed payload pair returned without calling the model when the user missed
// nothing.
const (
	PerfectScoreReportJSON    = `{"overallPerformance":"Excellent","summary":"Congratulations! You answered all questions correctly.","detailedAnalysis":[]}`
	PerfectScoreStudyPlanJSON = `{"focusAreas":["Advanced Topics"],"suggestedSchedule":[{"title":"Next Steps","topic":"Advanced Concepts","activities":["Explore more advanced topics in this area."],"timeCommitment":"Ongoing"}]}`
)

// GeneratedQuestion is the fixed shape the model must produce per question.
type GeneratedQuestion struct {
	QuestionText  string `json:"questionText"`
	OptionA       string `json:"optionA"`
	OptionB       string `json:"optionB"`
	OptionC       string `json:"optionC"`
	OptionD       string `json:"optionD"`
	CorrectOption string `json:"correctOption"`
	Explanation   string `json:"explanation"`
}

// GeneratedQuiz is the root object the quiz-generation prompt demands.
type GeneratedQuiz struct {
	Title     string              `json:"title"`
	Questions []GeneratedQuestion `json:"questions"`
}

// ReportBundle holds the two independent JSON payload strings extracted from
// one report-and-study-plan completion.
type ReportBundle struct {
	ReportJSON    string
	StudyPlanJSON string
}

// AIService is the boundary to the external generative model. The model's
// output is untrusted text: implementations must extract and validate JSON
// before returning. Every failure mode (transport, timeout, empty candidates,
// malformed JSON, missing keys) surfaces as an AI_SERVICE_ERROR DomainError.
type AIService interface {
	GenerateQuiz(ctx context.Context, itProfile, difficultyLevel string, numQuestions int) (*GeneratedQuiz, error)
	// GenerateReportAndStudyPlan returns the fixed perfect-score payload pair
	// without calling the model when incorrectQuestions is empty.
	GenerateReportAndStudyPlan(ctx context.Context, userName, quizTopic, difficultyLevel string, incorrectQuestions []string) (*ReportBundle, error)
}
