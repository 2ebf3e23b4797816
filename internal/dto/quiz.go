package dto

import "time"

// QuestionRequest is the admin payload for creating or updating a question.
type QuestionRequest struct {
	QuestionText  string `json:"questionText"`
	OptionA       string `json:"optionA"`
	OptionB       string `json:"optionB"`
	OptionC       string `json:"optionC"`
	OptionD       string `json:"optionD"`
	CorrectOption string `json:"correctOption"`
	Explanation   string `json:"explanation,omitempty"`
}

// QuestionResponse echoes a question back to clients. The correct option and
// explanation are only exposed on admin and report views, never on the
// quiz-taking path.
type QuestionResponse struct {
	ID            string `json:"id"`
	QuestionText  string `json:"questionText"`
	OptionA       string `json:"optionA"`
	OptionB       string `json:"optionB"`
	OptionC       string `json:"optionC"`
	OptionD       string `json:"optionD"`
	CorrectOption string `json:"correctOption,omitempty"`
	Explanation   string `json:"explanation,omitempty"`
}

// CreateQuizRequest is the admin payload for manual quiz authoring.
type CreateQuizRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	DifficultyLevel string `json:"difficultyLevel"`
	ItProfile       string `json:"itProfile"`
}

// AIGenerateQuizRequest asks the AI authoring path for a complete quiz.
type AIGenerateQuizRequest struct {
	ItProfile         string `json:"itProfile"`
	DifficultyLevel   string `json:"difficultyLevel"`
	NumberOfQuestions int    `json:"numberOfQuestions"`
}

// QuizResponse represents a quiz in the API response.
type QuizResponse struct {
	ID              string             `json:"id"`
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	DifficultyLevel string             `json:"difficultyLevel"`
	ItProfile       string             `json:"itProfile"`
	Questions       []QuestionResponse `json:"questions,omitempty"`
}

// SubmittedAnswer is one answer inside a submission body.
type SubmittedAnswer struct {
	QuestionID      string `json:"questionId"`
	SubmittedOption string `json:"submittedOption"`
}

// QuizSubmissionRequest is the body of POST /quizzes/{quizId}/submit.
type QuizSubmissionRequest struct {
	StartedAt time.Time         `json:"startedAt"`
	Answers   []SubmittedAnswer `json:"answers"`
}

// QuizSubmissionResponse is the immediate feedback after a submission: the
// score, a path to the detailed report, and the raw AI study plan JSON.
type QuizSubmissionResponse struct {
	AttemptID      string  `json:"attemptId"`
	Score          float64 `json:"score"`
	TotalQuestions float64 `json:"totalQuestions"`
	Percentage     float64 `json:"percentage"`
	ReportURL      string  `json:"reportUrl"`
	StudyPlan      string  `json:"studyPlan"`
}

// QuizHistoryEntry is a lightweight history projection. It never includes the
// AI payloads or the per-question breakdown.
type QuizHistoryEntry struct {
	AttemptID   string     `json:"attemptId"`
	QuizID      string     `json:"quizId"`
	QuizTitle   string     `json:"quizTitle"`
	Score       float64    `json:"score"`
	Percentage  float64    `json:"percentage"`
	CompletedAt *time.Time `json:"completedAt"`
}

// AttemptAnswerDetail is one graded answer inside a detailed report.
type AttemptAnswerDetail struct {
	QuestionID      string `json:"questionId"`
	QuestionText    string `json:"questionText"`
	SubmittedOption string `json:"submittedOption"`
	CorrectOption   string `json:"correctOption"`
	IsCorrect       bool   `json:"isCorrect"`
	Explanation     string `json:"explanation,omitempty"`
}

// QuizAttemptDetail is the full detailed report for one attempt.
type QuizAttemptDetail struct {
	ID                 string                `json:"id"`
	UserID             string                `json:"userId"`
	QuizID             string                `json:"quizId"`
	Score              float64               `json:"score"`
	Percentage         float64               `json:"percentage"`
	StartedAt          time.Time             `json:"startedAt"`
	CompletedAt        *time.Time            `json:"completedAt"`
	TimeTakenSeconds   int64                 `json:"timeTakenSeconds"`
	DetailedReportJSON string                `json:"detailedReportJson"`
	StudyPlanJSON      string                `json:"studyPlanJson"`
	Answers            []AttemptAnswerDetail `json:"answers"`
}

// StartAttemptResponse is the body of POST /quizzes/{quizId}/start.
type StartAttemptResponse struct {
	AttemptID string `json:"attemptId"`
}

// ErrorResponse represents an error in the API response.
type ErrorResponse struct {
	Error string `json:"error"`
}
