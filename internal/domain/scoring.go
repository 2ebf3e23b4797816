package domain

import "strings"

// SubmittedAnswer is one (question id, option) pair from a submission.
type SubmittedAnswer struct {
	QuestionID      string
	SubmittedOption string
}

// GradedAnswer is the correctness record for one submitted answer.
type GradedAnswer struct {
	QuestionID      string
	SubmittedOption string
	IsCorrect       bool
}

// ScoringResult is the outcome of grading a submission against a quiz's
// live question set.
type ScoringResult struct {
	Graded       []GradedAnswer
	CorrectCount int
	// TotalGraded counts submitted answers whose question id resolved within
	// the quiz, not the quiz's total question count. Answers referencing
	// foreign questions are excluded; skipped questions are simply absent.
	TotalGraded int
	// SkippedQuestionIDs holds submitted ids that did not belong to the quiz.
	SkippedQuestionIDs []string
}

// Percentage returns CorrectCount/TotalGraded*100, or 0 when nothing was graded.
func (r ScoringResult) Percentage() float64 {
	if r.TotalGraded == 0 {
		return 0
	}
	return float64(r.CorrectCount) / float64(r.TotalGraded) * 100
}

// Score grades submitted answers against the quiz's question set.
// Correctness is a case-insensitive single-letter match. Answers whose
// question id is not in the set are skipped and reported, not failed.
// Duplicate question ids are graded once per occurrence; the caller decides
// whether to reject duplicates before scoring.
func Score(questions map[string]Question, answers []SubmittedAnswer) ScoringResult {
	result := ScoringResult{Graded: make([]GradedAnswer, 0, len(answers))}

	for _, answer := range answers {
		question, ok := questions[answer.QuestionID]
		if !ok {
			result.SkippedQuestionIDs = append(result.SkippedQuestionIDs, answer.QuestionID)
			continue
		}

		submitted := strings.ToUpper(answer.SubmittedOption)
		isCorrect := strings.ToUpper(question.CorrectOption) == submitted
		if isCorrect {
			result.CorrectCount++
		}
		result.TotalGraded++
		result.Graded = append(result.Graded, GradedAnswer{
			QuestionID:      answer.QuestionID,
			SubmittedOption: submitted,
			IsCorrect:       isCorrect,
		})
	}

	return result
}
