package validation

import (
	"strings"

	"github.com/alamtis/skill-assessment-platform/internal/domain"
	"github.com/alamtis/skill-assessment-platform/internal/dto"
	"github.com/oklog/ulid/v2"
)

const (
	MinQuestionsPerQuiz = 1
	MaxQuestionsPerQuiz = 20
	MinPasswordLength   = 8
)

// IsULID reports whether s parses as a ULID.
func IsULID(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}

// ValidateSubmission checks the shape of a quiz submission. Duplicate question
// ids and past/future timestamps are deliberately not rejected here; grading
// is tolerant of both.
func ValidateSubmission(req *dto.QuizSubmissionRequest) error {
	var errs domain.ValidationErrors

	if len(req.Answers) == 0 {
		errs = append(errs, domain.NewMissingFieldError("answers"))
	}
	for _, answer := range req.Answers {
		if strings.TrimSpace(answer.QuestionID) == "" {
			errs = append(errs, domain.NewMissingFieldError("questionId"))
			continue
		}
		if !IsULID(answer.QuestionID) {
			errs = append(errs, domain.NewInvalidFormatError("questionId", answer.QuestionID))
		}
		if !domain.IsValidOption(answer.SubmittedOption) {
			errs = append(errs, domain.NewInvalidFormatError("submittedOption", answer.SubmittedOption))
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateCreateQuiz checks an admin quiz-authoring payload.
func ValidateCreateQuiz(req *dto.CreateQuizRequest) error {
	var errs domain.ValidationErrors

	if strings.TrimSpace(req.Title) == "" {
		errs = append(errs, domain.NewMissingFieldError("title"))
	}
	if strings.TrimSpace(req.ItProfile) == "" {
		errs = append(errs, domain.NewMissingFieldError("itProfile"))
	}
	if !domain.IsValidDifficulty(req.DifficultyLevel) {
		errs = append(errs, domain.NewInvalidFormatError("difficultyLevel", req.DifficultyLevel))
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateGenerateQuiz checks an AI quiz-generation payload.
func ValidateGenerateQuiz(req *dto.AIGenerateQuizRequest) error {
	var errs domain.ValidationErrors

	if strings.TrimSpace(req.ItProfile) == "" {
		errs = append(errs, domain.NewMissingFieldError("itProfile"))
	}
	if !domain.IsValidDifficulty(req.DifficultyLevel) {
		errs = append(errs, domain.NewInvalidFormatError("difficultyLevel", req.DifficultyLevel))
	}
	if req.NumberOfQuestions < MinQuestionsPerQuiz || req.NumberOfQuestions > MaxQuestionsPerQuiz {
		errs = append(errs, domain.NewOutOfRangeError("numberOfQuestions", req.NumberOfQuestions, MinQuestionsPerQuiz, MaxQuestionsPerQuiz))
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateQuestion checks an admin question payload.
func ValidateQuestion(req *dto.QuestionRequest) error {
	var errs domain.ValidationErrors

	if strings.TrimSpace(req.QuestionText) == "" {
		errs = append(errs, domain.NewMissingFieldError("questionText"))
	}
	if req.OptionA == "" || req.OptionB == "" || req.OptionC == "" || req.OptionD == "" {
		errs = append(errs, domain.NewMissingFieldError("options"))
	}
	if !domain.IsValidOption(req.CorrectOption) {
		errs = append(errs, domain.NewInvalidFormatError("correctOption", req.CorrectOption))
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateRegister checks a registration payload.
func ValidateRegister(req *dto.RegisterRequest) error {
	var errs domain.ValidationErrors

	if strings.TrimSpace(req.Username) == "" {
		errs = append(errs, domain.NewMissingFieldError("username"))
	}
	if strings.TrimSpace(req.Email) == "" {
		errs = append(errs, domain.NewMissingFieldError("email"))
	} else if !strings.Contains(req.Email, "@") {
		errs = append(errs, domain.NewInvalidFormatError("email", req.Email))
	}
	if len(req.Password) < MinPasswordLength {
		errs = append(errs, domain.NewOutOfRangeError("password length", len(req.Password), MinPasswordLength, 72))
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateRoles checks that every role name is a known role.
func ValidateRoles(roles []string) error {
	var errs domain.ValidationErrors

	if len(roles) == 0 {
		errs = append(errs, domain.NewMissingFieldError("roles"))
	}
	for _, role := range roles {
		if role != domain.RoleUser && role != domain.RoleAdmin {
			errs = append(errs, domain.NewInvalidFormatError("roles", role))
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
