package repository

import (
	"github.com/alamtis/skill-assessment-platform/internal/domain"
	"github.com/alamtis/skill-assessment-platform/internal/repository/models"
	"github.com/alamtis/skill-assessment-platform/internal/util"
)

// Converters between repository row models and domain entities. Repositories
// never leak sql.Null* types to the service layer.

func quizToDomain(m *models.Quiz) *domain.Quiz {
	return &domain.Quiz{
		ID:              m.ID,
		Title:           m.Title,
		Description:     m.Description.String,
		DifficultyLevel: m.DifficultyLevel,
		ItProfile:       m.ItProfile,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func quizFromDomain(q *domain.Quiz) *models.Quiz {
	return &models.Quiz{
		ID:              q.ID,
		Title:           q.Title,
		Description:     util.StringToNullString(q.Description),
		DifficultyLevel: q.DifficultyLevel,
		ItProfile:       q.ItProfile,
		CreatedAt:       q.CreatedAt,
		UpdatedAt:       q.UpdatedAt,
	}
}

func questionToDomain(m *models.Question) *domain.Question {
	return &domain.Question{
		ID:            m.ID,
		QuizID:        m.QuizID,
		QuestionText:  m.QuestionText,
		OptionA:       m.OptionA,
		OptionB:       m.OptionB,
		OptionC:       m.OptionC,
		OptionD:       m.OptionD,
		CorrectOption: m.CorrectOption,
		Explanation:   m.Explanation.String,
		Deleted:       m.Deleted != 0,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func questionFromDomain(q *domain.Question) *models.Question {
	deleted := 0
	if q.Deleted {
		deleted = 1
	}
	return &models.Question{
		ID:            q.ID,
		QuizID:        q.QuizID,
		QuestionText:  q.QuestionText,
		OptionA:       q.OptionA,
		OptionB:       q.OptionB,
		OptionC:       q.OptionC,
		OptionD:       q.OptionD,
		CorrectOption: q.CorrectOption,
		Explanation:   util.StringToNullString(q.Explanation),
		Deleted:       deleted,
		CreatedAt:     q.CreatedAt,
		UpdatedAt:     q.UpdatedAt,
	}
}

func attemptToDomain(m *models.QuizAttempt) *domain.QuizAttempt {
	return &domain.QuizAttempt{
		ID:                 m.ID,
		UserID:             m.UserID,
		QuizID:             m.QuizID,
		Score:              m.Score,
		Percentage:         m.Percentage,
		StartedAt:          m.StartedAt,
		CompletedAt:        util.NullTimeToTimePtr(m.CompletedAt),
		TimeTakenSeconds:   m.TimeTakenSeconds,
		DetailedReportJSON: m.DetailedReport.String,
		StudyPlanJSON:      m.StudyPlan.String,
		CreatedAt:          m.CreatedAt,
	}
}

func attemptFromDomain(a *domain.QuizAttempt) *models.QuizAttempt {
	return &models.QuizAttempt{
		ID:               a.ID,
		UserID:           a.UserID,
		QuizID:           a.QuizID,
		Score:            a.Score,
		Percentage:       a.Percentage,
		StartedAt:        a.StartedAt,
		CompletedAt:      util.TimePtrToNullTime(a.CompletedAt),
		TimeTakenSeconds: a.TimeTakenSeconds,
		DetailedReport:   util.StringToNullString(a.DetailedReportJSON),
		StudyPlan:        util.StringToNullString(a.StudyPlanJSON),
		CreatedAt:        a.CreatedAt,
	}
}

func answerFromDomain(a *domain.AttemptAnswer) *models.AttemptAnswer {
	isCorrect := 0
	if a.IsCorrect {
		isCorrect = 1
	}
	return &models.AttemptAnswer{
		ID:              a.ID,
		QuizAttemptID:   a.QuizAttemptID,
		QuestionID:      a.QuestionID,
		SubmittedOption: a.SubmittedOption,
		IsCorrect:       isCorrect,
	}
}

func userToDomain(m *models.User, roles []string) *domain.User {
	return &domain.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Roles:        roles,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
