package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alamtis/skill-assessment-platform/internal/domain"
	"github.com/alamtis/skill-assessment-platform/internal/dto"
	"github.com/alamtis/skill-assessment-platform/internal/logger"
	"github.com/alamtis/skill-assessment-platform/internal/util"
	"github.com/alamtis/skill-assessment-platform/internal/validation"
	"go.uber.org/zap"
)

// AttemptService drives the quiz attempt lifecycle: start, submit and grade,
// history, detailed reports, and administrative deletion.
type AttemptService interface {
	StartAttempt(ctx context.Context, identity domain.Identity, quizID string) (*dto.StartAttemptResponse, error)
	SubmitAttempt(ctx context.Context, identity domain.Identity, quizID string, req *dto.QuizSubmissionRequest) (*dto.QuizSubmissionResponse, error)
	GetQuizHistory(ctx context.Context, identity domain.Identity, userID string) ([]dto.QuizHistoryEntry, error)
	GetDetailedReport(ctx context.Context, identity domain.Identity, attemptID string) (*dto.QuizAttemptDetail, error)
	DeleteAttempt(ctx context.Context, identity domain.Identity, attemptID string) error
}

type attemptService struct {
	attemptRepo domain.QuizAttemptRepository
	quizRepo    domain.QuizRepository
	userRepo    domain.UserRepository
	aiService   domain.AIService
	txManager   domain.TransactionManager
}

// NewAttemptService creates a new AttemptService.
func NewAttemptService(
	attemptRepo domain.QuizAttemptRepository,
	quizRepo domain.QuizRepository,
	userRepo domain.UserRepository,
	aiService domain.AIService,
	txManager domain.TransactionManager,
) AttemptService {
	return &attemptService{
		attemptRepo: attemptRepo,
		quizRepo:    quizRepo,
		userRepo:    userRepo,
		aiService:   aiService,
		txManager:   txManager,
	}
}

// StartAttempt records that the user began the quiz. The marker row carries
// only the start timestamp; submission later creates the graded attempt.
func (s *attemptService) StartAttempt(ctx context.Context, identity domain.Identity, quizID string) (*dto.StartAttemptResponse, error) {
	quiz, err := s.quizRepo.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError("failed to look up quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewNotFoundError("Quiz", "id", quizID)
	}

	attempt := &domain.QuizAttempt{
		ID:        util.NewULID(),
		UserID:    identity.UserID,
		QuizID:    quizID,
		StartedAt: time.Now(),
	}
	if err := s.attemptRepo.CreateAttempt(ctx, attempt); err != nil {
		return nil, domain.NewInternalError("failed to create attempt", err)
	}

	logger.Get().Info("Quiz attempt started",
		zap.String("attempt_id", attempt.ID),
		zap.String("quiz_id", quizID),
		zap.String("user_id", identity.UserID))

	return &dto.StartAttemptResponse{AttemptID: attempt.ID}, nil
}

// SubmitAttempt grades the submission, generates the AI report pair, and
// persists the attempt with its answers atomically.
//
// An AI failure never fails the submission: the user keeps their score and
// the report columns receive sentinel payloads instead.
func (s *attemptService) SubmitAttempt(ctx context.Context, identity domain.Identity, quizID string, req *dto.QuizSubmissionRequest) (*dto.QuizSubmissionResponse, error) {
	l := logger.Get()

	if err := validation.ValidateSubmission(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetUserByID(ctx, identity.UserID)
	if err != nil {
		return nil, domain.NewInternalError("failed to look up user", err)
	}
	if user == nil {
		return nil, domain.NewNotFoundError("User", "id", identity.UserID)
	}

	quiz, err := s.quizRepo.GetQuizWithQuestions(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError("failed to look up quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewNotFoundError("Quiz", "id", quizID)
	}

	questions := make(map[string]domain.Question, len(quiz.Questions))
	for _, q := range quiz.Questions {
		questions[q.ID] = q
	}

	submitted := make([]domain.SubmittedAnswer, 0, len(req.Answers))
	for _, a := range req.Answers {
		submitted = append(submitted, domain.SubmittedAnswer{
			QuestionID:      a.QuestionID,
			SubmittedOption: a.SubmittedOption,
		})
	}

	result := domain.Score(questions, submitted)
	for _, skipped := range result.SkippedQuestionIDs {
		l.Warn("Submitted answer references a question outside the quiz, skipping",
			zap.String("quiz_id", quizID),
			zap.String("question_id", skipped))
	}

	completedAt := time.Now()
	startedAt := req.StartedAt
	if startedAt.IsZero() {
		startedAt = completedAt
	}
	// The client's startedAt is taken as-is; a clock-skewed client can
	// produce a negative duration and the attempt is stored regardless.
	timeTaken := int64(completedAt.Sub(startedAt).Seconds())

	var incorrectTexts []string
	for _, graded := range result.Graded {
		if !graded.IsCorrect {
			incorrectTexts = append(incorrectTexts, questions[graded.QuestionID].QuestionText)
		}
	}

	reportJSON := domain.FallbackReportJSON
	studyPlanJSON := domain.FallbackStudyPlanJSON
	bundle, err := s.aiService.GenerateReportAndStudyPlan(ctx, user.Username, quiz.TopicLabel(), quiz.DifficultyLevel, incorrectTexts)
	if err != nil {
		if !domain.IsAIServiceError(err) {
			return nil, err
		}
		l.Error("AI report generation failed, storing fallback payloads",
			zap.String("quiz_id", quizID),
			zap.String("user_id", identity.UserID),
			zap.Error(err))
	} else {
		reportJSON = bundle.ReportJSON
		studyPlanJSON = bundle.StudyPlanJSON
	}

	attempt := &domain.QuizAttempt{
		ID:                 util.NewULID(),
		UserID:             identity.UserID,
		QuizID:             quizID,
		Score:              float64(result.CorrectCount),
		Percentage:         result.Percentage(),
		StartedAt:          startedAt,
		CompletedAt:        &completedAt,
		TimeTakenSeconds:   timeTaken,
		DetailedReportJSON: reportJSON,
		StudyPlanJSON:      studyPlanJSON,
	}
	for _, graded := range result.Graded {
		attempt.Answers = append(attempt.Answers, domain.AttemptAnswer{
			ID:              util.NewULID(),
			QuizAttemptID:   attempt.ID,
			QuestionID:      graded.QuestionID,
			SubmittedOption: graded.SubmittedOption,
			IsCorrect:       graded.IsCorrect,
		})
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.attemptRepo.CreateAttemptWithAnswers(txCtx, attempt)
	})
	if err != nil {
		return nil, domain.NewInternalError("failed to persist attempt", err)
	}

	l.Info("Quiz attempt submitted",
		zap.String("attempt_id", attempt.ID),
		zap.String("quiz_id", quizID),
		zap.String("user_id", identity.UserID),
		zap.Int("correct", result.CorrectCount),
		zap.Int("graded", result.TotalGraded))

	return &dto.QuizSubmissionResponse{
		AttemptID:      attempt.ID,
		Score:          attempt.Score,
		TotalQuestions: float64(result.TotalGraded),
		Percentage:     attempt.Percentage,
		ReportURL:      fmt.Sprintf("/api/reports/%s", attempt.ID),
		StudyPlan:      studyPlanJSON,
	}, nil
}

// GetQuizHistory returns the target user's attempt history, newest completion
// first. Callers may only read their own history unless they are admins.
func (s *attemptService) GetQuizHistory(ctx context.Context, identity domain.Identity, userID string) ([]dto.QuizHistoryEntry, error) {
	if !identity.CanAccess(userID) {
		return nil, domain.NewForbiddenError("You do not have permission to view this user's history")
	}

	entries, err := s.attemptRepo.GetHistoryByUserID(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load quiz history", err)
	}

	history := make([]dto.QuizHistoryEntry, 0, len(entries))
	for _, e := range entries {
		history = append(history, dto.QuizHistoryEntry{
			AttemptID:   e.AttemptID,
			QuizID:      e.QuizID,
			QuizTitle:   e.QuizTitle,
			Score:       e.Score,
			Percentage:  e.Percentage,
			CompletedAt: e.CompletedAt,
		})
	}
	return history, nil
}

// GetDetailedReport returns the full attempt detail, owner-or-admin only.
func (s *attemptService) GetDetailedReport(ctx context.Context, identity domain.Identity, attemptID string) (*dto.QuizAttemptDetail, error) {
	detail, err := s.attemptRepo.GetAttemptWithDetails(ctx, attemptID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load attempt", err)
	}
	if detail == nil {
		return nil, domain.NewNotFoundError("Quiz attempt", "id", attemptID)
	}

	if !identity.CanAccess(detail.Attempt.UserID) {
		return nil, domain.NewForbiddenError("You do not have permission to view this report")
	}

	resp := &dto.QuizAttemptDetail{
		ID:                 detail.Attempt.ID,
		UserID:             detail.Attempt.UserID,
		QuizID:             detail.Attempt.QuizID,
		Score:              detail.Attempt.Score,
		Percentage:         detail.Attempt.Percentage,
		StartedAt:          detail.Attempt.StartedAt,
		CompletedAt:        detail.Attempt.CompletedAt,
		TimeTakenSeconds:   detail.Attempt.TimeTakenSeconds,
		DetailedReportJSON: detail.Attempt.DetailedReportJSON,
		StudyPlanJSON:      detail.Attempt.StudyPlanJSON,
	}
	for _, a := range detail.Answers {
		resp.Answers = append(resp.Answers, dto.AttemptAnswerDetail{
			QuestionID:      a.QuestionID,
			QuestionText:    a.QuestionText,
			SubmittedOption: a.SubmittedOption,
			CorrectOption:   a.CorrectOption,
			IsCorrect:       a.IsCorrect,
			Explanation:     a.Explanation,
		})
	}
	return resp, nil
}

// DeleteAttempt removes an attempt and its answers. Admin only.
func (s *attemptService) DeleteAttempt(ctx context.Context, identity domain.Identity, attemptID string) error {
	if !identity.HasRole(domain.RoleAdmin) {
		return domain.NewForbiddenError("Only administrators may delete attempts")
	}

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.attemptRepo.DeleteAttempt(txCtx, attemptID)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NewNotFoundError("Quiz attempt", "id", attemptID)
		}
		return domain.NewInternalError("failed to delete attempt", err)
	}

	logger.Get().Info("Quiz attempt deleted",
		zap.String("attempt_id", attemptID),
		zap.String("admin_id", identity.UserID))
	return nil
}
