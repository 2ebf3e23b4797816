package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/alamtis/skill-assessment-platform/internal/cache"
	"github.com/alamtis/skill-assessment-platform/internal/domain"
	"github.com/alamtis/skill-assessment-platform/internal/dto"
	"github.com/alamtis/skill-assessment-platform/internal/logger"
	"github.com/alamtis/skill-assessment-platform/internal/util"
	"github.com/alamtis/skill-assessment-platform/internal/validation"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const quizCacheTTL = 10 * time.Minute

// QuizService covers the quiz catalog: listing and reading quizzes for
// takers, and the admin authoring surface (manual and AI-generated).
type QuizService interface {
	ListAvailableQuizzes(ctx context.Context, itProfile, difficultyLevel string) ([]dto.QuizResponse, error)
	GetQuizForTaking(ctx context.Context, quizID string) (*dto.QuizResponse, error)
	GetQuizWithAnswers(ctx context.Context, quizID string) (*dto.QuizResponse, error)
	CreateQuiz(ctx context.Context, req *dto.CreateQuizRequest) (*dto.QuizResponse, error)
	UpdateQuiz(ctx context.Context, quizID string, req *dto.CreateQuizRequest) (*dto.QuizResponse, error)
	DeleteQuiz(ctx context.Context, quizID string) error
	CreateQuizWithAI(ctx context.Context, req *dto.AIGenerateQuizRequest) (*dto.QuizResponse, error)
	AddQuestion(ctx context.Context, quizID string, req *dto.QuestionRequest) (*dto.QuestionResponse, error)
	UpdateQuestion(ctx context.Context, quizID, questionID string, req *dto.QuestionRequest) (*dto.QuestionResponse, error)
	DeleteQuestion(ctx context.Context, quizID, questionID string) error
}

type quizService struct {
	quizRepo    domain.QuizRepository
	attemptRepo domain.QuizAttemptRepository
	aiService   domain.AIService
	txManager   domain.TransactionManager
	cache       domain.Cache
	group       singleflight.Group
}

// NewQuizService creates a new QuizService. cache may be nil, in which case
// every read goes to the database.
func NewQuizService(
	quizRepo domain.QuizRepository,
	attemptRepo domain.QuizAttemptRepository,
	aiService domain.AIService,
	txManager domain.TransactionManager,
	cacheAdapter domain.Cache,
) QuizService {
	return &quizService{
		quizRepo:    quizRepo,
		attemptRepo: attemptRepo,
		aiService:   aiService,
		txManager:   txManager,
		cache:       cacheAdapter,
	}
}

// ListAvailableQuizzes returns the catalog, optionally filtered by profile
// and difficulty. Questions are not included in list views.
func (s *quizService) ListAvailableQuizzes(ctx context.Context, itProfile, difficultyLevel string) ([]dto.QuizResponse, error) {
	if difficultyLevel != "" && !domain.IsValidDifficulty(difficultyLevel) {
		return nil, domain.ValidationErrors{domain.NewInvalidFormatError("difficultyLevel", difficultyLevel)}
	}

	quizzes, err := s.quizRepo.ListQuizzes(ctx, itProfile, difficultyLevel)
	if err != nil {
		return nil, domain.NewInternalError("failed to list quizzes", err)
	}

	responses := make([]dto.QuizResponse, 0, len(quizzes))
	for i := range quizzes {
		responses = append(responses, *quizToResponse(&quizzes[i], false))
	}
	return responses, nil
}

// GetQuizForTaking returns the quiz with its live questions, stripped of the
// correct options and explanations. Reads are cached; concurrent misses for
// the same quiz collapse into one database load.
func (s *quizService) GetQuizForTaking(ctx context.Context, quizID string) (*dto.QuizResponse, error) {
	quiz, err := s.loadQuizWithQuestions(ctx, quizID)
	if err != nil {
		return nil, err
	}
	return quizToResponse(quiz, false), nil
}

// GetQuizWithAnswers is the admin view: questions include the correct option
// and explanation.
func (s *quizService) GetQuizWithAnswers(ctx context.Context, quizID string) (*dto.QuizResponse, error) {
	quiz, err := s.loadQuizWithQuestions(ctx, quizID)
	if err != nil {
		return nil, err
	}
	return quizToResponse(quiz, true), nil
}

func (s *quizService) loadQuizWithQuestions(ctx context.Context, quizID string) (*domain.Quiz, error) {
	l := logger.Get()
	key := cache.GenerateCacheKey("quiz", "detail", quizID)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		if err == nil {
			var quiz domain.Quiz
			if err := json.Unmarshal([]byte(cached), &quiz); err == nil {
				return &quiz, nil
			}
			l.Warn("Corrupt cache entry, falling through to DB", zap.String("key", key))
		} else if !errors.Is(err, domain.ErrCacheMiss) {
			l.Warn("Cache read failed, falling through to DB", zap.String("key", key), zap.Error(err))
		}
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		quiz, err := s.quizRepo.GetQuizWithQuestions(ctx, quizID)
		if err != nil {
			return nil, domain.NewInternalError("failed to load quiz", err)
		}
		if quiz == nil {
			return nil, domain.NewNotFoundError("Quiz", "id", quizID)
		}

		if s.cache != nil {
			if payload, err := json.Marshal(quiz); err == nil {
				if err := s.cache.Set(ctx, key, string(payload), quizCacheTTL); err != nil {
					l.Warn("Failed to cache quiz", zap.String("key", key), zap.Error(err))
				}
			}
		}
		return quiz, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Quiz), nil
}

func (s *quizService) invalidateQuiz(ctx context.Context, quizID string) {
	if s.cache == nil {
		return
	}
	key := cache.GenerateCacheKey("quiz", "detail", quizID)
	if err := s.cache.Delete(ctx, key); err != nil {
		logger.Get().Warn("Failed to invalidate quiz cache", zap.String("key", key), zap.Error(err))
	}
}

// CreateQuiz creates an empty quiz; questions are added separately.
func (s *quizService) CreateQuiz(ctx context.Context, req *dto.CreateQuizRequest) (*dto.QuizResponse, error) {
	if err := validation.ValidateCreateQuiz(req); err != nil {
		return nil, err
	}

	quiz := &domain.Quiz{
		ID:              util.NewULID(),
		Title:           req.Title,
		Description:     req.Description,
		DifficultyLevel: req.DifficultyLevel,
		ItProfile:       req.ItProfile,
	}
	if err := s.quizRepo.CreateQuiz(ctx, quiz); err != nil {
		return nil, domain.NewInternalError("failed to create quiz", err)
	}

	logger.Get().Info("Quiz created", zap.String("quiz_id", quiz.ID), zap.String("title", quiz.Title))
	return quizToResponse(quiz, true), nil
}

// UpdateQuiz updates quiz metadata.
func (s *quizService) UpdateQuiz(ctx context.Context, quizID string, req *dto.CreateQuizRequest) (*dto.QuizResponse, error) {
	if err := validation.ValidateCreateQuiz(req); err != nil {
		return nil, err
	}

	quiz := &domain.Quiz{
		ID:              quizID,
		Title:           req.Title,
		Description:     req.Description,
		DifficultyLevel: req.DifficultyLevel,
		ItProfile:       req.ItProfile,
	}
	if err := s.quizRepo.UpdateQuiz(ctx, quiz); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("Quiz", "id", quizID)
		}
		return nil, domain.NewInternalError("failed to update quiz", err)
	}

	s.invalidateQuiz(ctx, quizID)
	return quizToResponse(quiz, true), nil
}

// DeleteQuiz hard-deletes the quiz, its questions, and every attempt taken
// against it, as one transaction.
func (s *quizService) DeleteQuiz(ctx context.Context, quizID string) error {
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.attemptRepo.DeleteAttemptsByQuizID(txCtx, quizID); err != nil {
			return err
		}
		return s.quizRepo.DeleteQuiz(txCtx, quizID)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NewNotFoundError("Quiz", "id", quizID)
		}
		return domain.NewInternalError("failed to delete quiz", err)
	}

	s.invalidateQuiz(ctx, quizID)
	logger.Get().Info("Quiz deleted", zap.String("quiz_id", quizID))
	return nil
}

// CreateQuizWithAI generates a full quiz via the AI boundary and persists it.
// Unlike submission, AI failures here propagate to the caller: there is
// nothing sensible to store without the generated content.
func (s *quizService) CreateQuizWithAI(ctx context.Context, req *dto.AIGenerateQuizRequest) (*dto.QuizResponse, error) {
	if err := validation.ValidateGenerateQuiz(req); err != nil {
		return nil, err
	}

	generated, err := s.aiService.GenerateQuiz(ctx, req.ItProfile, req.DifficultyLevel, req.NumberOfQuestions)
	if err != nil {
		return nil, err
	}

	quiz := &domain.Quiz{
		ID:              util.NewULID(),
		Title:           generated.Title,
		DifficultyLevel: req.DifficultyLevel,
		ItProfile:       req.ItProfile,
	}
	for _, gq := range generated.Questions {
		question := domain.Question{
			ID:            util.NewULID(),
			QuizID:        quiz.ID,
			QuestionText:  gq.QuestionText,
			OptionA:       gq.OptionA,
			OptionB:       gq.OptionB,
			OptionC:       gq.OptionC,
			OptionD:       gq.OptionD,
			CorrectOption: gq.CorrectOption,
			Explanation:   gq.Explanation,
		}
		if err := question.Validate(); err != nil {
			return nil, domain.NewAIServiceError("AI service returned an invalid question", err)
		}
		quiz.Questions = append(quiz.Questions, question)
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.quizRepo.CreateQuiz(txCtx, quiz)
	})
	if err != nil {
		return nil, domain.NewInternalError("failed to persist generated quiz", err)
	}

	logger.Get().Info("AI-generated quiz created",
		zap.String("quiz_id", quiz.ID),
		zap.String("title", quiz.Title),
		zap.Int("questions", len(quiz.Questions)))
	return quizToResponse(quiz, true), nil
}

// AddQuestion appends a question to an existing quiz.
func (s *quizService) AddQuestion(ctx context.Context, quizID string, req *dto.QuestionRequest) (*dto.QuestionResponse, error) {
	if err := validation.ValidateQuestion(req); err != nil {
		return nil, err
	}

	quiz, err := s.quizRepo.GetQuizByID(ctx, quizID)
	if err != nil {
		return nil, domain.NewInternalError("failed to look up quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewNotFoundError("Quiz", "id", quizID)
	}

	question := &domain.Question{
		ID:            util.NewULID(),
		QuizID:        quizID,
		QuestionText:  req.QuestionText,
		OptionA:       req.OptionA,
		OptionB:       req.OptionB,
		OptionC:       req.OptionC,
		OptionD:       req.OptionD,
		CorrectOption: req.CorrectOption,
		Explanation:   req.Explanation,
	}
	if err := s.quizRepo.AddQuestion(ctx, question); err != nil {
		return nil, domain.NewInternalError("failed to add question", err)
	}

	s.invalidateQuiz(ctx, quizID)
	return questionToResponse(question, true), nil
}

// UpdateQuestion updates a live question's content.
func (s *quizService) UpdateQuestion(ctx context.Context, quizID, questionID string, req *dto.QuestionRequest) (*dto.QuestionResponse, error) {
	if err := validation.ValidateQuestion(req); err != nil {
		return nil, err
	}

	question := &domain.Question{
		ID:            questionID,
		QuizID:        quizID,
		QuestionText:  req.QuestionText,
		OptionA:       req.OptionA,
		OptionB:       req.OptionB,
		OptionC:       req.OptionC,
		OptionD:       req.OptionD,
		CorrectOption: req.CorrectOption,
		Explanation:   req.Explanation,
	}
	if err := s.quizRepo.UpdateQuestion(ctx, question); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("Question", "id", questionID)
		}
		return nil, domain.NewInternalError("failed to update question", err)
	}

	s.invalidateQuiz(ctx, quizID)
	return questionToResponse(question, true), nil
}

// DeleteQuestion soft-deletes a question. The row survives so historical
// attempt reports can still resolve it.
func (s *quizService) DeleteQuestion(ctx context.Context, quizID, questionID string) error {
	if err := s.quizRepo.SoftDeleteQuestion(ctx, quizID, questionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NewNotFoundError("Question", "id", questionID)
		}
		return domain.NewInternalError("failed to delete question", err)
	}

	s.invalidateQuiz(ctx, quizID)
	return nil
}

func quizToResponse(quiz *domain.Quiz, withAnswers bool) *dto.QuizResponse {
	resp := &dto.QuizResponse{
		ID:              quiz.ID,
		Title:           quiz.Title,
		Description:     quiz.Description,
		DifficultyLevel: quiz.DifficultyLevel,
		ItProfile:       quiz.ItProfile,
	}
	for i := range quiz.Questions {
		resp.Questions = append(resp.Questions, *questionToResponse(&quiz.Questions[i], withAnswers))
	}
	return resp
}

func questionToResponse(q *domain.Question, withAnswers bool) *dto.QuestionResponse {
	resp := &dto.QuestionResponse{
		ID:           q.ID,
		QuestionText: q.QuestionText,
		OptionA:      q.OptionA,
		OptionB:      q.OptionB,
		OptionC:      q.OptionC,
		OptionD:      q.OptionD,
	}
	if withAnswers {
		resp.CorrectOption = q.CorrectOption
		resp.Explanation = q.Explanation
	}
	return resp
}
