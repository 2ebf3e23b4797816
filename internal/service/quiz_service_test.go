package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	"github.com/alamtis/skill-assessment-platform/internal/cache"
	"github.com/alamtis/skill-assessment-platform/internal/domain"
	"github.com/alamtis/skill-assessment-platform/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newQuizServiceForTest(cacheAdapter domain.Cache) (QuizService, *MockQuizRepository, *MockQuizAttemptRepository, *MockAIService, *MockTransactionManager) {
	quizRepo := new(MockQuizRepository)
	attemptRepo := new(MockQuizAttemptRepository)
	aiService := new(MockAIService)
	txManager := new(MockTransactionManager)
	svc := NewQuizService(quizRepo, attemptRepo, aiService, txManager, cacheAdapter)
	return svc, quizRepo, attemptRepo, aiService, txManager
}

func TestGetQuizForTaking_StripsAnswers(t *testing.T) {
	svc, quizRepo, _, _, _ := newQuizServiceForTest(nil)
	quizRepo.On("GetQuizWithQuestions", mock.Anything, testQuizID).Return(testQuiz(), nil)

	resp, err := svc.GetQuizForTaking(context.Background(), testQuizID)
	require.NoError(t, err)
	require.Len(t, resp.Questions, 3)
	for _, q := range resp.Questions {
		assert.Empty(t, q.CorrectOption)
		assert.Empty(t, q.Explanation)
	}
}

func TestGetQuizWithAnswers_IncludesAnswers(t *testing.T) {
	svc, quizRepo, _, _, _ := newQuizServiceForTest(nil)
	quizRepo.On("GetQuizWithQuestions", mock.Anything, testQuizID).Return(testQuiz(), nil)

	resp, err := svc.GetQuizWithAnswers(context.Background(), testQuizID)
	require.NoError(t, err)
	require.Len(t, resp.Questions, 3)
	assert.Equal(t, "A", resp.Questions[0].CorrectOption)
}

func TestGetQuizForTaking_NotFound(t *testing.T) {
	svc, quizRepo, _, _, _ := newQuizServiceForTest(nil)
	quizRepo.On("GetQuizWithQuestions", mock.Anything, testQuizID).Return(nil, nil)

	resp, err := svc.GetQuizForTaking(context.Background(), testQuizID)
	assert.Nil(t, resp)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeNotFound, domainErr.Code)
}

func TestGetQuizForTaking_CacheHitSkipsRepository(t *testing.T) {
	mockCache := new(MockCache)
	svc, quizRepo, _, _, _ := newQuizServiceForTest(mockCache)

	payload, err := json.Marshal(testQuiz())
	require.NoError(t, err)
	key := cache.GenerateCacheKey("quiz", "detail", testQuizID)
	mockCache.On("Get", mock.Anything, key).Return(string(payload), nil)

	resp, err := svc.GetQuizForTaking(context.Background(), testQuizID)
	require.NoError(t, err)
	assert.Equal(t, "Python Basics", resp.Title)
	quizRepo.AssertNotCalled(t, "GetQuizWithQuestions", mock.Anything, mock.Anything)
}

func TestGetQuizForTaking_CacheMissPopulatesCache(t *testing.T) {
	mockCache := new(MockCache)
	svc, quizRepo, _, _, _ := newQuizServiceForTest(mockCache)

	key := cache.GenerateCacheKey("quiz", "detail", testQuizID)
	mockCache.On("Get", mock.Anything, key).Return("", domain.ErrCacheMiss)
	quizRepo.On("GetQuizWithQuestions", mock.Anything, testQuizID).Return(testQuiz(), nil)
	mockCache.On("Set", mock.Anything, key, mock.AnythingOfType("string"), quizCacheTTL).Return(nil)

	resp, err := svc.GetQuizForTaking(context.Background(), testQuizID)
	require.NoError(t, err)
	assert.Equal(t, testQuizID, resp.ID)
	mockCache.AssertExpectations(t)
}

func TestListAvailableQuizzes(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc, quizRepo, _, _, _ := newQuizServiceForTest(nil)
		quizRepo.On("ListQuizzes", mock.Anything, "PYTHON_DEVELOPER", domain.DifficultyBeginner).
			Return([]domain.Quiz{*testQuiz()}, nil)

		quizzes, err := svc.ListAvailableQuizzes(context.Background(), "PYTHON_DEVELOPER", domain.DifficultyBeginner)
		require.NoError(t, err)
		require.Len(t, quizzes, 1)
		assert.Empty(t, quizzes[0].Questions, "list views carry no questions")
	})

	t.Run("InvalidDifficulty", func(t *testing.T) {
		svc, _, _, _, _ := newQuizServiceForTest(nil)

		_, err := svc.ListAvailableQuizzes(context.Background(), "", "IMPOSSIBLE")
		var validationErrs domain.ValidationErrors
		require.ErrorAs(t, err, &validationErrs)
	})
}

func TestCreateQuizWithAI(t *testing.T) {
	validRequest := &dto.AIGenerateQuizRequest{
		ItProfile:         "GOLANG_DEVELOPER",
		DifficultyLevel:   domain.DifficultyIntermediate,
		NumberOfQuestions: 2,
	}
	generated := &domain.GeneratedQuiz{
		Title: "Intermediate Go",
		Questions: []domain.GeneratedQuestion{
			{QuestionText: "What is a channel?", OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d", CorrectOption: "B", Explanation: "e"},
			{QuestionText: "What is a goroutine?", OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d", CorrectOption: "C", Explanation: "e"},
		},
	}

	t.Run("Success", func(t *testing.T) {
		svc, quizRepo, _, aiService, txManager := newQuizServiceForTest(nil)
		aiService.On("GenerateQuiz", mock.Anything, "GOLANG_DEVELOPER", domain.DifficultyIntermediate, 2).Return(generated, nil)
		txManager.On("WithTransaction", mock.Anything).Return(nil)

		var stored *domain.Quiz
		quizRepo.On("CreateQuiz", mock.Anything, mock.AnythingOfType("*domain.Quiz")).
			Run(func(args mock.Arguments) { stored = args.Get(1).(*domain.Quiz) }).
			Return(nil)

		resp, err := svc.CreateQuizWithAI(context.Background(), validRequest)
		require.NoError(t, err)
		assert.Equal(t, "Intermediate Go", resp.Title)
		require.Len(t, resp.Questions, 2)
		assert.Equal(t, "B", resp.Questions[0].CorrectOption)

		require.NotNil(t, stored)
		assert.Len(t, stored.Questions, 2)
		assert.NotEmpty(t, stored.ID)
		assert.Equal(t, stored.ID, stored.Questions[0].QuizID)
	})

	t.Run("AIErrorPropagates", func(t *testing.T) {
		svc, quizRepo, _, aiService, _ := newQuizServiceForTest(nil)
		aiService.On("GenerateQuiz", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, domain.NewAIServiceError("model timed out", errors.New("deadline exceeded")))

		resp, err := svc.CreateQuizWithAI(context.Background(), validRequest)
		assert.Nil(t, resp)
		assert.True(t, domain.IsAIServiceError(err), "quiz generation has no fallback, the outage surfaces")
		quizRepo.AssertNotCalled(t, "CreateQuiz", mock.Anything, mock.Anything)
	})

	t.Run("InvalidGeneratedQuestionRejected", func(t *testing.T) {
		svc, quizRepo, _, aiService, _ := newQuizServiceForTest(nil)
		bad := &domain.GeneratedQuiz{
			Title: "Broken",
			Questions: []domain.GeneratedQuestion{
				{QuestionText: "orphan", OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d", CorrectOption: "Z"},
			},
		}
		aiService.On("GenerateQuiz", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(bad, nil)

		resp, err := svc.CreateQuizWithAI(context.Background(), validRequest)
		assert.Nil(t, resp)
		assert.True(t, domain.IsAIServiceError(err))
		quizRepo.AssertNotCalled(t, "CreateQuiz", mock.Anything, mock.Anything)
	})

	t.Run("ValidationFailures", func(t *testing.T) {
		svc, _, _, aiService, _ := newQuizServiceForTest(nil)

		cases := []*dto.AIGenerateQuizRequest{
			{ItProfile: "", DifficultyLevel: domain.DifficultyBeginner, NumberOfQuestions: 5},
			{ItProfile: "GOLANG_DEVELOPER", DifficultyLevel: "CASUAL", NumberOfQuestions: 5},
			{ItProfile: "GOLANG_DEVELOPER", DifficultyLevel: domain.DifficultyBeginner, NumberOfQuestions: 0},
			{ItProfile: "GOLANG_DEVELOPER", DifficultyLevel: domain.DifficultyBeginner, NumberOfQuestions: 21},
		}
		for _, req := range cases {
			_, err := svc.CreateQuizWithAI(context.Background(), req)
			var validationErrs domain.ValidationErrors
			require.ErrorAs(t, err, &validationErrs)
		}
		aiService.AssertNotCalled(t, "GenerateQuiz", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDeleteQuiz(t *testing.T) {
	t.Run("CascadesAttemptsFirst", func(t *testing.T) {
		svc, quizRepo, attemptRepo, _, txManager := newQuizServiceForTest(nil)
		txManager.On("WithTransaction", mock.Anything).Return(nil)
		attemptRepo.On("DeleteAttemptsByQuizID", mock.Anything, testQuizID).Return(nil)
		quizRepo.On("DeleteQuiz", mock.Anything, testQuizID).Return(nil)

		require.NoError(t, svc.DeleteQuiz(context.Background(), testQuizID))
		attemptRepo.AssertExpectations(t)
		quizRepo.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		svc, quizRepo, attemptRepo, _, txManager := newQuizServiceForTest(nil)
		txManager.On("WithTransaction", mock.Anything).Return(nil)
		attemptRepo.On("DeleteAttemptsByQuizID", mock.Anything, testQuizID).Return(nil)
		quizRepo.On("DeleteQuiz", mock.Anything, testQuizID).Return(sql.ErrNoRows)

		err := svc.DeleteQuiz(context.Background(), testQuizID)
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeNotFound, domainErr.Code)
	})
}

func TestUpdateQuiz_InvalidatesCache(t *testing.T) {
	mockCache := new(MockCache)
	svc, quizRepo, _, _, _ := newQuizServiceForTest(mockCache)

	quizRepo.On("UpdateQuiz", mock.Anything, mock.AnythingOfType("*domain.Quiz")).Return(nil)
	key := cache.GenerateCacheKey("quiz", "detail", testQuizID)
	mockCache.On("Delete", mock.Anything, key).Return(nil)

	req := &dto.CreateQuizRequest{
		Title:           "Python Basics v2",
		DifficultyLevel: domain.DifficultyBeginner,
		ItProfile:       "PYTHON_DEVELOPER",
	}
	resp, err := svc.UpdateQuiz(context.Background(), testQuizID, req)
	require.NoError(t, err)
	assert.Equal(t, "Python Basics v2", resp.Title)
	mockCache.AssertExpectations(t)
}

func TestAddQuestion(t *testing.T) {
	validQuestion := &dto.QuestionRequest{
		QuestionText:  "What is PEP 8?",
		OptionA:       "a",
		OptionB:       "b",
		OptionC:       "c",
		OptionD:       "d",
		CorrectOption: "A",
		Explanation:   "style guide",
	}

	t.Run("Success", func(t *testing.T) {
		svc, quizRepo, _, _, _ := newQuizServiceForTest(nil)
		quizRepo.On("GetQuizByID", mock.Anything, testQuizID).Return(testQuiz(), nil)
		quizRepo.On("AddQuestion", mock.Anything, mock.MatchedBy(func(q *domain.Question) bool {
			return q.QuizID == testQuizID && q.CorrectOption == "A"
		})).Return(nil)

		resp, err := svc.AddQuestion(context.Background(), testQuizID, validQuestion)
		require.NoError(t, err)
		assert.Equal(t, "What is PEP 8?", resp.QuestionText)
		assert.Equal(t, "A", resp.CorrectOption)
	})

	t.Run("QuizNotFound", func(t *testing.T) {
		svc, quizRepo, _, _, _ := newQuizServiceForTest(nil)
		quizRepo.On("GetQuizByID", mock.Anything, testQuizID).Return(nil, nil)

		_, err := svc.AddQuestion(context.Background(), testQuizID, validQuestion)
		var domainErr *domain.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, domain.CodeNotFound, domainErr.Code)
	})
}

func TestDeleteQuestion_NotFound(t *testing.T) {
	svc, quizRepo, _, _, _ := newQuizServiceForTest(nil)
	quizRepo.On("SoftDeleteQuestion", mock.Anything, testQuizID, testQ1).Return(sql.ErrNoRows)

	err := svc.DeleteQuestion(context.Background(), testQuizID, testQ1)
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeNotFound, domainErr.Code)
}
