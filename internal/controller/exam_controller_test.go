package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"examdesk_backend/internal/config"
	"examdesk_backend/internal/middleware"
	"examdesk_backend/internal/model"
	"examdesk_backend/internal/repository"
	"examdesk_backend/internal/service"
	"examdesk_backend/internal/util"
	"examdesk_backend/pkg/database"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "controller-test-secret-controller!"
	cfg.JWT.ExpireTime = time.Hour
	return cfg
}

// newExamRouter 组装最小路由：认证 + 角色门禁 + 考试控制器。
func newExamRouter(t *testing.T) (*gin.Engine, *gorm.DB, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := newTestConfig()
	examService := service.NewExamService(
		repository.NewExamRepository(db),
		repository.NewQuestionRepository(db),
		repository.NewResultRepository(db),
		db,
	)
	examController := NewExamController(examService)

	router := gin.New()
	exams := router.Group("/api/exams", middleware.AuthMiddleware(cfg))
	{
		exams.GET("", examController.List)
		exams.POST("", middleware.RoleMiddleware(model.Teacher), examController.Create)
		exams.GET("/:id/paper", examController.GetPaper)
		exams.POST("/:id/submit", examController.Submit)
	}
	return router, db, cfg
}

func tokenFor(t *testing.T, db *gorm.DB, cfg *config.Config, username string, role model.UserRole) string {
	t.Helper()
	user := &model.User{Name: username, Username: username, Password: "x", Role: role}
	require.NoError(t, db.Create(user).Error)

	token, err := util.GenerateJWT(user, cfg.JWT.Secret, cfg.JWT.ExpireTime)
	require.NoError(t, err)
	return token
}

func doJSON(router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func seedBankQuestion(t *testing.T, db *gorm.DB, answer string) uint {
	t.Helper()
	q := &model.Question{
		QuestionText:   "bank question",
		QuestionType:   "mcq",
		SubjectID:      1,
		GradeID:        1,
		Marks:          1,
		Options:        json.RawMessage(`["a","b"]`),
		Answer:         answer,
		ApprovalStatus: model.ApprovalApproved,
		CreatedBy:      1,
	}
	require.NoError(t, db.Create(q).Error)
	return q.ID
}

func TestExamRoutesRequireAuth(t *testing.T) {
	router, _, _ := newExamRouter(t)

	rec := doJSON(router, http.MethodPost, "/api/exams", "", gin.H{"title": "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(router, http.MethodPost, "/api/exams", "not-a-token", gin.H{"title": "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestExamCreateForbiddenForStudents(t *testing.T) {
	router, db, cfg := newExamRouter(t)
	token := tokenFor(t, db, cfg, "student1", model.Student)

	rec := doJSON(router, http.MethodPost, "/api/exams", token, gin.H{
		"title": "midterm", "subjectId": 1, "questionIds": []uint{1},
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestExamListHidesAnswersFromStudents(t *testing.T) {
	router, db, cfg := newExamRouter(t)
	teacherToken := tokenFor(t, db, cfg, "teacher1", model.Teacher)
	studentToken := tokenFor(t, db, cfg, "student1", model.Student)

	q1 := seedBankQuestion(t, db, "Paris")
	rec := doJSON(router, http.MethodPost, "/api/exams", teacherToken, gin.H{
		"title": "midterm", "subjectId": 1, "questionIds": []uint{q1},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(router, http.MethodGet, "/api/exams", studentToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "midterm")
	assert.NotContains(t, rec.Body.String(), "Paris")
	assert.NotContains(t, rec.Body.String(), `"answer"`)
}

func TestExamSubmitFlow(t *testing.T) {
	router, db, cfg := newExamRouter(t)
	teacherToken := tokenFor(t, db, cfg, "teacher1", model.Teacher)
	studentToken := tokenFor(t, db, cfg, "student1", model.Student)

	q1 := seedBankQuestion(t, db, "4")
	q2 := seedBankQuestion(t, db, "Paris")

	rec := doJSON(router, http.MethodPost, "/api/exams", teacherToken, gin.H{
		"title": "midterm", "subjectId": 1, "questionIds": []uint{q1, q2},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Data model.Exam `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	examID := created.Data.ID
	require.NotZero(t, examID)

	// 学生侧试卷不含答案
	rec = doJSON(router, http.MethodGet, fmt.Sprintf("/api/exams/%d/paper", examID), studentToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Paris")

	rec = doJSON(router, http.MethodPost, fmt.Sprintf("/api/exams/%d/submit", examID), studentToken, gin.H{
		"answers": map[string]string{
			strconv.FormatUint(uint64(q1), 10): "4",
			strconv.FormatUint(uint64(q2), 10): "paris",
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var submitted struct {
		Data struct {
			Score int `json:"score"`
			Total int `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &submitted))
	assert.Equal(t, 1, submitted.Data.Score)
	assert.Equal(t, 2, submitted.Data.Total)

	rec = doJSON(router, http.MethodPost, "/api/exams/9999/submit", studentToken, gin.H{
		"answers": map[string]string{},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
