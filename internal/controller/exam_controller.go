package controller

import (
	"examdesk_backend/internal/service"
	"examdesk_backend/internal/util"
	"examdesk_backend/pkg/monitoring"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type ExamController struct {
	ExamService *service.ExamService
}

func NewExamController(examService *service.ExamService) *ExamController {
	return &ExamController{ExamService: examService}
}

type ExamRequest struct {
	Title           string     `json:"title" binding:"required"`
	SubjectID       uint       `json:"subjectId" binding:"required"`
	DurationMinutes int        `json:"durationMinutes"`
	ClassLevel      string     `json:"classLevel"`
	Difficulty      string     `json:"difficulty"`
	ScheduledStart  *time.Time `json:"scheduledStart"`
	ScheduledEnd    *time.Time `json:"scheduledEnd"`
	IsQuiz          bool       `json:"isQuiz"`
	QuestionIDs     []uint     `json:"questionIds"`
}

func (r ExamRequest) toInput() service.ExamInput {
	return service.ExamInput{
		Title:           r.Title,
		SubjectID:       r.SubjectID,
		DurationMinutes: r.DurationMinutes,
		ClassLevel:      r.ClassLevel,
		Difficulty:      r.Difficulty,
		ScheduledStart:  r.ScheduledStart,
		ScheduledEnd:    r.ScheduledEnd,
		IsQuiz:          r.IsQuiz,
		QuestionIDs:     r.QuestionIDs,
	}
}

// List godoc
// @Summary 考试列表
// @Tags 考试
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Exam}
// @Router /api/exams [get]
func (c *ExamController) List(ctx *gin.Context) {
	exams, err := c.ExamService.List()
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, exams)
}

// Get godoc
// @Summary 考试详情（含完整快照）
// @Tags 考试
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.Exam}
// @Failure 404 {object} util.Response
// @Router /api/exams/{id} [get]
func (c *ExamController) Get(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	exam, err := c.ExamService.Get(id)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, exam)
}

// GetPaper godoc
// @Summary 学生侧试卷（快照去除答案）
// @Tags 考试
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.Exam}
// @Failure 404 {object} util.Response
// @Router /api/exams/{id}/paper [get]
func (c *ExamController) GetPaper(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	exam, err := c.ExamService.GetPaper(id)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, exam)
}

// Create godoc
// @Summary 创建考试
// @Description 题目 id 集合在此刻被物化为冻结快照
// @Tags 考试
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 201 {object} util.Response{data=model.Exam}
// @Failure 400 {object} util.Response
// @Router /api/exams [post]
func (c *ExamController) Create(ctx *gin.Context) {
	var req ExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	exam, err := c.ExamService.Create(req.toInput(), claims)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Created(ctx, exam)
}

// Update godoc
// @Summary 更新考试
// @Description 仅当请求携带 questionIds 时重算快照
// @Tags 考试
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.Exam}
// @Failure 404 {object} util.Response
// @Router /api/exams/{id} [put]
func (c *ExamController) Update(ctx *gin.Context) {
	var req ExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	id := util.MustParseUint(ctx.Param("id"))
	exam, err := c.ExamService.Update(id, req.toInput())
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, exam)
}

// Delete godoc
// @Summary 删除考试
// @Tags 考试
// @Security ApiKeyAuth
// @Success 204 "No Content"
// @Failure 404 {object} util.Response
// @Router /api/exams/{id} [delete]
func (c *ExamController) Delete(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if err := c.ExamService.Delete(id); err != nil {
		util.FromError(ctx, err)
		return
	}
	util.NoContent(ctx)
}

type SubmitRequest struct {
	Answers map[string]string `json:"answers" binding:"required"`
}

// Submit godoc
// @Summary 提交作答并判分
// @Description 按冻结快照逐题判分：去首尾空白、大小写敏感、缺答计空串
// @Tags 考试
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response
// @Router /api/exams/{id}/submit [post]
func (c *ExamController) Submit(ctx *gin.Context) {
	var req SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id := util.MustParseUint(ctx.Param("id"))
	result, err := c.ExamService.Submit(id, claims, req.Answers)
	if err != nil {
		util.FromError(ctx, err)
		return
	}

	monitoring.ExamSubmissions.WithLabelValues(strconv.FormatUint(uint64(id), 10)).Inc()

	util.Success(ctx, gin.H{"score": result.Score, "total": result.Total})
}

// Analytics godoc
// @Summary 考试成绩列表（分数降序）
// @Tags 考试
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.QuizResult}
// @Router /api/exams/{id}/analytics [get]
func (c *ExamController) Analytics(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	results, err := c.ExamService.Analytics(id)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, results)
}

// AnalyticsSummary godoc
// @Summary 考试聚合统计
// @Description 无提交时返回零值聚合而非 404
// @Tags 考试
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.AnalyticsSummary}
// @Failure 404 {object} util.Response
// @Router /api/exams/{id}/analytics/summary [get]
func (c *ExamController) AnalyticsSummary(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	summary, err := c.ExamService.AnalyticsSummary(id)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}
