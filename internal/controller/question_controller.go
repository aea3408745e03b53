package controller

import (
	"examdesk_backend/internal/model"
	"examdesk_backend/internal/repository"
	"examdesk_backend/internal/service"
	"examdesk_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	QuestionService *service.QuestionService
}

func NewQuestionController(questionService *service.QuestionService) *QuestionController {
	return &QuestionController{QuestionService: questionService}
}

// List godoc
// @Summary 题目列表
// @Description 支持 grade_id / subject_id / approval_status 过滤，最新在前
// @Tags 题库
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.QuestionListItem}
// @Router /api/questions [get]
func (c *QuestionController) List(ctx *gin.Context) {
	filter := repository.QuestionFilter{
		GradeID:        util.MustParseUint(ctx.Query("grade_id")),
		SubjectID:      util.MustParseUint(ctx.Query("subject_id")),
		ApprovalStatus: model.ApprovalStatus(ctx.Query("approval_status")),
	}

	items, err := c.QuestionService.List(ctx.Request.Context(), filter)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, items)
}

type QuestionRequest struct {
	QuestionText string   `json:"questionText" binding:"required"`
	QuestionType string   `json:"questionType" binding:"required"`
	SubjectID    uint     `json:"subjectId" binding:"required"`
	GradeID      uint     `json:"gradeId" binding:"required"`
	Topic        string   `json:"topic"`
	Difficulty   string   `json:"difficulty"`
	Marks        int      `json:"marks"`
	Options      []string `json:"options" binding:"required"`
	Answer       string   `json:"answer" binding:"required"`
}

func (r QuestionRequest) toInput() service.QuestionInput {
	return service.QuestionInput{
		QuestionText: r.QuestionText,
		QuestionType: r.QuestionType,
		SubjectID:    r.SubjectID,
		GradeID:      r.GradeID,
		Topic:        r.Topic,
		Difficulty:   r.Difficulty,
		Marks:        r.Marks,
		Options:      r.Options,
		Answer:       r.Answer,
	}
}

// Create godoc
// @Summary 录入题目
// @Description admin/owner 录入直接 approved，teacher 录入进入 pending
// @Tags 题库
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 201 {object} util.Response{data=model.Question}
// @Failure 400 {object} util.Response
// @Router /api/questions [post]
func (c *QuestionController) Create(ctx *gin.Context) {
	var req QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	question, err := c.QuestionService.Create(req.toInput(), claims)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Created(ctx, question)
}

// Update godoc
// @Summary 更新题目（全量替换）
// @Tags 题库
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.Question}
// @Failure 404 {object} util.Response
// @Router /api/questions/{id} [put]
func (c *QuestionController) Update(ctx *gin.Context) {
	var req QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	id := util.MustParseUint(ctx.Param("id"))
	question, err := c.QuestionService.Update(id, req.toInput())
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus godoc
// @Summary 审批状态流转
// @Description status 仅接受 approved/rejected/pending
// @Tags 题库
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.Question}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/questions/{id}/status [patch]
func (c *QuestionController) UpdateStatus(ctx *gin.Context) {
	var req UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	id := util.MustParseUint(ctx.Param("id"))
	question, err := c.QuestionService.UpdateStatus(id, req.Status)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// ToggleDisable godoc
// @Summary 启用/停用题目
// @Tags 题库
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.Question}
// @Failure 404 {object} util.Response
// @Router /api/questions/{id}/disable [patch]
func (c *QuestionController) ToggleDisable(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	question, err := c.QuestionService.ToggleDisabled(id)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// Delete godoc
// @Summary 删除题目
// @Tags 题库
// @Security ApiKeyAuth
// @Success 204 "No Content"
// @Failure 404 {object} util.Response
// @Router /api/questions/{id} [delete]
func (c *QuestionController) Delete(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if err := c.QuestionService.Delete(id); err != nil {
		util.FromError(ctx, err)
		return
	}
	util.NoContent(ctx)
}
