package controller

import (
	"examdesk_backend/internal/service"
	"examdesk_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AIController struct {
	AIService *service.AIService
}

func NewAIController(aiService *service.AIService) *AIController {
	return &AIController{AIService: aiService}
}

type GenerateQuestionRequest struct {
	Subject      string `json:"subject" binding:"required"`
	Grade        string `json:"grade" binding:"required"`
	Topic        string `json:"topic"`
	Difficulty   string `json:"difficulty"`
	QuestionType string `json:"questionType"`
}

// GenerateQuestion godoc
// @Summary AI 生成题目草稿
// @Description 草稿仅返回给调用方，由前端确认后走题库录入流程
// @Tags AI
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.DraftQuestion}
// @Failure 502 {object} util.Response "上游 AI 服务失败"
// @Router /api/ai/generate-question [post]
func (c *AIController) GenerateQuestion(ctx *gin.Context) {
	var req GenerateQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	draft, err := c.AIService.GenerateQuestion(service.GenerateQuestionInput{
		Subject:      req.Subject,
		Grade:        req.Grade,
		Topic:        req.Topic,
		Difficulty:   req.Difficulty,
		QuestionType: req.QuestionType,
	})
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, draft)
}
