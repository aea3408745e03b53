package controller

import (
	"examdesk_backend/internal/repository"
	"examdesk_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ResultController struct {
	ResultRepo *repository.ResultRepository
}

func NewResultController(resultRepo *repository.ResultRepository) *ResultController {
	return &ResultController{ResultRepo: resultRepo}
}

// List godoc
// @Summary 全部成绩（最新在前）
// @Tags 成绩
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.QuizResult}
// @Router /api/results [get]
func (c *ResultController) List(ctx *gin.Context) {
	results, err := c.ResultRepo.FindAll()
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, results)
}

// Mine godoc
// @Summary 当前学生自己的成绩
// @Tags 成绩
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.QuizResult}
// @Router /api/results/mine [get]
func (c *ResultController) Mine(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	results, err := c.ResultRepo.FindByUsername(claims.Username)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, results)
}
