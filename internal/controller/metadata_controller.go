package controller

import (
	"encoding/json"
	"examdesk_backend/internal/service"
	"examdesk_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type MetadataController struct {
	MetadataService *service.MetadataService
}

func NewMetadataController(metadataService *service.MetadataService) *MetadataController {
	return &MetadataController{MetadataService: metadataService}
}

// GetAll godoc
// @Summary 全部分类字典
// @Tags 元数据
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object}
// @Router /api/metadata [get]
func (c *MetadataController) GetAll(ctx *gin.Context) {
	entries, err := c.MetadataService.GetAll(ctx.Request.Context())
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}

// Get godoc
// @Summary 单个字典
// @Description key 不存在时返回空数组而非 404
// @Tags 元数据
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object}
// @Router /api/metadata/{key} [get]
func (c *MetadataController) Get(ctx *gin.Context) {
	value, err := c.MetadataService.Get(ctx.Request.Context(), ctx.Param("key"))
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, value)
}

type MetadataUpdateRequest struct {
	Value json.RawMessage `json:"value" binding:"required"`
}

// Update godoc
// @Summary 写入字典（upsert）
// @Tags 元数据
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Router /api/metadata/{key} [put]
func (c *MetadataController) Update(ctx *gin.Context) {
	var req MetadataUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	key := ctx.Param("key")
	if err := c.MetadataService.Update(ctx.Request.Context(), key, req.Value); err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"key": key})
}
