package controller

import (
	"strconv"

	"qcm_backend/internal/service"
	"qcm_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// QuestionController serves the teacher's question bank and the attach /
// unassign moves between bank and QCM.
type QuestionController struct {
	Composition *service.CompositionService
}

func NewQuestionController(composition *service.CompositionService) *QuestionController {
	return &QuestionController{Composition: composition}
}

func paramID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || id == 0 {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// CreateBankQuestion godoc
// @Summary 创建题库题目
// @Description 在当前教师的题库中创建一道未挂载的题目
// @Tags 题库
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.QuestionRequest true "题目内容"
// @Success 201 {object} util.Response{data=service.QuestionView} "创建成功"
// @Failure 422 {object} util.Response "校验失败"
// @Router /api/bank/questions [post]
func (c *QuestionController) CreateBankQuestion(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)

	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.Composition.CreateBankQuestion(user.UserID, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, view)
}

// ListBank godoc
// @Summary 列出题库题目
// @Description 列出当前教师所有未挂载的题目
// @Tags 题库
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.QuestionView} "成功"
// @Router /api/bank/questions [get]
func (c *QuestionController) ListBank(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)

	views, err := c.Composition.ListBank(user.UserID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, views)
}

// GetQuestion godoc
// @Summary 获取单个题目
// @Tags 题库
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "题目ID"
// @Success 200 {object} util.Response{data=service.QuestionView} "成功"
// @Failure 403 {object} util.Response "无权访问"
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/bank/questions/{id} [get]
func (c *QuestionController) GetQuestion(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	view, err := c.Composition.GetQuestion(user.UserID, id)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// UpdateQuestion godoc
// @Summary 更新题目
// @Description 部分更新，缺省字段保持原值，合并后整体重新校验
// @Tags 题库
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "题目ID"
// @Param   body body service.QuestionUpdateRequest true "更新内容"
// @Success 200 {object} util.Response{data=service.QuestionView} "成功"
// @Failure 422 {object} util.Response "校验失败"
// @Router /api/bank/questions/{id} [put]
func (c *QuestionController) UpdateQuestion(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	var req service.QuestionUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.Composition.UpdateQuestion(user.UserID, id, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// DeleteQuestion godoc
// @Summary 删除题目
// @Description 删除题目；若题目已挂载到测验，该测验的题目集随之缩小
// @Tags 题库
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "题目ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/bank/questions/{id} [delete]
func (c *QuestionController) DeleteQuestion(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	if err := c.Composition.DeleteQuestion(user.UserID, id); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

// AttachQuestion godoc
// @Summary 挂载题目到测验
// @Description 将题目移入目标测验；已挂载的题目直接移动，单槽位语义
// @Tags 题库
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "题目ID"
// @Param   qcmId path int true "测验ID"
// @Success 200 {object} util.Response{data=service.QuestionView} "成功"
// @Failure 403 {object} util.Response "需同时拥有题目与测验"
// @Router /api/bank/questions/{id}/attach/{qcmId} [post]
func (c *QuestionController) AttachQuestion(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	qcmID, ok := paramID(ctx, "qcmId")
	if !ok {
		return
	}

	view, err := c.Composition.AttachQuestion(user.UserID, id, qcmID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// UnassignQuestion godoc
// @Summary 取消挂载，退回题库
// @Description 将已挂载的题目退回其所有者的题库；题库题目不可再退回
// @Tags 题库
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "题目ID"
// @Success 200 {object} util.Response{data=service.QuestionView} "成功"
// @Failure 409 {object} util.Response "题目未挂载"
// @Router /api/bank/questions/{id}/unassign [post]
func (c *QuestionController) UnassignQuestion(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	view, err := c.Composition.UnassignQuestion(user.UserID, id)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}
