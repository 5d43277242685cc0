package controller

import (
	"time"

	"qcm_backend/internal/service"
	"qcm_backend/internal/util"
	"qcm_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

// QcmController serves both surfaces of a QCM: the owning teacher's authoring
// view and the student's answer/submit view.
type QcmController struct {
	Composition *service.CompositionService
	Grading     *service.GradingService
}

func NewQcmController(composition *service.CompositionService, grading *service.GradingService) *QcmController {
	return &QcmController{Composition: composition, Grading: grading}
}

// CreateQcm godoc
// @Summary 创建测验
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.QcmRequest true "测验信息"
// @Success 201 {object} util.Response{data=model.Qcm} "创建成功"
// @Failure 422 {object} util.Response "校验失败"
// @Router /api/teacher/qcms [post]
func (c *QcmController) CreateQcm(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)

	var req service.QcmRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	qcm, err := c.Composition.CreateQcm(user.UserID, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, qcm)
}

// ListTeacherQcms godoc
// @Summary 列出当前教师的测验
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Qcm} "成功"
// @Router /api/teacher/qcms [get]
func (c *QcmController) ListTeacherQcms(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)

	qcms, err := c.Composition.ListQcmsForTeacher(user.UserID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, qcms)
}

// GetTeacherQcm godoc
// @Summary 教师查看测验详情
// @Description 含完整题目集与正确答案，仅限所有者
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response{data=service.TeacherQcmDetail} "成功"
// @Failure 403 {object} util.Response "无权访问"
// @Router /api/teacher/qcms/{id} [get]
func (c *QcmController) GetTeacherQcm(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	detail, err := c.Composition.GetQcmForTeacher(user.UserID, id)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// UpdateQcm godoc
// @Summary 更新测验
// @Description 部分更新，含发布开关；合并后整体重新校验
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验ID"
// @Param   body body service.QcmUpdateRequest true "更新内容"
// @Success 200 {object} util.Response{data=model.Qcm} "成功"
// @Router /api/teacher/qcms/{id} [put]
func (c *QcmController) UpdateQcm(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	var req service.QcmUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	qcm, err := c.Composition.UpdateQcm(user.UserID, id, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, qcm)
}

// DeleteQcm godoc
// @Summary 删除测验
// @Description 级联硬删除所有挂载题目，不退回题库
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/teacher/qcms/{id} [delete]
func (c *QcmController) DeleteQcm(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	if err := c.Composition.DeleteQcm(user.UserID, id); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

// AddQuestion godoc
// @Summary 在测验内新建题目
// @Description 题目直接挂载到测验，所有者标记为测验的所有者
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验ID"
// @Param   body body service.QuestionRequest true "题目内容"
// @Success 201 {object} util.Response{data=service.QuestionView} "创建成功"
// @Router /api/teacher/qcms/{id}/questions [post]
func (c *QcmController) AddQuestion(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.Composition.AddQuestionToQcm(user.UserID, id, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, view)
}

// ListPublishedQcms godoc
// @Summary 学生列出可参加的测验
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Qcm} "成功"
// @Router /api/qcms [get]
func (c *QcmController) ListPublishedQcms(ctx *gin.Context) {
	qcms, err := c.Composition.ListPublishedQcms()
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, qcms)
}

// GetPublishedQcm godoc
// @Summary 学生查看测验
// @Description 题目不含正确答案与解析；未发布的测验表现为不存在
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response{data=service.StudentQcmView} "成功"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/qcms/{id} [get]
func (c *QcmController) GetPublishedQcm(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	view, err := c.Composition.GetPublishedQcm(id)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// Submit godoc
// @Summary 提交测验答案
// @Description 按当前题目集评分并返回不可变的成绩单；10秒内的重复提交返回首次结果
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验ID"
// @Param   body body service.SubmitRequest true "答案集"
// @Success 200 {object} util.Response{data=service.AttemptResult} "成功"
// @Failure 403 {object} util.Response "超出尝试次数"
// @Failure 409 {object} util.Response "测验不在开放窗口内"
// @Failure 422 {object} util.Response "答案格式错误"
// @Router /api/qcms/{id}/submit [post]
func (c *QcmController) Submit(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	var req service.SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.Composition.AssertOpenForStudent(id, time.Now()); err != nil {
		util.RespondError(ctx, err)
		return
	}

	attempt, err := c.Grading.Submit(user.UserID, id, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	monitoring.RecordAttempt(id, attempt.Passed)
	util.Success(ctx, attempt)
}

// StudentResults godoc
// @Summary 学生查看自己的成绩历史
// @Tags 成绩
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "学生ID"
// @Success 200 {object} util.Response{data=[]model.Result} "成功"
// @Failure 403 {object} util.Response "仅能查看本人成绩"
// @Router /api/results/student/{id} [get]
func (c *QcmController) StudentResults(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	results, err := c.Grading.ListResultsForStudent(user.UserID, id)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, results)
}

// QcmResults godoc
// @Summary 教师查看测验的全部成绩
// @Tags 成绩
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response{data=[]model.Result} "成功"
// @Failure 403 {object} util.Response "仅限测验所有者"
// @Router /api/results/qcm/{id} [get]
func (c *QcmController) QcmResults(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	results, err := c.Grading.ListResultsForQcm(user.UserID, id)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, results)
}

// ListSubjects godoc
// @Summary 列出学科
// @Tags 测验
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Subject} "成功"
// @Router /api/subjects [get]
func (c *QcmController) ListSubjects(ctx *gin.Context) {
	subjects, err := c.Composition.ListSubjects()
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, subjects)
}
