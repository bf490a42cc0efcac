package controller

import (
	"errors"
	"io"

	"quiz_backend/internal/service"
	"quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AttemptController struct {
	Service *service.AttemptService
}

func NewAttemptController(svc *service.AttemptService) *AttemptController {
	return &AttemptController{Service: svc}
}

// @Summary 开始测试
// @Description 为当前学生创建一次新的作答记录
// @Tags 学生测试
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param testId path string true "测试ID"
// @Param body body StartAttemptReq false "邀请码（code 可见性的测试需要）"
// @Success 201 {object} util.Response{data=StartAttemptResp}
// @Failure 400 {object} util.Response "AlreadyActive"
// @Failure 403 {object} util.Response "WindowClosed / Forbidden"
// @Failure 404 {object} util.Response
// @Router /student/tests/{testId}/start [post]
func (c *AttemptController) StartAttempt(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req StartAttemptReq
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		util.BadRequest(ctx, err.Error())
		return
	}
	if req.JoinCode == "" {
		req.JoinCode = ctx.Query("code")
	}

	attempt, err := c.Service.Start(ctx.Request.Context(), user.UserID, ctx.Param("testId"), req.JoinCode)
	if err != nil {
		util.Fail(ctx, err)
		return
	}

	util.Created(ctx, StartAttemptResp{AttemptID: attempt.ID, StartTime: attempt.StartTime})
}

// @Summary 按测试提交答案
// @Description 提交当前学生在该测试上进行中的作答
// @Tags 学生测试
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param testId path string true "测试ID"
// @Param body body SubmitAnswersReq true "答案列表"
// @Success 200 {object} util.Response{data=service.SubmitResult}
// @Failure 400 {object} util.Response "AlreadyCompleted / NoQuestions"
// @Failure 404 {object} util.Response
// @Router /student/tests/{testId}/submit [post]
func (c *AttemptController) SubmitTest(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitAnswersReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Service.SubmitForTest(ctx.Request.Context(), ctx.Param("testId"), user.UserID, req.Answers)
	if err != nil {
		util.Fail(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// @Summary 提交作答
// @Tags 学生测试
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param attemptId path string true "作答ID"
// @Param body body SubmitAnswersReq true "答案列表"
// @Success 200 {object} util.Response{data=service.SubmitResult}
// @Failure 400 {object} util.Response "AlreadyCompleted / NoQuestions"
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /student/attempts/{attemptId}/submit [post]
func (c *AttemptController) SubmitAttempt(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitAnswersReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Service.Submit(ctx.Request.Context(), ctx.Param("attemptId"), user.UserID, req.Answers)
	if err != nil {
		util.Fail(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// @Summary 自动保存作答进度
// @Tags 学生测试
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param attemptId path string true "作答ID"
// @Param body body ProgressReq true "进度快照"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "AlreadyCompleted"
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /student/attempts/{attemptId}/progress [post]
func (c *AttemptController) SaveProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ProgressReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	err := c.Service.SaveProgress(ctx.Request.Context(), ctx.Param("attemptId"), user.UserID, req.Answers, req.TimeLeft, req.Current)
	if err != nil {
		util.Fail(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// @Summary 获取作答进度
// @Description 从未保存过进度时返回空快照
// @Tags 学生测试
// @Produce json
// @Security ApiKeyAuth
// @Param attemptId path string true "作答ID"
// @Success 200 {object} util.Response{data=ProgressResp}
// @Failure 400 {object} util.Response "AlreadyCompleted"
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /student/attempts/{attemptId}/progress [get]
func (c *AttemptController) GetProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	progress, err := c.Service.GetProgress(ctx.Request.Context(), ctx.Param("attemptId"), user.UserID)
	if err != nil {
		util.Fail(ctx, err)
		return
	}

	util.Success(ctx, toProgressResp(progress))
}

// @Summary 我的作答记录
// @Tags 学生测试
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]AttemptSummary}
// @Router /student/attempts [get]
func (c *AttemptController) ListMyAttempts(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	attempts, err := c.Service.ListForStudent(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.Fail(ctx, err)
		return
	}

	items, err := toAttemptSummaries(attempts)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, items)
}

// @Summary 作答详情（学生）
// @Tags 学生测试
// @Produce json
// @Security ApiKeyAuth
// @Param attemptId path string true "作答ID"
// @Success 200 {object} util.Response{data=model.Attempt}
// @Failure 404 {object} util.Response
// @Router /student/attempts/{attemptId} [get]
func (c *AttemptController) GetMyAttempt(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	attempt, err := c.Service.GetForStudent(ctx.Request.Context(), ctx.Param("attemptId"), user.UserID)
	if err != nil {
		util.Fail(ctx, err)
		return
	}

	util.Success(ctx, attempt)
}

// @Summary 测试的全部作答（教师）
// @Tags 教师评分
// @Produce json
// @Security ApiKeyAuth
// @Param testId path string true "测试ID"
// @Success 200 {object} util.Response{data=[]AttemptSummary}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /teacher/tests/{testId}/attempts [get]
func (c *AttemptController) ListTestAttempts(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	actor := service.Actor{UserID: user.UserID, Role: user.Role}
	attempts, err := c.Service.ListForTest(ctx.Request.Context(), actor, ctx.Param("testId"))
	if err != nil {
		util.Fail(ctx, err)
		return
	}

	items, err := toAttemptSummaries(attempts)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, items)
}

// @Summary 作答详情（教师）
// @Description 每个答案附带题目、选项与正确答案
// @Tags 教师评分
// @Produce json
// @Security ApiKeyAuth
// @Param attemptId path string true "作答ID"
// @Success 200 {object} util.Response{data=service.AttemptDetail}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /teacher/attempts/{attemptId} [get]
func (c *AttemptController) GetAttemptDetail(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	actor := service.Actor{UserID: user.UserID, Role: user.Role}
	detail, err := c.Service.GetForTeacher(ctx.Request.Context(), actor, ctx.Param("attemptId"))
	if err != nil {
		util.Fail(ctx, err)
		return
	}

	util.Success(ctx, detail)
}
