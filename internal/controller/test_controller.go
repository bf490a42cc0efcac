package controller

import (
	"quiz_backend/internal/service"
	"quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TestController struct {
	Service *service.TestService
}

func NewTestController(svc *service.TestService) *TestController {
	return &TestController{Service: svc}
}

// @Summary 可参加的测试列表
// @Tags 学生测试
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]TestSummary}
// @Router /student/tests [get]
func (c *TestController) ListAvailable(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	tests, err := c.Service.ListAvailable(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.Fail(ctx, err)
		return
	}

	items, err := toTestSummaries(tests)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, items)
}

// @Summary 测试详情（不含答案）
// @Tags 学生测试
// @Produce json
// @Security ApiKeyAuth
// @Param testId path string true "测试ID"
// @Param code query string false "邀请码"
// @Success 200 {object} util.Response{data=StudentTestResp}
// @Failure 403 {object} util.Response "WindowClosed / Forbidden"
// @Failure 404 {object} util.Response
// @Router /student/tests/{testId} [get]
func (c *TestController) GetTest(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	test, questions, err := c.Service.GetForStudent(ctx.Request.Context(), user.UserID, ctx.Param("testId"), ctx.Query("code"))
	if err != nil {
		util.Fail(ctx, err)
		return
	}

	summary, err := toTestSummary(test)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	views, err := toQuestionViews(questions)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, StudentTestResp{TestSummary: summary, Questions: views})
}
