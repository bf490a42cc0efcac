package controller

import (
	"quiz_backend/internal/service"
	"quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GradeController struct {
	Grading *service.GradingService
}

func NewGradeController(grading *service.GradingService) *GradeController {
	return &GradeController{Grading: grading}
}

// @Summary 教师人工改判单题
// @Description 修改某题的对错与评语并重新计算总分；进行中的作答不可改判
// @Tags 教师评分
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param attemptId path string true "作答ID"
// @Param body body GradeReq true "questionId（或 answerId）、isCorrect、teacherComment"
// @Success 200 {object} util.Response{data=model.Attempt}
// @Failure 400 {object} util.Response "AlreadyActive"
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /teacher/attempts/{attemptId}/grade [patch]
func (c *GradeController) OverrideAnswer(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req GradeReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	questionID := req.question()
	if questionID == "" {
		util.BadRequest(ctx, "questionId is required")
		return
	}

	grader := service.Actor{UserID: user.UserID, Role: user.Role}
	attempt, err := c.Grading.OverrideAnswer(ctx.Request.Context(), grader, ctx.Param("attemptId"), questionID, *req.IsCorrect, req.TeacherComment)
	if err != nil {
		util.Fail(ctx, err)
		return
	}

	util.Success(ctx, attempt)
}
