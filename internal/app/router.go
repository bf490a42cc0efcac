package app

import (
	"quiz_backend/docs"
	"quiz_backend/internal/config"
	"quiz_backend/internal/middleware"
	"quiz_backend/internal/model"
	"quiz_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	router.GET("/api/health", c.health.HealthCheck)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerTeacherRoutes(authGroup, c)
	}
}

func (a *App) registerStudentRoutes(group *gin.RouterGroup, c *controllers) {
	student := group.Group("/student")
	student.Use(middleware.RoleMiddleware(model.Student))
	{
		student.GET("/tests", c.test.ListAvailable)
		student.GET("/tests/:testId", c.test.GetTest)
		student.POST("/tests/:testId/start", c.attempt.StartAttempt)
		student.POST("/tests/:testId/submit", c.attempt.SubmitTest)

		student.GET("/attempts", c.attempt.ListMyAttempts)
		student.GET("/attempts/:attemptId", c.attempt.GetMyAttempt)
		student.POST("/attempts/:attemptId/submit", c.attempt.SubmitAttempt)
		student.POST("/attempts/:attemptId/progress", c.attempt.SaveProgress)
		student.GET("/attempts/:attemptId/progress", c.attempt.GetProgress)
	}
}

func (a *App) registerTeacherRoutes(group *gin.RouterGroup, c *controllers) {
	teacher := group.Group("/teacher")
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		teacher.GET("/tests/:testId/attempts", c.attempt.ListTestAttempts)
		teacher.GET("/attempts/:attemptId", c.attempt.GetAttemptDetail)
		teacher.PATCH("/attempts/:attemptId/grade", c.grade.OverrideAnswer)
	}
}
