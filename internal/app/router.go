package app

import (
	"examdesk_backend/internal/config"
	"examdesk_backend/internal/middleware"
	"examdesk_backend/internal/model"
	"examdesk_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/profile", c.auth.GetProfile)

		users := authGroup.Group("/users")
		{
			users.GET("", middleware.RoleMiddleware(model.Admin), c.user.List)
			users.GET("/:id", middleware.SelfOrAdminMiddleware("id"), c.user.Get)
			users.PUT("/:id", middleware.SelfOrAdminMiddleware("id"), c.user.Update)
			users.PATCH("/:id/disable", middleware.RoleMiddleware(model.Admin), c.user.ToggleDisable)
			users.DELETE("/:id", middleware.RoleMiddleware(model.Admin), c.user.Delete)
		}

		questions := authGroup.Group("/questions")
		{
			questions.GET("", c.question.List)
			questions.POST("", middleware.RoleMiddleware(model.Teacher), c.question.Create)
			questions.PUT("/:id", middleware.RoleMiddleware(model.Teacher), c.question.Update)
			questions.PATCH("/:id/status", middleware.RoleMiddleware(model.Admin), c.question.UpdateStatus)
			questions.PATCH("/:id/disable", middleware.RoleMiddleware(model.Admin), c.question.ToggleDisable)
			questions.DELETE("/:id", middleware.RoleMiddleware(model.Admin), c.question.Delete)
		}

		exams := authGroup.Group("/exams")
		{
			exams.GET("", c.exam.List)
			exams.GET("/:id", middleware.RoleMiddleware(model.Teacher), c.exam.Get)
			exams.GET("/:id/paper", c.exam.GetPaper)
			exams.POST("", middleware.RoleMiddleware(model.Teacher), c.exam.Create)
			exams.PUT("/:id", middleware.RoleMiddleware(model.Teacher), c.exam.Update)
			exams.DELETE("/:id", middleware.RoleMiddleware(model.Teacher), c.exam.Delete)
			exams.POST("/:id/submit", c.exam.Submit)
			exams.GET("/:id/analytics", middleware.RoleMiddleware(model.Teacher), c.exam.Analytics)
			exams.GET("/:id/analytics/summary", middleware.RoleMiddleware(model.Teacher), c.exam.AnalyticsSummary)
		}

		results := authGroup.Group("/results")
		{
			results.GET("", middleware.RoleMiddleware(model.Teacher), c.result.List)
			results.GET("/mine", c.result.Mine)
		}

		metadata := authGroup.Group("/metadata")
		{
			metadata.GET("", c.metadata.GetAll)
			metadata.GET("/:key", c.metadata.Get)
			metadata.PUT("/:key", middleware.RoleMiddleware(model.Admin), c.metadata.Update)
		}

		authGroup.POST("/ai/generate-question", middleware.RoleMiddleware(model.Teacher), c.ai.GenerateQuestion)
	}
}
