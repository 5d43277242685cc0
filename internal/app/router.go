package app

import (
	"qcm_backend/docs"
	"qcm_backend/internal/middleware"
	"qcm_backend/internal/model"
	"qcm_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, s *services) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.GET("/subjects", c.qcm.ListSubjects)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(s.auth), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.PUT("/profile", c.auth.UpdateProfile)
		authGroup.PUT("/profile/password", c.auth.ChangePassword)

		// 学生接口
		student := authGroup.Group("/")
		student.Use(middleware.RoleMiddleware(model.Student))
		{
			student.GET("/qcms", c.qcm.ListPublishedQcms)
			student.GET("/qcms/:id", c.qcm.GetPublishedQcm)
			student.POST("/qcms/:id/submit", c.qcm.Submit)
			student.GET("/results/student/:id", c.qcm.StudentResults)
		}

		// 教师接口
		teacher := authGroup.Group("/")
		teacher.Use(middleware.RoleMiddleware(model.Teacher))
		{
			teacher.POST("/bank/questions", c.question.CreateBankQuestion)
			teacher.GET("/bank/questions", c.question.ListBank)
			teacher.GET("/bank/questions/:id", c.question.GetQuestion)
			teacher.PUT("/bank/questions/:id", c.question.UpdateQuestion)
			teacher.DELETE("/bank/questions/:id", c.question.DeleteQuestion)
			teacher.POST("/bank/questions/:id/attach/:qcmId", c.question.AttachQuestion)
			teacher.POST("/bank/questions/:id/unassign", c.question.UnassignQuestion)

			teacher.POST("/teacher/qcms", c.qcm.CreateQcm)
			teacher.GET("/teacher/qcms", c.qcm.ListTeacherQcms)
			teacher.GET("/teacher/qcms/:id", c.qcm.GetTeacherQcm)
			teacher.PUT("/teacher/qcms/:id", c.qcm.UpdateQcm)
			teacher.DELETE("/teacher/qcms/:id", c.qcm.DeleteQcm)
			teacher.POST("/teacher/qcms/:id/questions", c.qcm.AddQuestion)

			teacher.GET("/results/qcm/:id", c.qcm.QcmResults)
		}
	}
}
