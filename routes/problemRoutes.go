package routes

import (
	"wardwatch-be/controllers"
	"wardwatch-be/middlewares"

	"github.com/gin-gonic/gin"
)

// ProblemRoutes sets up the problem routes
func ProblemRoutes(r *gin.Engine, pc *controllers.ProblemController) {
	problems := r.Group("/problems", middlewares.AuthMiddleware())
	{
		problems.POST("", middlewares.ReportRateLimiter(5), pc.CreateProblem)
		problems.GET("", pc.GetAllProblems)
		problems.GET("/stats/summary", pc.GetStatsSummary)
		problems.GET("/:id", pc.GetProblem)
		problems.PUT("/:id/status", middlewares.RequireAdmin(), pc.UpdateProblemStatus)
	}
}
