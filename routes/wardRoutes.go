package routes

import (
	"wardwatch-be/controllers"
	"wardwatch-be/middlewares"

	"github.com/gin-gonic/gin"
)

// WardRoutes sets up the ward routes
func WardRoutes(r *gin.Engine, wc *controllers.WardController) {
	wards := r.Group("/wards", middlewares.AuthMiddleware())
	{
		wards.GET("", wc.GetAllWards)
		wards.POST("", middlewares.RequireAdmin(), wc.CreateWard)
		wards.GET("/:number", wc.GetWard)
		wards.PUT("/:number", middlewares.RequireAdmin(), wc.UpdateWard)
		wards.GET("/:number/problems", wc.GetWardProblems)
	}
}
