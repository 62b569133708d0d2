package routes

import (
	"wardwatch-be/controllers"
	"wardwatch-be/middlewares"

	"github.com/gin-gonic/gin"
)

// RealtimeRoutes sets up the websocket endpoint
func RealtimeRoutes(r *gin.Engine, rc *controllers.RealtimeController) {
	r.GET("/ws", middlewares.AuthMiddleware(), rc.Serve)
}
