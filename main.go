package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"wardwatch-be/bootstrap"
	"wardwatch-be/config"
	"wardwatch-be/controllers"
	"wardwatch-be/realtime"
	"wardwatch-be/routes"
	"wardwatch-be/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	db := config.ConnectDB()
	if db == nil {
		log.Fatal("Failed to connect to MongoDB")
	}
	log.Println("MongoDB connection established successfully!")

	config.ConnectRedis()

	problems := store.NewMongoProblemStore(config.GetCollection("problems"))
	wards := store.NewMongoWardStore(config.GetCollection("wards"))
	users := store.NewMongoUserStore(config.GetCollection("users"))

	if err := store.EnsureWardIndex(config.GetCollection("wards")); err != nil {
		log.Printf("Failed to ensure ward index: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := bootstrap.Seed(ctx, wards, users); err != nil {
		cancel()
		log.Fatalf("Failed to seed initial data: %v", err)
	}
	cancel()

	hub := realtime.NewHub()

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
	}))

	routes.AuthRoutes(r, controllers.NewAuthController(users))
	routes.ProblemRoutes(r, controllers.NewProblemController(problems, users, hub))
	routes.WardRoutes(r, controllers.NewWardController(wards, problems, users))
	routes.RealtimeRoutes(r, controllers.NewRealtimeController(hub))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
