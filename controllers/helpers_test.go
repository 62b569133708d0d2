package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"wardwatch-be/middlewares"
	"wardwatch-be/models"
	"wardwatch-be/store"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type publishedEvent struct {
	Topic string
	Event string
	Data  interface{}
}

// fakeBus records publishes in place of the websocket hub.
type fakeBus struct {
	events []publishedEvent
}

func (b *fakeBus) Publish(topic, event string, data interface{}) {
	b.events = append(b.events, publishedEvent{Topic: topic, Event: event, Data: data})
}

func resident(ward int) models.Actor {
	return models.Actor{ID: primitive.NewObjectID(), Role: models.RoleResident, WardNumber: ward}
}

func admin() models.Actor {
	return models.Actor{ID: primitive.NewObjectID(), Role: models.RoleAdmin, WardNumber: 1}
}

// testRouter wires handlers on their real paths with a stub auth middleware
// injecting the given actor.
func testRouter(actor models.Actor, register func(r *gin.Engine)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middlewares.ActorKey, actor)
		c.Set("user_id", actor.ID.Hex())
	})
	register(r)
	return r
}

func problemRoutes(pc *ProblemController) func(r *gin.Engine) {
	return func(r *gin.Engine) {
		r.POST("/problems", pc.CreateProblem)
		r.GET("/problems", pc.GetAllProblems)
		r.GET("/problems/stats/summary", pc.GetStatsSummary)
		r.GET("/problems/:id", pc.GetProblem)
		r.PUT("/problems/:id/status", pc.UpdateProblemStatus)
	}
}

func wardRoutes(wc *WardController) func(r *gin.Engine) {
	return func(r *gin.Engine) {
		r.GET("/wards", wc.GetAllWards)
		r.POST("/wards", wc.CreateWard)
		r.GET("/wards/:number", wc.GetWard)
		r.PUT("/wards/:number", wc.UpdateWard)
		r.GET("/wards/:number/problems", wc.GetWardProblems)
	}
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return body
}

func seedProblem(t *testing.T, problems store.ProblemStore, ward int) models.Problem {
	t.Helper()
	created, err := problems.Create(context.Background(), models.Problem{
		Title:       "Collapsed drain cover",
		Description: "Open drain on the main road",
		Category:    models.Drainage,
		ReportedBy:  primitive.NewObjectID(),
		WardNumber:  ward,
	})
	if err != nil {
		t.Fatalf("seed problem: %v", err)
	}
	return created
}
