package controllers

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"wardwatch-be/models"
	"wardwatch-be/realtime"
	"wardwatch-be/store"
)

func newProblemFixture() (*ProblemController, *store.MemoryProblemStore, *fakeBus) {
	problems := store.NewMemoryProblemStore()
	users := store.NewMemoryUserStore()
	bus := &fakeBus{}
	return NewProblemController(problems, users, bus), problems, bus
}

func TestCreateProblemUsesActorWardNotBody(t *testing.T) {
	actor := resident(3)
	pc, _, bus := newProblemFixture()
	r := testRouter(actor, problemRoutes(pc))

	rec := doJSON(t, r, http.MethodPost, "/problems", map[string]interface{}{
		"title":       "Streetlight out",
		"description": "Dark corner near the school",
		"category":    "Streetlight",
		"wardNumber":  9,
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if got := body["wardNumber"].(float64); got != 3 {
		t.Fatalf("expected the actor's ward 3, got %v", got)
	}

	if len(bus.events) != 1 {
		t.Fatalf("expected one published event, got %d", len(bus.events))
	}
	event := bus.events[0]
	if event.Topic != realtime.WardTopic(3) || event.Event != realtime.EventNewProblem {
		t.Fatalf("expected new-problem on ward-3, got %s on %s", event.Event, event.Topic)
	}
}

func TestCreateProblemValidationListsAllFields(t *testing.T) {
	actor := resident(3)
	pc, _, bus := newProblemFixture()
	r := testRouter(actor, problemRoutes(pc))

	rec := doJSON(t, r, http.MethodPost, "/problems", map[string]interface{}{
		"title":       "x",
		"description": "y",
		"category":    "Meteorites",
		"priority":    "Extreme",
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	violations, ok := body["errors"].([]interface{})
	if !ok || len(violations) != 2 {
		t.Fatalf("expected 2 field violations, got %v", body)
	}
	if len(bus.events) != 0 {
		t.Fatal("a failed creation must not publish")
	}
}

func TestListProblemsScopedToOwnWard(t *testing.T) {
	actor := resident(3)
	pc, problems, _ := newProblemFixture()
	r := testRouter(actor, problemRoutes(pc))

	seedProblem(t, problems, 3)
	seedProblem(t, problems, 3)
	seedProblem(t, problems, 4)

	// The foreign ward filter is overridden, not rejected.
	rec := doJSON(t, r, http.MethodGet, "/problems?wardNumber=4", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	records := body["problems"].([]interface{})
	if len(records) != 2 {
		t.Fatalf("expected the 2 ward-3 records, got %d", len(records))
	}
	for _, raw := range records {
		record := raw.(map[string]interface{})
		if record["wardNumber"].(float64) != 3 {
			t.Fatalf("leaked a foreign-ward record: %v", record)
		}
	}
}

func TestListProblemsAdminSeesRequestedWard(t *testing.T) {
	actor := admin()
	pc, problems, _ := newProblemFixture()
	r := testRouter(actor, problemRoutes(pc))

	seedProblem(t, problems, 3)
	seedProblem(t, problems, 4)

	rec := doJSON(t, r, http.MethodGet, "/problems?wardNumber=4", nil)
	body := decodeBody(t, rec)
	records := body["problems"].([]interface{})
	if len(records) != 1 {
		t.Fatalf("expected 1 ward-4 record for the admin, got %d", len(records))
	}

	rec = doJSON(t, r, http.MethodGet, "/problems", nil)
	body = decodeBody(t, rec)
	if len(body["problems"].([]interface{})) != 2 {
		t.Fatal("an unfiltered admin listing should span every ward")
	}
}

func TestListProblemsPagination(t *testing.T) {
	actor := resident(3)
	pc, problems, _ := newProblemFixture()
	r := testRouter(actor, problemRoutes(pc))

	for i := 0; i < 15; i++ {
		seedProblem(t, problems, 3)
	}

	rec := doJSON(t, r, http.MethodGet, "/problems?page=2&limit=10", nil)
	body := decodeBody(t, rec)
	if got := body["totalPages"].(float64); got != 2 {
		t.Fatalf("expected totalPages 2, got %v", got)
	}
	if got := body["totalProblems"].(float64); got != 15 {
		t.Fatalf("expected totalProblems 15, got %v", got)
	}
	if got := len(body["problems"].([]interface{})); got != 5 {
		t.Fatalf("expected 5 records on page 2, got %d", got)
	}
}

func TestGetProblemFailsClosed(t *testing.T) {
	actor := resident(3)
	pc, problems, _ := newProblemFixture()
	r := testRouter(actor, problemRoutes(pc))

	foreign := seedProblem(t, problems, 4)
	own := seedProblem(t, problems, 3)

	rec := doJSON(t, r, http.MethodGet, "/problems/"+foreign.ID.Hex(), nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a foreign problem, got %d", rec.Code)
	}

	rec = doJSON(t, r, http.MethodGet, "/problems/"+own.ID.Hex(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for an own-ward problem, got %d", rec.Code)
	}

	rec = doJSON(t, r, http.MethodGet, "/problems/000000000000000000000000", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for a missing problem, got %d", rec.Code)
	}
}

func TestUpdateStatusPublishesAfterMutation(t *testing.T) {
	actor := admin()
	pc, problems, bus := newProblemFixture()
	r := testRouter(actor, problemRoutes(pc))

	created := seedProblem(t, problems, 7)

	rec := doJSON(t, r, http.MethodPut, fmt.Sprintf("/problems/%s/status", created.ID.Hex()), map[string]interface{}{
		"status":     "Resolved",
		"adminNotes": "Fixed by the maintenance crew",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["status"] != "Resolved" {
		t.Fatalf("expected Resolved, got %v", body["status"])
	}
	if body["resolvedAt"] == nil {
		t.Fatal("expected resolvedAt in the response")
	}

	if len(bus.events) != 1 {
		t.Fatalf("expected one published event, got %d", len(bus.events))
	}
	event := bus.events[0]
	if event.Topic != realtime.WardTopic(7) || event.Event != realtime.EventProblemUpdated {
		t.Fatalf("expected problem-updated on ward-7, got %s on %s", event.Event, event.Topic)
	}
}

func TestUpdateStatusDeniedForResidents(t *testing.T) {
	actor := resident(7)
	pc, problems, bus := newProblemFixture()
	r := testRouter(actor, problemRoutes(pc))

	created := seedProblem(t, problems, 7)

	rec := doJSON(t, r, http.MethodPut, fmt.Sprintf("/problems/%s/status", created.ID.Hex()), map[string]interface{}{
		"status": "Closed",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if len(bus.events) != 0 {
		t.Fatal("a denied mutation must not publish")
	}

	unchanged, err := problems.Get(context.Background(), created.ID)
	if err != nil || unchanged.Status != models.StatusOpen {
		t.Fatalf("problem must be untouched, got %v (%v)", unchanged.Status, err)
	}
}

func TestUpdateStatusAssignsAdmin(t *testing.T) {
	actor := admin()
	pc, problems, _ := newProblemFixture()
	r := testRouter(actor, problemRoutes(pc))

	created := seedProblem(t, problems, 7)
	assignee := admin().ID

	rec := doJSON(t, r, http.MethodPut, fmt.Sprintf("/problems/%s/status", created.ID.Hex()), map[string]interface{}{
		"status":     "In Progress",
		"assignedTo": assignee.Hex(),
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	updated, err := problems.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if updated.AssignedTo == nil || *updated.AssignedTo != assignee {
		t.Fatalf("expected assignee %s, got %v", assignee.Hex(), updated.AssignedTo)
	}
	if updated.ResolvedAt != nil {
		t.Fatal("In Progress must not stamp resolvedAt")
	}
}

func TestUpdateStatusBadAssigneeLeavesProblemUntouched(t *testing.T) {
	actor := admin()
	pc, problems, bus := newProblemFixture()
	r := testRouter(actor, problemRoutes(pc))

	created := seedProblem(t, problems, 7)

	rec := doJSON(t, r, http.MethodPut, fmt.Sprintf("/problems/%s/status", created.ID.Hex()), map[string]interface{}{
		"status":     "Resolved",
		"assignedTo": "not-a-hex-id",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}

	// A rejected request must leave no durable trace and publish nothing.
	unchanged, err := problems.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if unchanged.Status != models.StatusOpen {
		t.Fatalf("status must be untouched, got %s", unchanged.Status)
	}
	if unchanged.ResolvedAt != nil {
		t.Fatal("resolvedAt must not be stamped by a rejected request")
	}
	if unchanged.AssignedTo != nil {
		t.Fatal("assignee must not be set by a rejected request")
	}
	if len(bus.events) != 0 {
		t.Fatalf("a rejected request must not publish, got %d events", len(bus.events))
	}
}

func TestStatsSummaryScopedForResidents(t *testing.T) {
	actor := resident(3)
	pc, problems, _ := newProblemFixture()
	r := testRouter(actor, problemRoutes(pc))

	seedProblem(t, problems, 3)
	seedProblem(t, problems, 4)

	rec := doJSON(t, r, http.MethodGet, "/problems/stats/summary?wardNumber=4", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	byWard := body["byWard"].([]interface{})
	if len(byWard) != 1 {
		t.Fatalf("expected stats for one ward only, got %v", byWard)
	}
	if byWard[0].(map[string]interface{})["wardNumber"].(float64) != 3 {
		t.Fatalf("expected stats scoped to ward 3, got %v", byWard)
	}
}
