package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"smp-portal/backend/internal/dto"
	"smp-portal/backend/internal/model"
)

func writeEnvelope(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"code":    0,
		"message": "success",
		"data":    data,
	})
}

func writeError(w http.ResponseWriter, status, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"code":    code,
		"message": message,
	})
}

func TestShiftClient_FetchShift(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/shifts/7" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		writeEnvelope(w, http.StatusOK, dto.ShiftResponse{ID: 7, Status: model.ShiftOngoing})
	}))
	defer srv.Close()

	c := NewShiftClient(srv.URL, "")
	shift, err := c.FetchShift(context.Background(), 7)
	if err != nil {
		t.Fatalf("FetchShift should succeed: %v", err)
	}
	if shift.ID != 7 || shift.Status != model.ShiftOngoing {
		t.Errorf("unexpected shift: %+v", shift)
	}
}

func TestShiftClient_FetchShift_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, 11001, "shift not found")
	}))
	defer srv.Close()

	c := NewShiftClient(srv.URL, "")
	_, err := c.FetchShift(context.Background(), 404)
	if err == nil {
		t.Fatal("expected an error on 404")
	}
	if !strings.Contains(err.Error(), "shift not found") {
		t.Errorf("error should carry the peer's message, got %v", err)
	}
}

func TestShiftClient_TrailingSlashBaseURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "//") {
			t.Errorf("double slash in path %s", r.URL.Path)
		}
		writeEnvelope(w, http.StatusOK, dto.ShiftResponse{ID: 1})
	}))
	defer srv.Close()

	c := NewShiftClient(srv.URL+"/", "")
	if _, err := c.FetchShift(context.Background(), 1); err != nil {
		t.Fatalf("FetchShift should succeed: %v", err)
	}
}

func TestIncidentClient_FetchIncidentsByShift_Pages(t *testing.T) {
	// Two full pages then a short one; the client must walk all three.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if limit != 100 {
			t.Errorf("limit = %d, want 100", limit)
		}

		count := 100
		if page == 3 {
			count = 5
		}
		if page > 3 {
			t.Errorf("unexpected page %d", page)
			count = 0
		}
		list := make([]dto.IncidentResponse, count)
		for i := range list {
			list[i] = dto.IncidentResponse{ID: int64((page-1)*100 + i + 1)}
		}
		writeEnvelope(w, http.StatusOK, map[string]interface{}{"list": list})
	}))
	defer srv.Close()

	c := NewIncidentClient(srv.URL, "")
	incidents, err := c.FetchIncidentsByShift(context.Background(), 1)
	if err != nil {
		t.Fatalf("FetchIncidentsByShift should succeed: %v", err)
	}
	if len(incidents) != 205 {
		t.Errorf("expected 205 incidents across pages, got %d", len(incidents))
	}
	if incidents[0].ID != 1 || incidents[204].ID != 205 {
		t.Error("incident order should follow the pages")
	}
}

func TestIncidentClient_AcknowledgeIncident(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody dto.UpdateIncidentRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		writeEnvelope(w, http.StatusOK, nil)
	}))
	defer srv.Close()

	c := NewIncidentClient(srv.URL, "")
	if err := c.AcknowledgeIncident(context.Background(), 21); err != nil {
		t.Fatalf("AcknowledgeIncident should succeed: %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/api/v1/incidents/21" {
		t.Errorf("unexpected request %s %s", gotMethod, gotPath)
	}
	if gotBody.Status == nil || *gotBody.Status != model.IncidentAcknowledged {
		t.Errorf("expected an acknowledged status move, got %+v", gotBody)
	}
}

func TestWorkplanClient_FetchWorkplanByIncident(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/workplans/21" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		writeEnvelope(w, http.StatusOK, dto.WorkplanResponse{
			ID:         31,
			IncidentID: 21,
			HazardID:   5,
			Tasks:      []dto.TaskResponse{{ID: 41, Status: model.TaskPending}},
		})
	}))
	defer srv.Close()

	c := NewWorkplanClient(srv.URL, "")
	workplan, err := c.FetchWorkplanByIncident(context.Background(), 21)
	if err != nil {
		t.Fatalf("FetchWorkplanByIncident should succeed: %v", err)
	}
	if workplan.ID != 31 || len(workplan.Tasks) != 1 {
		t.Errorf("unexpected workplan: %+v", workplan)
	}
}

func TestBaseClient_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "<html>gateway error</html>")
	}))
	defer srv.Close()

	c := NewShiftClient(srv.URL, "")
	if _, err := c.FetchShift(context.Background(), 1); err == nil {
		t.Fatal("expected a decode error on a non-JSON body")
	}
}

func TestBaseClient_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewShiftClient(srv.URL, "")
	if _, err := c.FetchShift(ctx, 1); err == nil {
		t.Fatal("expected an error from a cancelled context")
	}
}

// requireBearer guards a test server the way the peer services guard their
// routes: no bearer token, no service.
func requireBearer(token string, t *testing.T, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" {
			writeError(w, http.StatusUnauthorized, 10002, "missing authorization header")
			return
		}
		if auth != "Bearer "+token {
			t.Errorf("unexpected authorization header %q", auth)
			writeError(w, http.StatusUnauthorized, 10002, "invalid or expired token")
			return
		}
		next(w, r)
	}
}

func TestBaseClient_SendsServiceToken(t *testing.T) {
	const token = "svc-token-for-tests"
	srv := httptest.NewServer(requireBearer(token, t, func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, http.StatusOK, dto.ShiftResponse{ID: 7})
	}))
	defer srv.Close()

	c := NewShiftClient(srv.URL, token)
	if _, err := c.FetchShift(context.Background(), 7); err != nil {
		t.Fatalf("FetchShift should pass the token guard: %v", err)
	}
}

func TestBaseClient_SendsServiceTokenOnPut(t *testing.T) {
	const token = "svc-token-for-tests"
	srv := httptest.NewServer(requireBearer(token, t, func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, http.StatusOK, nil)
	}))
	defer srv.Close()

	c := NewIncidentClient(srv.URL, token)
	if err := c.AcknowledgeIncident(context.Background(), 21); err != nil {
		t.Fatalf("AcknowledgeIncident should pass the token guard: %v", err)
	}
}

func TestBaseClient_MissingTokenRejected(t *testing.T) {
	srv := httptest.NewServer(requireBearer("svc-token-for-tests", t, func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, http.StatusOK, dto.ShiftResponse{ID: 7})
	}))
	defer srv.Close()

	c := NewShiftClient(srv.URL, "")
	_, err := c.FetchShift(context.Background(), 7)
	if err == nil {
		t.Fatal("expected an error without a service token")
	}
	if !strings.Contains(err.Error(), "missing authorization header") {
		t.Errorf("error should carry the guard's message, got %v", err)
	}
}
