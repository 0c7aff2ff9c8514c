package rag

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mealgen/internal/config"
)

func TestGenerate(t *testing.T) {
	t.Run("posts request and decodes response", func(t *testing.T) {
		var gotPath, gotSecret, gotAuth string
		var gotReq GenerateRequest

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotSecret = r.Header.Get("X-RAG-SECRET")
			gotAuth = r.Header.Get("Authorization")
			json.NewDecoder(r.Body).Decode(&gotReq)

			json.NewEncoder(w).Encode(GenerateResponse{
				Title:     "AI Plan",
				StartDate: "2026-03-02",
				EndDate:   "2026-03-08",
				PlanJSON:  `{"plan": []}`,
			})
		}))
		defer ts.Close()

		client := NewClient(&config.Config{
			RagBaseURL:      ts.URL,
			RagSharedSecret: "hunter2",
			RagServiceKey:   "svc:" + "deadbeef",
		})

		resp, err := client.Generate(context.Background(), GenerateRequest{
			UserID: "u1",
			Store:  "TRADER_JOES",
			Days:   7,
		})
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}

		if gotPath != "/generate" {
			t.Errorf("path = %s, want /generate", gotPath)
		}
		if gotSecret != "hunter2" {
			t.Errorf("X-RAG-SECRET = %q, want hunter2", gotSecret)
		}
		if !strings.HasPrefix(gotAuth, "Bearer ") {
			t.Errorf("Authorization = %q, want a bearer token", gotAuth)
		}
		if gotReq.UserID != "u1" || gotReq.Store != "TRADER_JOES" || gotReq.Days != 7 {
			t.Errorf("unexpected request payload: %+v", gotReq)
		}
		if resp.Title != "AI Plan" || resp.PlanJSON != `{"plan": []}` {
			t.Errorf("unexpected response: %+v", resp)
		}
	})

	t.Run("no auth headers when unconfigured", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-RAG-SECRET") != "" || r.Header.Get("Authorization") != "" {
				t.Error("unexpected auth headers on unauthenticated client")
			}
			json.NewEncoder(w).Encode(GenerateResponse{PlanJSON: `{}`})
		}))
		defer ts.Close()

		client := NewClient(&config.Config{RagBaseURL: ts.URL})
		if _, err := client.Generate(context.Background(), GenerateRequest{}); err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
	})

	t.Run("non-200 is an error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer ts.Close()

		client := NewClient(&config.Config{RagBaseURL: ts.URL})
		_, err := client.Generate(context.Background(), GenerateRequest{})
		if err == nil || !strings.Contains(err.Error(), "status=500") {
			t.Errorf("expected status error, got %v", err)
		}
	})

	t.Run("empty plan is an error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(GenerateResponse{Title: "Empty"})
		}))
		defer ts.Close()

		client := NewClient(&config.Config{RagBaseURL: ts.URL})
		if _, err := client.Generate(context.Background(), GenerateRequest{}); err == nil {
			t.Error("expected an error for a response without a plan")
		}
	})

	t.Run("missing base URL is an error", func(t *testing.T) {
		client := NewClient(&config.Config{})
		if _, err := client.Generate(context.Background(), GenerateRequest{}); err == nil {
			t.Error("expected an error without a base URL")
		}
	})

	t.Run("malformed service key is an error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(GenerateResponse{PlanJSON: `{}`})
		}))
		defer ts.Close()

		client := NewClient(&config.Config{RagBaseURL: ts.URL, RagServiceKey: "no-colon"})
		_, err := client.Generate(context.Background(), GenerateRequest{})
		if err == nil || !strings.Contains(err.Error(), "service token") {
			t.Errorf("expected a service token error, got %v", err)
		}
	})
}
