package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/kailas-cloud/recommender/internal/domain"
)

func TestOracle_Analyze(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("unexpected model %q", req.Model)
		}
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" ||
			!strings.HasPrefix(req.Messages[0].Content, domain.AnalysisPromptPrefix) {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}

		resp := chatResponse{ID: "1", Object: "chat.completion", Model: "test-model"}
		choice := chatChoice{FinishReason: "stop"}
		choice.Message.Role = "assistant"
		choice.Message.Content = "  Java, Spring, SQL  "
		resp.Choices = append(resp.Choices, choice)
		writeJSONBody(t, w, http.StatusOK, resp)
	})

	out, err := NewOracle(testConfig(srv.URL)).Analyze(context.Background(), "Java developer")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if out != "Java, Spring, SQL" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestOracle_NoChoices(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSONBody(t, w, http.StatusOK, chatResponse{ID: "1", Object: "chat.completion"})
	})

	_, err := NewOracle(testConfig(srv.URL)).Analyze(context.Background(), "x")
	if !errors.Is(err, domain.ErrExternalService) {
		t.Fatalf("expected ErrExternalService, got %v", err)
	}
}

func TestOracle_Unauthorized(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSONBody(t, w, http.StatusUnauthorized, map[string]any{
			"error": map[string]any{"message": "invalid api key", "type": "invalid_request_error"},
		})
	})

	_, err := NewOracle(testConfig(srv.URL)).Analyze(context.Background(), "x")
	if !errors.Is(err, domain.ErrExternalService) {
		t.Fatalf("expected ErrExternalService, got %v", err)
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("expected status in message, got %v", err)
	}
}
