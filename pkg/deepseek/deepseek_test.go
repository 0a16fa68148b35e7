package deepseek_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"mail-calendar-automation/pkg/deepseek"
)

func TestNew(t *testing.T) {
	if _, err := deepseek.New(deepseek.Config{}); !errors.Is(err, deepseek.ErrMissingAPIKey) {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}

	c, err := deepseek.New(deepseek.Config{APIKey: "k"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Model() != deepseek.DefaultModel {
		t.Errorf("expected default model, got %s", c.Model())
	}
}

func TestClient_GenerateText(t *testing.T) {
	var lastReq deepseek.ChatRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
			return
		}
		lastReq = deepseek.ChatRequest{}
		if err := json.NewDecoder(r.Body).Decode(&lastReq); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		switch lastReq.Messages[len(lastReq.Messages)-1].Content {
		case "empty":
			w.Write([]byte(`{"choices":[]}`))
		default:
			w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"title\":\"PADEL\"}"}}]}`))
		}
	}))
	defer ts.Close()

	c, err := deepseek.New(deepseek.Config{APIKey: "test-key", BaseURL: ts.URL + "/", Model: deepseek.QwenModel})
	if err != nil {
		t.Fatal(err)
	}

	t.Run("json reply", func(t *testing.T) {
		text, err := c.GenerateText(context.Background(), "system", "booking", true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if text != `{"title":"PADEL"}` {
			t.Errorf("text = %q", text)
		}
		if lastReq.Model != deepseek.QwenModel {
			t.Errorf("model = %q", lastReq.Model)
		}
		if len(lastReq.Messages) != 2 || lastReq.Messages[0].Role != "system" {
			t.Errorf("unexpected messages: %+v", lastReq.Messages)
		}
		if lastReq.ResponseFormat == nil || lastReq.ResponseFormat.Type != "json_object" {
			t.Errorf("expected json_object response format, got %+v", lastReq.ResponseFormat)
		}
	})

	t.Run("empty reply", func(t *testing.T) {
		if _, err := c.GenerateText(context.Background(), "", "empty", false); !errors.Is(err, deepseek.ErrEmptyResponse) {
			t.Errorf("expected ErrEmptyResponse, got %v", err)
		}
	})

	t.Run("api error", func(t *testing.T) {
		bad, _ := deepseek.New(deepseek.Config{APIKey: "wrong", BaseURL: ts.URL})
		_, err := bad.GenerateText(context.Background(), "", "x", false)
		var apiErr *deepseek.APIError
		if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized || apiErr.Message != "invalid api key" {
			t.Errorf("expected 401 APIError, got %v", err)
		}
	})
}
