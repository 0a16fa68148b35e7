package gemini_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mail-calendar-automation/pkg/gemini"
)

func TestNew(t *testing.T) {
	if _, err := gemini.New(gemini.Config{}); !errors.Is(err, gemini.ErrMissingAPIKey) {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}

	c, err := gemini.New(gemini.Config{APIKey: "k"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Model() != gemini.DefaultModel {
		t.Errorf("expected default model, got %s", c.Model())
	}
}

func TestClient_GenerateContent(t *testing.T) {
	var lastReq gemini.GenerateRequest
	var lastPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		if r.URL.Query().Get("key") != "test-api-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		lastPath = r.URL.Path
		lastReq = gemini.GenerateRequest{}
		if err := json.NewDecoder(r.Body).Decode(&lastReq); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		text := lastReq.Contents[0].Parts[0].Text
		switch text {
		case "cause_500":
			w.WriteHeader(http.StatusInternalServerError)
			return
		case "empty":
			w.Write([]byte(`{"candidates": []}`))
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"candidates": [
				{
					"content": {
						"parts": [
							{ "text": "mocked " },
							{ "text": "response string" }
						],
						"role": "model"
					},
					"finishReason": "STOP"
				}
			]
		}`))
	}))
	defer ts.Close()

	client := gemini.NewClient("test-api-key")
	client.SetAPIURL(ts.URL)

	t.Run("Success Flow", func(t *testing.T) {
		req := gemini.GenerateRequest{
			Contents: []gemini.Content{
				{Parts: []gemini.Part{{Text: "Hello world"}}},
			},
		}

		resp, err := client.GenerateContent(context.Background(), req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(resp.Candidates) != 1 {
			t.Fatalf("expected 1 candidate")
		}
		if resp.Text() != "mocked response string" {
			t.Errorf("unexpected content response: %s", resp.Text())
		}
		if lastPath != "/models/"+gemini.DefaultModel+":generateContent" {
			t.Errorf("unexpected path %s", lastPath)
		}
	})

	t.Run("Server Error Flow", func(t *testing.T) {
		req := gemini.GenerateRequest{
			Contents: []gemini.Content{
				{Parts: []gemini.Part{{Text: "cause_500"}}},
			},
		}

		_, err := client.GenerateContent(context.Background(), req)
		if err == nil {
			t.Fatalf("expected error from 500 response")
		}
	})

	t.Run("GenerateText JSON", func(t *testing.T) {
		text, err := client.GenerateText(context.Background(), "system rules", "Hello", true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if text != "mocked response string" {
			t.Errorf("unexpected text %q", text)
		}
		if lastReq.SystemInstruction == nil || lastReq.SystemInstruction.Parts[0].Text != "system rules" {
			t.Errorf("system instruction not sent: %+v", lastReq.SystemInstruction)
		}
		if lastReq.GenerationConfig == nil || lastReq.GenerationConfig.ResponseMimeType != "application/json" {
			t.Errorf("expected json response mime type: %+v", lastReq.GenerationConfig)
		}
		if lastReq.Contents[0].Role != "user" {
			t.Errorf("expected user role, got %q", lastReq.Contents[0].Role)
		}
	})

	t.Run("GenerateText empty", func(t *testing.T) {
		_, err := client.GenerateText(context.Background(), "", "empty", false)
		if !errors.Is(err, gemini.ErrEmptyResponse) {
			t.Fatalf("expected ErrEmptyResponse, got %v", err)
		}
	})

	t.Run("Wrong key", func(t *testing.T) {
		c2 := gemini.NewClient("wrong")
		c2.SetAPIURL(ts.URL)
		_, err := c2.GenerateText(context.Background(), "", "Hello", false)
		if err == nil || !strings.Contains(err.Error(), "401") {
			t.Fatalf("expected 401 error, got %v", err)
		}
	})
}
