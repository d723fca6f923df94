package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func chatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
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
		if len(req.Messages) != 2 || !strings.Contains(req.Messages[1].Content, "<topic>Go</topic>") {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   req.Model,
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGenerateQuestions(t *testing.T) {
	content := `{"questions": [
		{"prompt": "Zero value of a map?", "options": ["nil", "{}", "0", "empty"], "answer": 1, "difficulty": "Easy"},
		{"prompt": "Three options only", "options": ["a", "b", "c"], "answer": 1},
		{"prompt": "Which keyword starts a goroutine?", "options": ["go", "async", "spawn", "run"], "answer": 1, "difficulty": "Medium"}
	]}`
	srv := chatServer(t, content)
	c := New(srv.URL+"/v1", "test-key", "test-model")

	qs, err := c.GenerateQuestions(context.Background(), "Go", 5, nil)
	if err != nil {
		t.Fatalf("GenerateQuestions: %v", err)
	}
	if len(qs) != 2 {
		t.Fatalf("expected 2 valid questions, got %d", len(qs))
	}
	for i, q := range qs {
		if q.Subject != "Go" {
			t.Errorf("Subject = %q, want Go", q.Subject)
		}
		if q.ID != i+1 {
			t.Errorf("ID = %d, want %d", q.ID, i+1)
		}
	}
}

func TestGenerateQuestionsTruncatesToCount(t *testing.T) {
	content := `{"questions": [
		{"prompt": "q1", "options": ["a", "b", "c", "d"], "answer": 1},
		{"prompt": "q2", "options": ["a", "b", "c", "d"], "answer": 2}
	]}`
	srv := chatServer(t, content)
	c := New(srv.URL+"/v1", "k", "m")
	qs, err := c.GenerateQuestions(context.Background(), "Go", 1, nil)
	if err != nil {
		t.Fatalf("GenerateQuestions: %v", err)
	}
	if len(qs) != 1 {
		t.Errorf("expected 1 question, got %d", len(qs))
	}
}

func TestParseQuestions(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr bool
		noneErr bool
	}{
		{"plain", `{"questions":[{"prompt":"p","options":["a","b","c","d"],"answer":4}]}`, 1, false, false},
		{"fenced", "```json\n{\"questions\":[{\"prompt\":\"p\",\"options\":[\"a\",\"b\",\"c\",\"d\"],\"answer\":2}]}\n```", 1, false, false},
		{"all invalid", `{"questions":[{"prompt":"","options":["a","b","c","d"],"answer":1}]}`, 0, true, true},
		{"empty", `{"questions":[]}`, 0, true, true},
		{"not json", `sorry, I cannot`, 0, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs, err := parseQuestions("Go", tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if tt.noneErr && !errors.Is(err, ErrNoQuestions) {
					t.Errorf("error = %v, want ErrNoQuestions", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseQuestions: %v", err)
			}
			if len(qs) != tt.want {
				t.Errorf("len = %d, want %d", len(qs), tt.want)
			}
		})
	}
}

func TestStripFence(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"```json\n{\"a\":1}\n```  ", `{"a":1}`},
	}
	for _, tt := range tests {
		if got := stripFence(tt.in); got != tt.want {
			t.Errorf("stripFence(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
