package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"ai-quiz-service/internal/app"
	"ai-quiz-service/internal/domain"
	"ai-quiz-service/internal/infra/memory"
)

const booleanQuiz = `{"title":"Space","topic":"Astronomy","difficulty":"easy","questions":[` +
	`{"id":"1","text":"The Sun is a star.","type":"boolean","answers":[{"text":"True","isCorrect":true},{"text":"False","isCorrect":false}],"explanation":"It is."}]}`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestGenerateCommandPrintsQuiz(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		content, _ := json.Marshal(booleanQuiz)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":%s},"finish_reason":"stop"}]}`, content)
	}))
	defer provider.Close()

	t.Setenv("OPENROUTER_API_KEY", "")
	path := writeConfig(t, fmt.Sprintf("llm:\n  base_url: %s\n  api_key: test-key\nlog:\n  level: error\n", provider.URL))

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"generate", "--config", path, "--topic", "Astronomy", "--difficulty", "easy", "--count", "1", "--type", "boolean"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	var quiz domain.Quiz
	if err := json.Unmarshal(out.Bytes(), &quiz); err != nil {
		t.Fatalf("decode output %q: %v", out.String(), err)
	}
	if quiz.Title != "Space" || len(quiz.Questions) != 1 || quiz.ID == "" {
		t.Fatalf("unexpected quiz %+v", quiz)
	}
}

func TestGenerateCommandRejectsInvalidOptions(t *testing.T) {
	path := writeConfig(t, "log:\n  level: error\n")

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"generate", "--config", path, "--topic", "Astronomy", "--difficulty", "extreme"})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected invalid difficulty to fail")
	}
}

func TestHistoryCommandReadsPersistedFile(t *testing.T) {
	t.Setenv("HISTORY_BACKEND", "")
	t.Setenv("HISTORY_FILE", "")
	historyPath := filepath.Join(t.TempDir(), "history.json")

	store, err := memory.OpenFileHistoryStore(historyPath)
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	ctx := context.Background()
	_ = store.Record(ctx, domain.QuizResult{ID: "r1", QuizTitle: "Capitals", Difficulty: domain.DifficultyEasy, Score: 80, TotalQuestions: 5})
	_ = store.Record(ctx, domain.QuizResult{ID: "r2", QuizTitle: "Rivers", Difficulty: domain.DifficultyHard, Score: 40, TotalQuestions: 5})

	path := writeConfig(t, fmt.Sprintf("history:\n  backend: file\n  file: %s\nlog:\n  level: error\n", historyPath))

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"history", "--config", path, "--stats"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	var stats app.Stats
	if err := json.Unmarshal(out.Bytes(), &stats); err != nil {
		t.Fatalf("decode output %q: %v", out.String(), err)
	}
	if stats.TotalQuizzes != 2 || stats.AverageScore != 60 || stats.BestScore != 80 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	out.Reset()
	cmd = newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"history", "--config", path, "--search", "river"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	var results []domain.QuizResult
	if err := json.Unmarshal(out.Bytes(), &results); err != nil {
		t.Fatalf("decode output %q: %v", out.String(), err)
	}
	if len(results) != 1 || results[0].ID != "r2" {
		t.Fatalf("expected only r2, got %+v", results)
	}
}

func TestOpenHistoryRejectsUnknownBackend(t *testing.T) {
	path := writeConfig(t, "history:\n  backend: cassandra\nlog:\n  level: error\n")
	t.Setenv("HISTORY_BACKEND", "")

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"history", "--config", path})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected unknown backend to fail")
	}
}
