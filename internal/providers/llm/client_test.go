package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"docmind/internal/domain"
	"docmind/internal/grading"
)

func completionServer(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		})
	}))
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(Options{APIKey: "test-key", BaseURL: baseURL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestClientRequiresAPIKey(t *testing.T) {
	if _, err := NewClient(Options{}); err == nil {
		t.Fatal("expected error without api key")
	}
}

func TestAnalyseReturnsCompletion(t *testing.T) {
	srv := completionServer(t, http.StatusOK, "Resumo do documento.")
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	got, err := c.Analyse(context.Background(), AnalysisRequest{
		Type:    domain.AnalysisSummary,
		Content: "texto longo",
	})
	if err != nil {
		t.Fatalf("Analyse: %v", err)
	}
	if got != "Resumo do documento." {
		t.Fatalf("result = %q", got)
	}
}

func TestAnalyseRejectsUnknownType(t *testing.T) {
	c := newTestClient(t, "http://localhost:0")
	if _, err := c.Analyse(context.Background(), AnalysisRequest{Type: "poetry"}); err == nil {
		t.Fatal("expected error for unknown analysis type")
	}
}

func TestAnalyseMapsGatewayErrors(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusTooManyRequests, ErrRateLimited},
		{http.StatusPaymentRequired, ErrOutOfCredits},
	}
	for _, tt := range tests {
		srv := completionServer(t, tt.status, "")
		c := newTestClient(t, srv.URL)
		_, err := c.Analyse(context.Background(), AnalysisRequest{
			Type:    domain.AnalysisSummary,
			Content: "texto",
		})
		srv.Close()
		if err != tt.want {
			t.Fatalf("status %d: err = %v, want %v", tt.status, err, tt.want)
		}
	}
}

func TestGenerateQuizDecodesFencedJSON(t *testing.T) {
	quizJSON := `{"title":"Prova","description":"d","questions":[{"id":1,"type":"true_false","question":"?","correct_answer":"true","points":2}],"time_limit_minutes":30}`
	srv := completionServer(t, http.StatusOK, "```json\n"+quizJSON+"\n```")
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	quiz, err := c.GenerateQuiz(context.Background(), "conteúdo")
	if err != nil {
		t.Fatalf("GenerateQuiz: %v", err)
	}
	if quiz.Title != "Prova" || len(quiz.Questions) != 1 {
		t.Fatalf("quiz = %+v", quiz)
	}
	if quiz.TotalPoints != 2 {
		t.Fatalf("TotalPoints = %d, want summed 2", quiz.TotalPoints)
	}
}

func TestGenerateQuizRejectsEmptyQuiz(t *testing.T) {
	srv := completionServer(t, http.StatusOK, `{"title":"vazia","questions":[]}`)
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	if _, err := c.GenerateQuiz(context.Background(), "conteúdo"); err == nil {
		t.Fatal("expected error for quiz with no questions")
	}
}

func TestGradeFreeTextVerdict(t *testing.T) {
	tests := []struct {
		verdict string
		want    bool
	}{
		{"correct", true},
		{"Correct.", true},
		{"incorrect", false},
		{"unsure", false},
	}
	for _, tt := range tests {
		srv := completionServer(t, http.StatusOK, tt.verdict)
		c := newTestClient(t, srv.URL)
		got, err := c.GradeFreeText(context.Background(), grading.Question{Question: "?"}, "resposta")
		srv.Close()
		if err != nil {
			t.Fatalf("verdict %q: %v", tt.verdict, err)
		}
		if got != tt.want {
			t.Fatalf("verdict %q: got %v, want %v", tt.verdict, got, tt.want)
		}
	}
}
