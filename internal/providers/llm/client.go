package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"docmind/internal/domain"
	"docmind/internal/grading"
)

// Options configures the gateway client.
type Options struct {
	APIKey     string
	BaseURL    string
	Model      string // fast model for text analyses and grading
	ProModel   string // stronger model for image analysis and quiz generation
	MaxTokens  int
	HTTPClient *http.Client
}

// Client talks to an OpenAI-compatible chat-completions gateway.
type Client struct {
	apiKey    string
	baseURL   string
	model     string
	proModel  string
	maxTokens int
	client    *http.Client
}

const defaultTimeout = 60 * time.Second

var (
	// ErrRateLimited mirrors the gateway's 429 responses.
	ErrRateLimited = errors.New("llm: rate limited")
	// ErrOutOfCredits mirrors the gateway's 402 responses.
	ErrOutOfCredits = errors.New("llm: insufficient credits")
)

func NewClient(opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, errors.New("llm: api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://ai.gateway.lovable.dev/v1"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "google/gemini-2.5-flash"
	}
	proModel := strings.TrimSpace(opts.ProModel)
	if proModel == "" {
		proModel = "google/gemini-2.5-pro"
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4000
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		apiKey:    opts.APIKey,
		baseURL:   baseURL,
		model:     model,
		proModel:  proModel,
		maxTokens: maxTokens,
		client:    client,
	}, nil
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// AnalysisRequest describes one analysis invocation.
type AnalysisRequest struct {
	Type        domain.AnalysisType
	Content     string
	ImageBase64 string // data URL or raw base64; set when the document is an image
}

// Analyse runs one analysis and returns the model's text.
func (c *Client) Analyse(ctx context.Context, req AnalysisRequest) (string, error) {
	prompt, ok := analysisPrompts[req.Type]
	if !ok {
		return "", fmt.Errorf("llm: unsupported analysis type %q", req.Type)
	}

	var user chatMessage
	model := c.model
	if req.ImageBase64 != "" {
		model = c.proModel
		url := req.ImageBase64
		if !strings.HasPrefix(url, "data:") {
			url = "data:image/jpeg;base64," + url
		}
		user = chatMessage{Role: "user", Content: []contentPart{
			{Type: "text", Text: imageAnalysisPrompt + "\n\nDepois de analisar a imagem, aplique a seguinte análise:\n\n" + prompt},
			{Type: "image_url", ImageURL: &imageURL{URL: url}},
		}}
	} else {
		user = chatMessage{Role: "user", Content: prompt + "\n\n" + req.Content}
	}

	return c.complete(ctx, chatRequest{
		Model:     model,
		MaxTokens: c.maxTokens,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			user,
		},
	})
}

// QuizPayload is the generator's JSON schema for a full exam.
type QuizPayload struct {
	Title            string             `json:"title"`
	Description      string             `json:"description"`
	Questions        []grading.Question `json:"questions"`
	TotalPoints      int                `json:"total_points"`
	TimeLimitMinutes int                `json:"time_limit_minutes"`
}

// GenerateQuiz produces a practice exam for the document content.
func (c *Client) GenerateQuiz(ctx context.Context, content string) (*QuizPayload, error) {
	raw, err := c.complete(ctx, chatRequest{
		Model:     c.proModel,
		MaxTokens: c.maxTokens,
		Messages: []chatMessage{
			{Role: "system", Content: quizSystemPrompt},
			{Role: "user", Content: content},
		},
	})
	if err != nil {
		return nil, err
	}

	var quiz QuizPayload
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &quiz); err != nil {
		return nil, fmt.Errorf("llm: decode quiz: %w", err)
	}
	if len(quiz.Questions) == 0 {
		return nil, errors.New("llm: quiz has no questions")
	}
	if quiz.TotalPoints == 0 {
		for _, q := range quiz.Questions {
			quiz.TotalPoints += q.Points
		}
	}
	return &quiz, nil
}

// GradeFreeText implements grading.FreeTextGrader against the gateway.
func (c *Client) GradeFreeText(ctx context.Context, q grading.Question, answer string) (bool, error) {
	payload, err := json.Marshal(map[string]any{
		"question":        q.Question,
		"expected_topics": q.ExpectedTopics,
		"answer":          answer,
	})
	if err != nil {
		return false, err
	}
	verdict, err := c.complete(ctx, chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: gradeSystemPrompt},
			{Role: "user", Content: string(payload)},
		},
	})
	if err != nil {
		return false, err
	}
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(verdict)), "correct"), nil
}

func (c *Client) complete(ctx context.Context, payload chatRequest) (string, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return "", fmt.Errorf("llm: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", &buf)
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", ErrRateLimited
	case resp.StatusCode == http.StatusPaymentRequired:
		return "", ErrOutOfCredits
	case resp.StatusCode >= 300:
		return "", fmt.Errorf("%w: gateway status %d", domain.ErrProviderFailure, resp.StatusCode)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("llm: decode response: %w", err)
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: empty completion", domain.ErrProviderFailure)
	}
	return out.Choices[0].Message.Content, nil
}

// stripCodeFence removes a ```json fence the model sometimes wraps around its
// output despite instructions.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

var _ grading.FreeTextGrader = (*Client)(nil)
