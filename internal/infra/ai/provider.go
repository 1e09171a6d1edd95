package ai

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"quizroom-service/internal/domain"
)

// ErrMissingCredential means no API key was configured; callers treat it as
// zero results, exactly like any other provider failure.
var ErrMissingCredential = errors.New("ai provider: api key not configured")

// Provider generates questions through an OpenAI-compatible chat completions
// endpoint. All failures (timeout, malformed response, missing credential)
// surface as errors that the selection policy recovers from.
type Provider struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
}

func NewProvider(endpoint, apiKey, model string, timeout time.Duration) *Provider {
	if endpoint == "" {
		endpoint = "https://api.openai.com"
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Provider{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		model:    model,
		client:   &http.Client{Timeout: timeout},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// generatedQuestion mirrors the JSON shape the model is asked to emit.
type generatedQuestion struct {
	Type          string   `json:"type"`
	Question      string   `json:"question"`
	Answer        string   `json:"answer"`
	Keywords      []string `json:"keywords"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correctOption"`
}

// Generate implements app.AIProvider.
func (p *Provider) Generate(ctx context.Context, filters domain.Filters, count int) ([]domain.Question, error) {
	if p.apiKey == "" {
		return nil, ErrMissingCredential
	}

	body, err := json.Marshal(chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You generate quiz questions. Respond with only a JSON array, no prose."},
			{Role: "user", Content: buildPrompt(filters, count)},
		},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ai provider returned status %d", resp.StatusCode)
	}

	var payload chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode ai response: %w", err)
	}
	if len(payload.Choices) == 0 {
		return nil, errors.New("ai response contained no choices")
	}

	return parseQuestions(payload.Choices[0].Message.Content, filters, count)
}

func buildPrompt(filters domain.Filters, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d quiz questions", count)
	if filters.Grade != 0 {
		fmt.Fprintf(&b, " for grade %d", filters.Grade)
	}
	if filters.Subject != "" {
		fmt.Fprintf(&b, " in %s", filters.Subject)
	}
	if filters.Chapter != "" {
		fmt.Fprintf(&b, " on the chapter %q", filters.Chapter)
	}
	if filters.Type != "" {
		fmt.Fprintf(&b, " of type %q", filters.Type)
	} else {
		b.WriteString(" mixing types long, short, mcq and numerical")
	}
	b.WriteString(`. Each array element must have fields: type, question, answer, keywords (array of strings). For type "mcq" also include options (exactly 4 strings) and correctOption (1-based index of the right option).`)
	return b.String()
}

// parseQuestions defensively extracts questions from model output. Models
// wrap JSON in code fences or prose often enough that we cut out the first
// top-level array before unmarshalling, and drop any element that fails
// validation instead of rejecting the whole batch.
func parseQuestions(content string, filters domain.Filters, count int) ([]domain.Question, error) {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start < 0 || end <= start {
		return nil, errors.New("ai response contained no JSON array")
	}

	var generated []generatedQuestion
	if err := json.Unmarshal([]byte(content[start:end+1]), &generated); err != nil {
		return nil, fmt.Errorf("unmarshal generated questions: %w", err)
	}

	questions := make([]domain.Question, 0, len(generated))
	for _, g := range generated {
		q := domain.Question{
			ID:       "ai-" + randomID(),
			Grade:    filters.Grade,
			Subject:  filters.Subject,
			Chapter:  filters.Chapter,
			Type:     normalizeType(g.Type),
			Question: strings.TrimSpace(g.Question),
			Answer:   strings.TrimSpace(g.Answer),
			Keywords: g.Keywords,
			Source:   "ai",
		}
		if q.Type == domain.TypeMCQ {
			q.Options = g.Options
			q.CorrectOption = g.CorrectOption
		}
		if err := q.Validate(); err != nil {
			continue
		}
		questions = append(questions, q)
		if len(questions) == count {
			break
		}
	}
	if len(questions) == 0 {
		return nil, errors.New("ai response contained no usable questions")
	}
	return questions, nil
}

func normalizeType(raw string) domain.QuestionType {
	switch domain.QuestionType(strings.ToLower(strings.TrimSpace(raw))) {
	case domain.TypeLong, domain.TypeShort, domain.TypeMCQ, domain.TypeNumerical:
		return domain.QuestionType(strings.ToLower(strings.TrimSpace(raw)))
	default:
		return domain.TypeShort
	}
}

func randomID() string {
	buf := make([]byte, 6)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
