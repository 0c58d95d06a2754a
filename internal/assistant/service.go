package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/solmak-erp/solmak-erp/internal/platform/httpx"
	"github.com/solmak-erp/solmak-erp/internal/shared"
	"github.com/solmak-erp/solmak-erp/internal/tenants"
)

// FallbackReply is returned when the upstream model cannot be reached.
const FallbackReply = "The assistant is unavailable right now. Please try again in a moment."

const systemInstruction = "You are SolMak ERP's support assistant. Answer questions about " +
	"using the application: navigation, modules, and day-to-day workflows. " +
	"Keep answers short and practical. You cannot read or change business data."

// Generator produces a reply for a user message. Implementations talk
// to an external model; they never touch application state.
type Generator interface {
	Generate(ctx context.Context, system, userMessage string) (string, error)
}

// HTTPGenerator calls a generative-text endpoint over HTTP.
type HTTPGenerator struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPGenerator(baseURL, apiKey string, timeout time.Duration) *HTTPGenerator {
	return &HTTPGenerator{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type generateRequest struct {
	SystemInstruction string `json:"systemInstruction"`
	Message           string `json:"message"`
}

type generateResponse struct {
	Text string `json:"text"`
}

func (g *HTTPGenerator) Generate(ctx context.Context, system, userMessage string) (string, error) {
	body, err := json.Marshal(generateRequest{SystemInstruction: system, Message: userMessage})
	if err != nil {
		return "", fmt.Errorf("assistant request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("assistant request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("assistant request: %w", httpx.ErrUnavailable)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("assistant status %d: %w", resp.StatusCode, httpx.ErrUnavailable)
	}
	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("assistant response: %w", httpx.ErrUnavailable)
	}
	return out.Text, nil
}

// Reply is one assistant exchange.
type Reply struct {
	Text     string `json:"text"`
	Fallback bool   `json:"fallback"`
}

// Service answers support questions. It holds no references to other
// modules and cannot mutate business data.
type Service struct {
	generator Generator
	logger    *slog.Logger
}

func NewService(generator Generator, logger *slog.Logger) *Service {
	return &Service{generator: generator, logger: logger}
}

// Ask sends the user's message to the model. Upstream failures degrade
// to the canned fallback rather than an error page.
func (s *Service) Ask(ctx context.Context, actor shared.Actor, userMessage string) (Reply, error) {
	if !actor.HasModule(string(tenants.ModuleSupportAI)) {
		return Reply{}, fmt.Errorf("assistant ask: %w", httpx.ErrForbidden)
	}
	text, err := s.generator.Generate(ctx, systemInstruction, userMessage)
	if err != nil {
		s.logger.WarnContext(ctx, "assistant generate failed", "error", err)
		return Reply{Text: FallbackReply, Fallback: true}, nil
	}
	return Reply{Text: text}, nil
}
