// Package api provides HTTP handlers for the YouTube question generation API.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"

	"youtube-qa-api/internal/config"
	"youtube-qa-api/internal/logger"
	"youtube-qa-api/internal/qa"
	"youtube-qa-api/internal/transcript"
	"youtube-qa-api/internal/youtube"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Request limits.
const (
	DefaultQuestionCount = 10
	MinQuestionCount     = 1
	MaxQuestionCount     = 50
	// MinTranscriptLength is the shortest transcript, in characters, worth
	// generating questions from.
	MinTranscriptLength = 100

	previewLength   = 200
	maxRequestBytes = 1 << 20
)

const fetchSuggestion = "This video might not have captions available, or YouTube is blocking the request. Try a different video with captions enabled."

// Error codes returned with generation failures.
const (
	CodeOpenAIError   = "openai_error"
	CodeInvalidJSON   = "invalid_json"
	CodeInvalidFormat = "invalid_format"
	CodeEmptyResult   = "empty_result"
)

// TranscriptSource fetches the transcript of a video.
type TranscriptSource interface {
	Fetch(ctx context.Context, videoID string) (transcript.Set, error)
}

// MetadataSource looks up video details.
type MetadataSource interface {
	Lookup(ctx context.Context, videoID string) (*youtube.VideoMetadata, error)
}

// GenerateRequest is the body of POST /generate_qa.
type GenerateRequest struct {
	URL   string         `json:"url"`
	Count *QuestionCount `json:"count,omitempty"`
}

// QuestionCount accepts a JSON number or a numeric string. Fractional numbers
// are truncated toward zero.
type QuestionCount int

// UnmarshalJSON implements json.Unmarshaler.
func (c *QuestionCount) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case float64:
		// out-of-range values still fail the bounds check
		v = math.Max(math.Min(v, math.MaxInt32), math.MinInt32)
		*c = QuestionCount(int(v))
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("count %q is not an integer", v)
		}
		*c = QuestionCount(n)
	default:
		return fmt.Errorf("count must be a number, got %s", data)
	}
	return nil
}

// GenerateResponse is the success body of POST /generate_qa.
type GenerateResponse struct {
	// Result is the cleaned JSON array text returned by the model.
	Result           string `json:"result"`
	Count            int    `json:"count"`
	VideoID          string `json:"video_id"`
	TranscriptLength int    `json:"transcript_length"`
	Title            string `json:"title,omitempty"`
	Channel          string `json:"channel,omitempty"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error      string `json:"error"`
	Code       string `json:"code,omitempty"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status             string `json:"status"`
	OpenAIConfigured   bool   `json:"openai_configured"`
	Environment        string `json:"environment"`
	TranscriptStrategy string `json:"transcript_strategy"`
	ProxyPoolSize      int    `json:"proxy_pool_size"`
	Timestamp          string `json:"timestamp"`
}

// TranscriptCheckResponse is the body of GET /test_transcript/{video_id}.
type TranscriptCheckResponse struct {
	Success          bool   `json:"success"`
	VideoID          string `json:"video_id"`
	TranscriptLength int    `json:"transcript_length,omitempty"`
	Preview          string `json:"preview,omitempty"`
	Title            string `json:"title,omitempty"`
	Error            string `json:"error,omitempty"`
}

// Handler serves the QA API.
type Handler struct {
	cfg         *config.AppConfig
	transcripts TranscriptSource
	generator   qa.Generator
	metadata    MetadataSource
	proxies     *transcript.ProxyPool
}

// Option configures optional Handler dependencies.
type Option func(*Handler)

// WithMetadata enables title and channel enrichment.
func WithMetadata(m MetadataSource) Option {
	return func(h *Handler) { h.metadata = m }
}

// WithProxyPool exposes the pool to /health and /test_proxy.
func WithProxyPool(p *transcript.ProxyPool) Option {
	return func(h *Handler) { h.proxies = p }
}

// NewHandler creates a Handler. generator may be nil when no model API is
// configured; generation requests then fail with openai_error.
func NewHandler(cfg *config.AppConfig, transcripts TranscriptSource, generator qa.Generator, opts ...Option) *Handler {
	h := &Handler{cfg: cfg, transcripts: transcripts, generator: generator}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes returns the router with CORS and panic recovery applied.
func (h *Handler) Routes() http.Handler {
	r := mux.NewRouter()
	r.Use(recoverMiddleware)

	r.HandleFunc("/generate_qa", h.HandleGenerateQA).Methods(http.MethodPost)
	r.HandleFunc("/health", h.HandleHealth).Methods(http.MethodGet)
	r.HandleFunc("/test_transcript/{video_id}", h.HandleTestTranscript).Methods(http.MethodGet)
	r.HandleFunc("/test_proxy", h.HandleTestProxy).Methods(http.MethodGet)

	return handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(r)
}

// HandleGenerateQA fetches the transcript of the requested video and asks the
// model for question/answer pairs.
func (h *Handler) HandleGenerateQA(w http.ResponseWriter, r *http.Request) {
	req, msg := decodeGenerateRequest(r)
	if msg != "" {
		respondWithError(w, http.StatusBadRequest, ErrorResponse{Error: msg})
		return
	}

	count := DefaultQuestionCount
	if req.Count != nil {
		count = int(*req.Count)
	}
	if count < MinQuestionCount || count > MaxQuestionCount {
		respondWithError(w, http.StatusBadRequest, ErrorResponse{
			Error: fmt.Sprintf("Question count must be between %d and %d", MinQuestionCount, MaxQuestionCount),
		})
		return
	}

	videoID := youtube.ExtractVideoID(req.URL)
	if videoID == "" {
		respondWithError(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid YouTube URL format"})
		return
	}

	ctx := r.Context()
	slog.Info("Handling generate request", "video_id", videoID, "count", count)

	set, err := h.transcripts.Fetch(ctx, videoID)
	if err != nil {
		logger.LogError("Transcript fetch failed", "video_id", videoID, "error", err)
		respondWithError(w, http.StatusInternalServerError, ErrorResponse{
			Error:      fmt.Sprintf("Could not fetch transcript: %v", err),
			Suggestion: fetchSuggestion,
		})
		return
	}

	fullText := set.Text()
	if utf8.RuneCountInString(strings.TrimSpace(fullText)) < MinTranscriptLength {
		respondWithError(w, http.StatusBadRequest, ErrorResponse{Error: "Transcript too short to generate meaningful questions"})
		return
	}

	chunks := qa.Chunk(fullText, h.cfg.ChunkSize)
	slog.Info("Transcript chunked", "video_id", videoID, "chunks", len(chunks), "processing_length", len(chunks[0]))

	if h.generator == nil {
		respondWithError(w, http.StatusInternalServerError, ErrorResponse{
			Error: "OpenAI API error: OPENAI_API_KEY is not configured",
			Code:  CodeOpenAIError,
		})
		return
	}

	result, err := qa.GenerateQA(ctx, h.generator, count, chunks[0])
	if err != nil {
		logger.LogError("Question generation failed", "video_id", videoID, "error", err)
		respondWithError(w, http.StatusInternalServerError, generationError(err))
		return
	}

	resp := GenerateResponse{
		Result:           result.JSON,
		Count:            len(result.Pairs),
		VideoID:          videoID,
		TranscriptLength: utf8.RuneCountInString(fullText),
	}
	if meta := h.lookupMetadata(ctx, videoID); meta != nil {
		resp.Title = meta.Title
		resp.Channel = meta.ChannelTitle
	}

	slog.Info("Generated QA pairs", "video_id", videoID, "count", resp.Count)
	respondWithJSON(w, http.StatusOK, resp)
}

// HandleHealth reports configuration status.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, HealthResponse{
		Status:             "Server is running",
		OpenAIConfigured:   h.cfg.HasOpenAIConfig(),
		Environment:        h.cfg.Environment(),
		TranscriptStrategy: h.cfg.TranscriptStrategy,
		ProxyPoolSize:      h.proxies.Len(),
		Timestamp:          time.Now().Format(time.RFC3339),
	})
}

// HandleTestTranscript fetches a transcript without generating questions.
func (h *Handler) HandleTestTranscript(w http.ResponseWriter, r *http.Request) {
	videoID := mux.Vars(r)["video_id"]

	set, err := h.transcripts.Fetch(r.Context(), videoID)
	if err != nil {
		var fetchErr *transcript.FetchError
		if errors.As(err, &fetchErr) {
			logger.LogError("Transcript test failed", "video_id", videoID, "failures", len(fetchErr.Causes), "causes", fetchErr.Summary())
		} else {
			logger.LogError("Transcript test failed", "video_id", videoID, "error", err)
		}
		respondWithJSON(w, http.StatusInternalServerError, TranscriptCheckResponse{
			Success: false,
			VideoID: videoID,
			Error:   err.Error(),
		})
		return
	}

	fullText := set.Text()
	resp := TranscriptCheckResponse{
		Success:          true,
		VideoID:          videoID,
		TranscriptLength: utf8.RuneCountInString(fullText),
		Preview:          preview(fullText, previewLength),
	}
	if meta := h.lookupMetadata(r.Context(), videoID); meta != nil {
		resp.Title = meta.Title
	}
	respondWithJSON(w, http.StatusOK, resp)
}

func (h *Handler) lookupMetadata(ctx context.Context, videoID string) *youtube.VideoMetadata {
	if h.metadata == nil {
		return nil
	}
	meta, err := h.metadata.Lookup(ctx, videoID)
	if err != nil {
		slog.Warn("Video metadata lookup failed", "video_id", videoID, "error", err)
		return nil
	}
	return meta
}

func decodeGenerateRequest(r *http.Request) (GenerateRequest, string) {
	var req GenerateRequest

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		return req, fmt.Sprintf("Invalid request payload: %v", err)
	}
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" || trimmed == "null" || trimmed == "{}" {
		return req, "No data provided"
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return req, fmt.Sprintf("Invalid request payload: %v", err)
	}
	if strings.TrimSpace(req.URL) == "" {
		return req, "YouTube URL is required"
	}
	return req, ""
}

func generationError(err error) ErrorResponse {
	switch {
	case errors.Is(err, qa.ErrInvalidJSON):
		return ErrorResponse{Error: qa.ErrInvalidJSON.Error(), Code: CodeInvalidJSON, Details: err.Error()}
	case errors.Is(err, qa.ErrNotList):
		return ErrorResponse{Error: qa.ErrNotList.Error(), Code: CodeInvalidFormat}
	case errors.Is(err, qa.ErrEmptyResult):
		return ErrorResponse{Error: "No questions generated", Code: CodeEmptyResult}
	default:
		var genErr *qa.GenerationError
		if errors.As(err, &genErr) {
			return ErrorResponse{Error: genErr.Error(), Code: CodeOpenAIError}
		}
		return ErrorResponse{Error: fmt.Sprintf("OpenAI API error: %v", err), Code: CodeOpenAIError}
	}
}

func preview(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	return string(runes[:n]) + "..."
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

func respondWithError(w http.ResponseWriter, code int, payload ErrorResponse) {
	respondWithJSON(w, code, payload)
}
