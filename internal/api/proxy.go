package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"youtube-qa-api/internal/transcript"
	"youtube-qa-api/internal/useragent"
)

const proxyCheckTimeout = 15 * time.Second

// ProxyCheckResponse is the body of GET /test_proxy.
type ProxyCheckResponse struct {
	Success    bool        `json:"success"`
	Proxy      string      `json:"proxy,omitempty"`
	StatusCode int         `json:"status_code,omitempty"`
	Response   interface{} `json:"response,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// HandleTestProxy sends one request through a randomly picked proxy and
// reports what came back.
func (h *Handler) HandleTestProxy(w http.ResponseWriter, r *http.Request) {
	proxy, err := h.proxies.Pick()
	if errors.Is(err, transcript.ErrNoProxies) {
		respondWithJSON(w, http.StatusServiceUnavailable, ProxyCheckResponse{
			Success: false,
			Error:   "No proxies configured (set PROXY_POOL)",
		})
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, h.cfg.ProxyTestURL, nil)
	if err != nil {
		respondWithJSON(w, http.StatusInternalServerError, ProxyCheckResponse{
			Success: false,
			Proxy:   proxy.String(),
			Error:   fmt.Sprintf("invalid PROXY_TEST_URL: %v", err),
		})
		return
	}
	req.Header.Set("User-Agent", useragent.Random())

	resp, err := transcript.NewHTTPClient(&proxy, proxyCheckTimeout).Do(req)
	if err != nil {
		slog.Warn("Proxy check failed", "proxy", proxy.String(), "error", err)
		respondWithJSON(w, http.StatusBadGateway, ProxyCheckResponse{
			Success: false,
			Proxy:   proxy.String(),
			Error:   err.Error(),
		})
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		respondWithJSON(w, http.StatusBadGateway, ProxyCheckResponse{
			Success: false,
			Proxy:   proxy.String(),
			Error:   fmt.Sprintf("reading response: %v", err),
		})
		return
	}

	var parsed interface{}
	if err := json.Unmarshal(body, &parsed); err != nil {
		parsed = string(body)
	}

	respondWithJSON(w, http.StatusOK, ProxyCheckResponse{
		Success:    resp.StatusCode < http.StatusBadRequest,
		Proxy:      proxy.String(),
		StatusCode: resp.StatusCode,
		Response:   parsed,
	})
}
