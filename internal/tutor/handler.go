package tutor

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

const maxBodyBytes = 64 << 10

// NewHandler serves POST /ask backed by a.
func NewHandler(a Answerer, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ask", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "Method Not Allowed"})
			return
		}

		var req Request
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Details: err.Error()})
			return
		}
		question, algorithm, err := req.Normalize()
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Missing question or algorithm"})
			return
		}

		answer, err := a.Answer(r.Context(), algorithm, question)
		switch {
		case errors.Is(err, ErrNotConfigured):
			logger.Warn("tutor answerer not configured")
			writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: "Server configuration error"})
		case err != nil:
			logger.Error("tutor answer failed", "algorithm", algorithm, "err", err)
			writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: "Failed to process request", Details: err.Error()})
		default:
			writeJSON(w, http.StatusOK, Response{Answer: answer})
		}
	})
	return requestLogging(logger)(mux)
}

// NewServer wraps h with the timeouts used by `algoviz serve`.
func NewServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
