package middleware

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// responseRecorder turns non-JSON error bodies into ErrorResponse
type responseRecorder struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
	rewrite     bool
	body        strings.Builder
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	if r.wroteHeader {
		return
	}
	r.wroteHeader = true
	r.statusCode = statusCode
	if statusCode >= 400 && !strings.HasPrefix(r.Header().Get("Content-Type"), "application/json") {
		r.rewrite = true
		r.Header().Set("Content-Type", "application/json")
		r.Header().Del("Content-Length")
	}
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	if r.rewrite {
		r.body.Write(b)
		return len(b), nil
	}
	return r.ResponseWriter.Write(b)
}

// ErrorHandler is a middleware that logs panics and returns JSON error responses
func ErrorHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		defer func() {
			if err := recover(); err != nil {
				log.Printf("Error: %v", err)
				if !rec.wroteHeader {
					rec.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(ErrorResponse{Error: "Internal Server Error"})
				}
				return
			}
			if rec.rewrite {
				json.NewEncoder(w).Encode(ErrorResponse{Error: strings.TrimSpace(rec.body.String())})
			}
		}()

		next.ServeHTTP(rec, r)
	})
}
