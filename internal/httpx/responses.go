package httpx

import (
	"encoding/json"
	"net/http"
)

type ErrorResponse struct {
	Error ErrorResponseBody `json:"error"`
	Meta  interface{}       `json:"meta,omitempty"`
}

type ErrorResponseBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// JSONDocument writes a document with its own media type, e.g. an OPDS
// catalog. The payload is the response body as-is, no envelope.
func JSONDocument(w http.ResponseWriter, contentType string, payload interface{}) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(payload)
}

func JSONError(w http.ResponseWriter, statusCode int, code string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error: ErrorResponseBody{
			Code:    code,
			Message: message,
		},
	})
}

func JSONErrorWithRequest(r *http.Request, w http.ResponseWriter, statusCode int, code string, message string) {
	var meta interface{}
	if requestID := RequestIDFrom(r); requestID != "" {
		meta = map[string]interface{}{"request_id": requestID}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error: ErrorResponseBody{
			Code:    code,
			Message: message,
		},
		Meta: meta,
	})
}
