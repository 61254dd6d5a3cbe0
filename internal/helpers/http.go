package helpers

import (
	"encoding/json"
	"maps"
	"net/http"

	"github.com/isometry/litium-webhooks/internal/models"
)

type httpResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// RenderResponse resolves the status, headers and body sent for response. A response carrying its own
// Content-Type is sent verbatim; anything else is wrapped in the JSON message envelope together with err.
func RenderResponse(response models.Response, err error) (int, map[string]string, string) {
	statusCode := response.StatusCode
	if statusCode == 0 {
		statusCode = http.StatusOK
	}
	headers := make(map[string]string, len(response.Headers)+1)
	maps.Copy(headers, response.Headers)

	if toHeader(headers).Get("Content-Type") != "" && err == nil {
		return statusCode, headers, response.Body
	}

	hR := httpResponse{
		Message: response.Body,
	}
	if err != nil {
		hR.Error = err.Error()
	}
	respBody, _ := json.Marshal(hR)
	for k := range headers {
		if http.CanonicalHeaderKey(k) == "Content-Type" {
			delete(headers, k)
		}
	}
	headers["Content-Type"] = "application/json"
	return statusCode, headers, string(respBody)
}

// RespondHTTP writes response to rw. See RenderResponse.
func RespondHTTP(response models.Response, err error, rw http.ResponseWriter) {
	statusCode, headers, body := RenderResponse(response, err)
	for k, v := range headers {
		rw.Header().Set(k, v)
	}
	rw.WriteHeader(statusCode)
	_, _ = rw.Write([]byte(body))
}

func toHeader(headers map[string]string) http.Header {
	h := make(http.Header, len(headers))
	for k, v := range headers {
		h.Set(k, v)
	}
	return h
}
