package transport

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/agentstation/mapnotes/pkg/errors"
)

// maxErrorBody caps how much of an error body is echoed back to the user.
const maxErrorBody = 512

// DecodeResponse classifies resp by status and decodes a 2xx JSON body into
// target. 4xx becomes a ValidationError, everything else a NetworkError.
func DecodeResponse(resp *http.Response, operation, endpoint string, target any) error {
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.NewNetworkError(operation, endpoint, err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if target == nil || len(strings.TrimSpace(string(body))) == 0 {
			return nil
		}
		if err := json.Unmarshal(body, target); err != nil {
			return errors.WrapParse("json", endpoint, err)
		}
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return &errors.ValidationError{
			StatusCode: resp.StatusCode,
			Message:    serverMessage(resp.StatusCode, body),
		}
	default:
		return &errors.NetworkError{
			Operation:  operation,
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    serverMessage(resp.StatusCode, body),
		}
	}
}

// serverMessage extracts {"error": "..."} bodies, falling back to the raw
// body and then the status text.
func serverMessage(status int, body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		return payload.Error
	}
	text := strings.TrimSpace(string(body))
	if text == "" {
		return http.StatusText(status)
	}
	if len(text) > maxErrorBody {
		text = text[:maxErrorBody] + "..."
	}
	return text
}
