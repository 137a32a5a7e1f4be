package cli

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"strings"

	"github.com/rileyhilliard/evmon/internal/errors"
)

// JSONEnvelope is the shape of every --json response.
type JSONEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *JSONError  `json:"error,omitempty"`
}

// JSONError is the machine-readable form of a failed command.
type JSONError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Error codes for machine-readable output.
const (
	ErrCodeConfigNotFound = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "CONFIG_INVALID"
	ErrCodeGatewayFailed  = "GATEWAY_FAILED"
	ErrCodeRouteInvalid   = "ROUTE_INVALID"
	ErrCodeTableInvalid   = "TABLE_INVALID"
	ErrCodeUnknown        = "UNKNOWN"
)

var jsonCodes = map[errors.Code]string{
	errors.ErrConfig:  ErrCodeConfigInvalid,
	errors.ErrGateway: ErrCodeGatewayFailed,
	errors.ErrRoute:   ErrCodeRouteInvalid,
	errors.ErrTable:   ErrCodeTableInvalid,
}

// WriteJSONSuccess writes {"success": true, "data": data}.
func WriteJSONSuccess(w io.Writer, data interface{}) error {
	return writeJSONEnvelope(w, JSONEnvelope{Success: true, Data: data})
}

// WriteJSONFromError writes {"success": false, "error": ...} for err.
func WriteJSONFromError(w io.Writer, err error) error {
	return writeJSONEnvelope(w, JSONEnvelope{Error: ErrorToJSON(err)})
}

func writeJSONEnvelope(w io.Writer, env JSONEnvelope) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

// ErrorToJSON converts err to a JSONError. Structured errors keep their
// message and suggestion; anything else is UNKNOWN.
func ErrorToJSON(err error) *JSONError {
	if err == nil {
		return nil
	}

	var evErr *errors.Error
	if !stderrors.As(err, &evErr) {
		return &JSONError{Code: ErrCodeUnknown, Message: err.Error()}
	}
	return &JSONError{
		Code:       mapErrorCode(evErr.Code, evErr.Message),
		Message:    evErr.Message,
		Suggestion: errors.SuggestionOf(evErr),
	}
}

// mapErrorCode picks the JSON code. Missing config is split out from
// invalid config because scripts usually react to it differently.
func mapErrorCode(code errors.Code, message string) string {
	if code == errors.ErrConfig {
		msg := strings.ToLower(message)
		if strings.Contains(msg, "not found") || strings.Contains(msg, "no server url") {
			return ErrCodeConfigNotFound
		}
	}
	if c, ok := jsonCodes[code]; ok {
		return c
	}
	return ErrCodeUnknown
}
