package cli

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/rileyhilliard/evmon/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorToJSON(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"config not found", errors.New(errors.ErrConfig, "Config file not found", ""), ErrCodeConfigNotFound},
		{"no server url", errors.New(errors.ErrConfig, "No server URL configured", ""), ErrCodeConfigNotFound},
		{"config invalid", errors.New(errors.ErrConfig, "Config is invalid", ""), ErrCodeConfigInvalid},
		{"gateway", errors.New(errors.ErrGateway, "status 500", ""), ErrCodeGatewayFailed},
		{"route", errors.New(errors.ErrRoute, "bad route", ""), ErrCodeRouteInvalid},
		{"table", errors.New(errors.ErrTable, "bad table", ""), ErrCodeTableInvalid},
		{"plain", stderrors.New("boom"), ErrCodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, ErrorToJSON(tt.err).Code)
		})
	}

	assert.Nil(t, ErrorToJSON(nil))
}

func TestWriteJSONEnvelopes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSONSuccess(&buf, []string{"a"}))

	var env map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.Equal(t, true, env["success"])
	assert.Equal(t, []interface{}{"a"}, env["data"])

	buf.Reset()
	require.NoError(t, WriteJSONFromError(&buf, errors.New(errors.ErrGateway, "down", "retry later")))
	env = nil
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.Equal(t, false, env["success"])
	errObj := env["error"].(map[string]interface{})
	assert.Equal(t, ErrCodeGatewayFailed, errObj["code"])
	assert.Equal(t, "retry later", errObj["suggestion"])
}
