package ai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateConfig(t *testing.T) {
	schema := json.RawMessage(`{"type":"object","properties":{"type":{"type":"string"}}}`)

	cfg := generateConfig(Request{System: "sys", Prompt: "p", Schema: schema, Temperature: 0.2})

	require.NotNil(t, cfg.Temperature)
	assert.InDelta(t, 0.2, *cfg.Temperature, 1e-6)
	require.NotNil(t, cfg.SystemInstruction)
	assert.Equal(t, "sys", cfg.SystemInstruction.Parts[0].Text)
	assert.Equal(t, "application/json", cfg.ResponseMIMEType)
	assert.Equal(t, schema, cfg.ResponseJsonSchema)
}

func TestGenerateConfig_PlainText(t *testing.T) {
	cfg := generateConfig(Request{Prompt: "p"})

	assert.Nil(t, cfg.SystemInstruction)
	assert.Empty(t, cfg.ResponseMIMEType)
	assert.Nil(t, cfg.ResponseJsonSchema)
}
