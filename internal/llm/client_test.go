package llm

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeminiClient_RequiresAPIKey(t *testing.T) {
	client, err := NewGeminiClient(context.Background(), DefaultConfig(), "")
	assert.Nil(t, client)
	assert.EqualError(t, err, "API key is required")
}

func TestNewClient_UnsupportedProvider(t *testing.T) {
	_, err := NewClient(context.Background(), &Config{Provider: "openai"}, "key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported LLM provider")
}

func TestConfigureModel(t *testing.T) {
	model := &genai.GenerativeModel{}
	configureModel(model, DefaultConfig(), "You are a copywriter.")

	require.NotNil(t, model.Temperature)
	require.NotNil(t, model.TopP)
	require.NotNil(t, model.MaxOutputTokens)
	assert.Equal(t, float32(0.7), *model.Temperature)
	assert.Equal(t, float32(0.9), *model.TopP)
	assert.Equal(t, int32(500), *model.MaxOutputTokens)

	require.NotNil(t, model.SystemInstruction)
	assert.Equal(t, []genai.Part{genai.Text("You are a copywriter.")}, model.SystemInstruction.Parts)
}

func TestConfigureModel_NoSystemInstruction(t *testing.T) {
	model := &genai.GenerativeModel{}
	configureModel(model, DefaultConfig(), "")
	assert.Nil(t, model.SystemInstruction)
}

func response(parts ...genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: parts}}},
	}
}

func TestExtractTextFromResponse(t *testing.T) {
	text, err := extractTextFromResponse(response(genai.Text("A lovely "), genai.Text("home.")))
	require.NoError(t, err)
	assert.Equal(t, "A lovely home.", text)
}

func TestExtractTextFromResponse_Empty(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
	}{
		{name: "nil response", resp: nil},
		{name: "no candidates", resp: &genai.GenerateContentResponse{}},
		{name: "nil content", resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}},
		{name: "no parts", resp: response()},
		{name: "blank text", resp: response(genai.Text("  \n "))},
		{name: "non-text part", resp: response(genai.Blob{MIMEType: "image/png"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := extractTextFromResponse(tt.resp)
			assert.ErrorIs(t, err, ErrEmptyResponse)
		})
	}
}
