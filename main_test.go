package main

import (
	"testing"

	chatapi "chatbot/chat-api"
	"chatbot/config"
	selfdriving "chatbot/self-driving"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGenerator(t *testing.T) {
	g, err := newGenerator(config.GeneratorConfig{Provider: config.ProviderGemini, APIKey: "k", Model: "gemini-2.5-flash"})
	require.NoError(t, err)
	assert.IsType(t, &chatapi.Client{}, g)
	assert.Equal(t, config.ProviderGemini, g.Name())

	g, err = newGenerator(config.GeneratorConfig{Provider: config.ProviderOpenAI, APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, config.ProviderOpenAI, g.Name())

	g, err = newGenerator(config.GeneratorConfig{Provider: config.ProviderHTTP, URL: "http://localhost:8000"})
	require.NoError(t, err)
	assert.IsType(t, &selfdriving.Client{}, g)

	_, err = newGenerator(config.GeneratorConfig{Provider: "unknown"})
	assert.Error(t, err)
}
