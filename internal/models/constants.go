// Package models contains data types and constants for the Generative Language API.
package models

// Endpoints for the Generative Language API
const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	APIVersion     = "v1beta"
)

// FallbackText is the assistant reply recorded when a request cycle fails for any reason
const FallbackText = "Failed to generate answer."

// Provider selects which completion backend serves requests
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
	ProviderMock   Provider = "mock"
)

// Model represents an available model
type Model struct {
	Name     string
	Provider Provider
}

// Available models
var (
	ModelFlashLatest = Model{Name: "gemini-1.5-flash-latest", Provider: ProviderGemini}
	Model15Pro       = Model{Name: "gemini-1.5-pro-latest", Provider: ProviderGemini}
	Model20Flash     = Model{Name: "gemini-2.0-flash", Provider: ProviderGemini}
	Model25Flash     = Model{Name: "gemini-2.5-flash", Provider: ProviderGemini}

	// DefaultModel matches the endpoint the web client was built against
	DefaultModel = ModelFlashLatest
)

// AllModels returns a list of all known Gemini models
func AllModels() []Model {
	return []Model{ModelFlashLatest, Model15Pro, Model20Flash, Model25Flash}
}

// ModelFromName returns a Model by its name. Unknown names are passed through
// unchanged so newer models work without a release.
func ModelFromName(name string) Model {
	switch name {
	case "", "flash", "fast":
		return DefaultModel
	case "pro":
		return Model15Pro
	}
	for _, m := range AllModels() {
		if m.Name == name {
			return m
		}
	}
	return Model{Name: name, Provider: ProviderGemini}
}

// GenerateEndpoint returns the generateContent URL for a model, without the key parameter
func GenerateEndpoint(baseURL, model string) string {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	for len(baseURL) > 0 && baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL[:len(baseURL)-1]
	}
	return baseURL + "/" + APIVersion + "/models/" + model + ":generateContent"
}

// DefaultHeaders returns the default headers for generateContent requests
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
		"User-Agent":   "chatbot-cli",
	}
}
