package config

import "os"

// LLMModels defines which models to use for different tasks
type LLMModels struct {
	// Generator produces SAQs and MCQs from keyword clusters
	Generator string `json:"generator"`

	// Evaluator grades submitted short answers (deterministic, temperature 0)
	Evaluator string `json:"evaluator"`
}

// AIConfig holds configuration for the chat-completion LLM service
type AIConfig struct {
	APIKey     string    `json:"-"` // Never serialize
	BaseURL    string    `json:"baseUrl"`
	Models     LLMModels `json:"models"`
	TimeoutMS  int       `json:"timeoutMs"`
	MaxRetries int       `json:"maxRetries"`
}

// DefaultAIConfig returns the default LLM configuration
func DefaultAIConfig() *AIConfig {
	return &AIConfig{
		APIKey:  os.Getenv("GROQ_API_KEY"),
		BaseURL: getEnvOrDefault("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		Models: LLMModels{
			Generator: getEnvOrDefault("LLM_MODEL_GENERATOR", "llama-3.1-8b-instant"),
			Evaluator: getEnvOrDefault("LLM_MODEL_EVALUATOR", "llama-3.1-8b-instant"),
		},
		TimeoutMS:  60000,
		MaxRetries: 3,
	}
}

// IsEnabled returns true if the LLM API is configured
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// EmbeddingConfig holds configuration for the embedding service. Any
// OpenAI-compatible /embeddings endpoint works; the default assumes a local
// text-embeddings server with a MiniLM-class model.
type EmbeddingConfig struct {
	APIKey    string `json:"-"`
	BaseURL   string `json:"baseUrl"`
	Model     string `json:"model"`
	TimeoutMS int    `json:"timeoutMs"`
}

// DefaultEmbeddingConfig returns the default embedding configuration
func DefaultEmbeddingConfig() *EmbeddingConfig {
	return &EmbeddingConfig{
		APIKey:    os.Getenv("EMBEDDINGS_API_KEY"),
		BaseURL:   getEnvOrDefault("EMBEDDINGS_BASE_URL", "http://localhost:8081/v1"),
		Model:     getEnvOrDefault("EMBEDDINGS_MODEL", "all-MiniLM-L6-v2"),
		TimeoutMS: 30000,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
