package driven

import "github.com/journai/journai-core/internal/core/domain"

// AIConfigValidator validates remote service configurations.
// Implementations verify a configuration by testing connectivity.
type AIConfigValidator interface {
	// ValidateEmbedding pings the configured embedding provider.
	ValidateEmbedding(config *domain.ServiceSettings) error

	// ValidateLLM pings the configured chat provider.
	ValidateLLM(config *domain.ServiceSettings) error
}
