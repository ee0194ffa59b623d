package ai

import (
	"github.com/journai/journai-core/internal/core/domain"
	"github.com/journai/journai-core/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator validates remote service configurations.
type ConfigValidator struct{}

// NewConfigValidator creates a new config validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateEmbedding validates an embedding configuration by pinging the provider.
func (v *ConfigValidator) ValidateEmbedding(config *domain.ServiceSettings) error {
	return ValidateEmbeddingConfig(config)
}

// ValidateLLM validates a chat configuration by pinging the provider.
func (v *ConfigValidator) ValidateLLM(config *domain.ServiceSettings) error {
	return ValidateLLMConfig(config)
}
