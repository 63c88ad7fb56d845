package openrouter

import (
	"strings"

	"github.com/forPelevin/hookcut/internal/ports/adapters/llmmix"
)

const defaultBaseURL = "https://openrouter.ai"

var defaultAllowedHosts = []string{"openrouter.ai", "api.openrouter.ai"}

func normalizeBaseURL(baseURL string) string {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return strings.TrimRight(baseURL, "/")
}

// ValidateBaseURL checks an OpenRouter base URL against allowedHosts, or the
// public OpenRouter hosts when none are configured.
func ValidateBaseURL(baseURL string, allowedHosts []string) error {
	return llmmix.ValidateBaseURL(normalizeBaseURL(baseURL), allowedHosts, defaultAllowedHosts)
}
