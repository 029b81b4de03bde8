package llm

import (
	"fmt"
	"sort"
	"strings"
)

// Registry stores providers and resolves a default one.
type Registry struct {
	providers       map[string]Provider
	defaultProvider string
}

func NewRegistry(defaultProvider string) *Registry {
	name := normalizeProviderName(defaultProvider)
	if name == "" {
		name = ProviderOpenRouter
	}
	return &Registry{
		providers:       make(map[string]Provider),
		defaultProvider: name,
	}
}

// Register adds one provider, replacing any provider with the same name.
func (r *Registry) Register(provider Provider) error {
	if r == nil {
		return fmt.Errorf("registry is nil")
	}
	if provider == nil {
		return fmt.Errorf("provider is nil")
	}
	name := normalizeProviderName(provider.Name())
	if name == "" {
		return fmt.Errorf("provider name is required")
	}
	r.providers[name] = provider
	return nil
}

// Provider resolves a provider by name. Empty names use the default provider.
func (r *Registry) Provider(name string) (Provider, error) {
	if r == nil {
		return nil, fmt.Errorf("registry is nil")
	}
	resolved := normalizeProviderName(name)
	if resolved == "" {
		resolved = r.defaultProvider
	}
	if resolved == ProviderNone {
		return nil, ErrNotConfigured
	}
	provider, ok := r.providers[resolved]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrProviderNotFound, resolved, strings.Join(r.Names(), ", "))
	}
	return provider, nil
}

func (r *Registry) DefaultProvider() string {
	if r == nil {
		return ""
	}
	return r.defaultProvider
}

func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewRegistryFromSettings registers the chat provider described by the
// settings. A "none" provider leaves the registry empty.
func NewRegistryFromSettings(provider, baseURL, apiKey, model string) *Registry {
	registry := NewRegistry(provider)
	if registry.defaultProvider == ProviderNone {
		return registry
	}
	_ = registry.Register(NewChatProvider(ChatOptions{
		Name:    registry.defaultProvider,
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
	}))
	return registry
}

func normalizeProviderName(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
