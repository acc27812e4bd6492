package llm

import (
	"context"
	"fmt"
)

// Completer es la frontera con el backend de texto: un prompt entra,
// texto libre sale. Las dos implementaciones (Anthropic / OpenAI) viven
// en este paquete; el resto del bot solo ve esta interfaz.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error)
}

type Config struct {
	Backend string // "anthropic" | "openai"
	APIKey  string
	Model   string // vacío = default del backend
	BaseURL string // vacío = endpoint oficial (para proxies/gateways)
}

// New arma el Completer según config. Backend desconocido es error de
// config, no recuperable.
func New(cfg Config) (Completer, error) {
	switch cfg.Backend {
	case "anthropic":
		return newAnthropic(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
	case "openai":
		return newOpenAI(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
	default:
		return nil, fmt.Errorf("llm: backend desconocido %q", cfg.Backend)
	}
}
