package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	DatabaseURL  string
	DiscordToken string
	DiscordGuild string

	// LLM
	LLMBackend      string // "anthropic" (default) | "openai"
	AnthropicAPIKey string
	OpenAIAPIKey    string
	LLMModel        string // vacío = default del backend
	LLMBaseURL      string // para proxies/gateways; vacío = endpoint oficial
	LLMMaxTokens    int
	LLMTemperature  float64

	// Canales / usuarios objetivo de las tareas programadas
	TipsChannelIDs []string
	CheckinUserIDs []string
	GamesChannelID string

	AdminRoleIDs []string

	// Juegos
	InviteTimeoutSeconds int // expiración de invitaciones
	GraceAfterMinSeconds int // 0 = arranque apenas se llega al mínimo
}

func Load() Config {
	get := func(k string, req bool) string {
		v := os.Getenv(k)
		if v == "" && req {
			log.Fatalf("faltante env %s", k)
		}
		return v
	}
	getInt := func(k string, def int) int {
		v := os.Getenv(k)
		if v == "" {
			return def
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("env %s inválida: %v", k, err)
		}
		return n
	}
	getFloat := func(k string, def float64) float64 {
		v := os.Getenv(k)
		if v == "" {
			return def
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			log.Fatalf("env %s inválida: %v", k, err)
		}
		return f
	}
	getList := func(k string) []string {
		v := os.Getenv(k)
		if v == "" {
			return nil
		}
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}

	cfg := Config{
		DatabaseURL:  get("DATABASE_URL", true),
		DiscordToken: get("DISCORD_BOT_TOKEN", true),
		DiscordGuild: get("DISCORD_GUILD_ID", true),

		LLMBackend:      get("LLM_BACKEND", false),
		AnthropicAPIKey: get("ANTHROPIC_API_KEY", false),
		OpenAIAPIKey:    get("OPENAI_API_KEY", false),
		LLMModel:        get("LLM_MODEL", false),
		LLMBaseURL:      get("LLM_BASE_URL", false),
		LLMMaxTokens:    getInt("LLM_MAX_TOKENS", 1000),
		LLMTemperature:  getFloat("LLM_TEMPERATURE", 0.7),

		TipsChannelIDs: getList("TIPS_CHANNEL_IDS"),
		CheckinUserIDs: getList("CHECKIN_USER_IDS"),
		GamesChannelID: get("GAMES_CHANNEL_ID", false),
		AdminRoleIDs:   getList("ADMIN_ROLE_IDS"),

		InviteTimeoutSeconds: getInt("INVITE_TIMEOUT_SECONDS", 60),
		GraceAfterMinSeconds: getInt("GRACE_AFTER_MIN_SECONDS", 0),
	}

	if cfg.LLMBackend == "" {
		cfg.LLMBackend = "anthropic"
	}
	// fail-fast: la key del backend elegido es obligatoria
	switch cfg.LLMBackend {
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			log.Fatalf("faltante env ANTHROPIC_API_KEY (LLM_BACKEND=anthropic)")
		}
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			log.Fatalf("faltante env OPENAI_API_KEY (LLM_BACKEND=openai)")
		}
	default:
		log.Fatalf("LLM_BACKEND desconocido: %q", cfg.LLMBackend)
	}

	return cfg
}
