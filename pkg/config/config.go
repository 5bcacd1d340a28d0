package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Debug bool

	AiProvider      string // openai or anthropic
	OpenAiAPIKey    string
	OpenAiBaseURL   string
	AnthropicAPIKey string

	OutputDir     string
	LocationsFile string // empty means the embedded registry

	HTTPPort       int
	RequestTimeout int // seconds, applies to every outbound request
}

func NewConfig() *Config {
	return &Config{
		Debug: getBoolEnvDefault("DEBUG", false),

		AiProvider:      getStringEnvDefault("AI_PROVIDER", "openai"),
		OpenAiAPIKey:    getStringEnvDefault("OPENAI_API_KEY", ""),
		OpenAiBaseURL:   getStringEnvDefault("OPENAI_BASE_URL", "https://api.deepseek.com"),
		AnthropicAPIKey: getStringEnvDefault("ANTHROPIC_API_KEY", ""),

		OutputDir:     getStringEnvDefault("OUTPUT_DIR", "./public"),
		LocationsFile: getStringEnvDefault("LOCATIONS_FILE", ""),

		HTTPPort:       getIntEnvDefault("HTTP_PORT", 8080),
		RequestTimeout: getIntEnvDefault("REQUEST_TIMEOUT_SECONDS", 10),
	}
}

func getBoolEnvDefault(key string, defaultValue bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}

	fmt.Printf("Using default value for %s\n", key)
	return defaultValue
}

func getStringEnvDefault(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	fmt.Printf("Using default value for %s\n", key)
	return defaultValue
}

func getIntEnvDefault(key string, defaultValue int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}

	fmt.Printf("Using default value for %s\n", key)
	return defaultValue
}
