package config

import (
	"fmt"
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN,required"`
	OpenAIKey    string `env:"OPENAI_SECRET,required"`
	GoogleTTSKey string `env:"GOOGLE_TTS_KEY,required"`

	ChatModel     string `env:"OPENAI_CHAT_MODEL" envDefault:"gpt-3.5-turbo"`
	CommandPrefix string `env:"COMMAND_PREFIX" envDefault:"-sky-"`
	StoragePath   string `env:"STORAGE_PATH" envDefault:"messagestore.json"`
}

func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, falling back to system environment variables")
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return &cfg, nil
}
