package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Log       Log       `yaml:"log"`
	Server    Server    `yaml:"server"`
	Redis     Redis     `yaml:"redis"`
	OpenAI    OpenAI    `yaml:"openai"`
	Learning  Learning  `yaml:"learning"`
	Assistant Assistant `yaml:"assistant"`
}

type Log struct {
	// Telegram logging config
	Telegram TelegramLog `yaml:"telegram"`
}

type TelegramLog struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789"`
	// Chat ID to send messages to
	ChatID string `yaml:"chat_id" example:"1001234567890"`
}

type Server struct {
	// Listen address of the HTTP API
	Listen string `yaml:"listen" example:":8080" validate:"required"`
}

type Redis struct {
	// Redis address; empty keeps everything in process memory
	Addr string `yaml:"addr" example:"localhost:6379"`
	// Redis password
	Pass string `yaml:"pass"`
	// Redis database index
	DB int `yaml:"db"`
	// Conversation state TTL in hours
	TTLHours int `yaml:"ttl_hours" example:"24"`
}

type OpenAI struct {
	// Intent classification model; empty falls back to keyword rules
	Intent ModelConfig `yaml:"intent"`
	// Response generation model; empty falls back to the basic generator
	Generation ModelConfig `yaml:"generation"`
}

type ModelConfig struct {
	// OpenAI base url
	BaseURL string `yaml:"base_url" example:"https://openrouter.ai/api/v1"`
	// OpenAI token
	Token string `yaml:"token" example:"sk-proj-abc123456789DEF789ghi012JKL345mno678PQR901stu234VWX"`
	// OpenAI model
	Model string `yaml:"model" example:"deepseek/deepseek-chat-v3-0324:free"`
}

type Learning struct {
	// Disables the async learning dispatch entirely
	Disabled bool `yaml:"disabled"`
	// Delay before a queued learning job starts, in milliseconds
	DispatchDelayMS int `yaml:"dispatch_delay_ms" example:"100"`
	// Learning queue capacity; overflowing jobs are dropped
	QueueSize int `yaml:"queue_size" example:"64"`
	// Number of learning workers
	Workers int `yaml:"workers" example:"2"`
	// How many recent interactions each learning run consumes
	BatchLimit int `yaml:"batch_limit" example:"50"`
}

type Assistant struct {
	// Display name used in generated responses
	Name string `yaml:"name" example:"FieldBot"`
	// Support contact surfaced in apology responses
	SupportContact string `yaml:"support_contact" example:"support@example.com"`
}

func (l Learning) Enabled() bool {
	return !l.Disabled
}

func Load() (*Config, error) {
	var result Config

	data, err := os.ReadFile("config.yaml")
	if err != nil {
		return nil, oops.Errorf("failed to read config file: %w", err)
	}

	if err = yaml.Unmarshal(data, &result); err != nil {
		return nil, oops.Errorf("failed to parse YAML config: %w", err)
	}

	ApplyDefaults(&result)

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.Errorf("failed to validate config: %w", err)
	}

	return &result, nil
}

// ApplyDefaults fills zero-value fields so a minimal config file still yields
// a runnable service.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}
	if cfg.Redis.TTLHours <= 0 {
		cfg.Redis.TTLHours = 24
	}
	if cfg.Learning.DispatchDelayMS <= 0 {
		cfg.Learning.DispatchDelayMS = 100
	}
	if cfg.Learning.QueueSize <= 0 {
		cfg.Learning.QueueSize = 64
	}
	if cfg.Learning.Workers <= 0 {
		cfg.Learning.Workers = 2
	}
	if cfg.Learning.BatchLimit <= 0 {
		cfg.Learning.BatchLimit = 50
	}
	if cfg.Assistant.Name == "" {
		cfg.Assistant.Name = "FieldBot"
	}
	if cfg.Assistant.SupportContact == "" {
		cfg.Assistant.SupportContact = "support@fieldbot.example"
	}
}

// Default returns a config with every default applied, for tests and
// tokenless local runs.
func Default() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	return &cfg
}
