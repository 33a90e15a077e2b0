package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	yaml "gopkg.in/yaml.v2"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderHTTP   = "http"
)

const (
	DriverMongo  = "mongo"
	DriverBolt   = "bolt"
	DriverMemory = "memory"
)

const (
	GeminiBaseURL      = "https://generativelanguage.googleapis.com/v1beta/openai"
	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultOpenAIModel = "gpt-4o-mini"
)

type GeneratorConfig struct {
	Provider string        `yaml:"provider"`
	APIKey   string        `yaml:"api_key"`
	BaseURL  string        `yaml:"base_url"`
	Model    string        `yaml:"model"`
	URL      string        `yaml:"url"`
	Timeout  time.Duration `yaml:"timeout"`
}

type StoreConfig struct {
	Driver     string        `yaml:"driver"`
	MongoURI   string        `yaml:"mongo_uri"`
	Database   string        `yaml:"database"`
	Collection string        `yaml:"collection"`
	BoltPath   string        `yaml:"bolt_path"`
	Timeout    time.Duration `yaml:"timeout"`
}

type Config struct {
	Port      string          `yaml:"port"`
	Host      string          `yaml:"host"`
	PublicDir string          `yaml:"public_dir"`
	Generator GeneratorConfig `yaml:"generator"`
	Store     StoreConfig     `yaml:"store"`
}

func Default() Config {
	return Config{
		Port:      "3000",
		PublicDir: "./public",
		Generator: GeneratorConfig{
			Provider: ProviderGemini,
			Timeout:  time.Minute,
		},
		Store: StoreConfig{
			Driver:     DriverMongo,
			Database:   "chatbot",
			Collection: "chats",
			BoltPath:   "./data/chats.bolt",
			Timeout:    10 * time.Second,
		},
	}
}

// Load builds the configuration from defaults, the yaml file at path (skipped
// when path is empty), a .env file if present, and the process environment,
// in that order of increasing precedence.
func Load(path string) (Config, error) {
	conf := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return conf, fmt.Errorf("read config %s: %w", path, err)
		}
		if err = yaml.Unmarshal(b, &conf); err != nil {
			return conf, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	// missing .env is fine
	_ = godotenv.Load()
	conf.applyEnv()
	conf.fillProviderDefaults()
	return conf, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.Port = v
	}
	if v := os.Getenv("MONGO_URI"); v != "" {
		c.Store.MongoURI = v
	}
	switch c.Generator.Provider {
	case ProviderGemini:
		if v := os.Getenv("GEMINI_API_KEY"); v != "" {
			c.Generator.APIKey = v
		}
	case ProviderOpenAI:
		if v := os.Getenv("OPENAI_API_KEY"); v != "" {
			c.Generator.APIKey = v
		}
	}
}

func (c *Config) fillProviderDefaults() {
	switch c.Generator.Provider {
	case ProviderGemini:
		if c.Generator.BaseURL == "" {
			c.Generator.BaseURL = GeminiBaseURL
		}
		if c.Generator.Model == "" {
			c.Generator.Model = DefaultGeminiModel
		}
	case ProviderOpenAI:
		if c.Generator.Model == "" {
			c.Generator.Model = DefaultOpenAIModel
		}
	}
}

// Validate reports the first missing or malformed setting. The server must
// not start when it fails.
func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}
	g := c.Generator
	switch g.Provider {
	case ProviderGemini, ProviderOpenAI:
		if g.APIKey == "" {
			return fmt.Errorf("generator api key is required for provider %q", g.Provider)
		}
	case ProviderHTTP:
		if g.URL == "" {
			return errors.New("generator url is required for provider \"http\"")
		}
	default:
		return fmt.Errorf("unknown generator provider %q", g.Provider)
	}
	if g.Timeout <= 0 {
		return errors.New("generator timeout must be positive")
	}
	s := c.Store
	switch s.Driver {
	case DriverMongo:
		if s.MongoURI == "" {
			return errors.New("store mongo_uri is required for driver \"mongo\"")
		}
		if s.Database == "" || s.Collection == "" {
			return errors.New("store database and collection are required for driver \"mongo\"")
		}
	case DriverBolt:
		if s.BoltPath == "" {
			return errors.New("store bolt_path is required for driver \"bolt\"")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", s.Driver)
	}
	if s.Timeout <= 0 {
		return errors.New("store timeout must be positive")
	}
	return nil
}
