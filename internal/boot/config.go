package boot

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Env      string `env:"ENV,default=dev"`
	DataDir  string `env:"DATA_DIR,default=./data"`
	MediaDir string `env:"MEDIA_DIR,default=./media"`
	Server   struct {
		Port        string `env:"PORT,default=3000"`
		MetricsPort string `env:"METRICS_PORT,default=8081"`
	}
	WhatsApp struct {
		Token   string        `env:"WHATSAPP_TOKEN,required"`
		PhoneID string        `env:"WHATSAPP_PHONE_ID,required"`
		BaseURL string        `env:"GRAPH_BASE_URL,default=https://graph.facebook.com/v20.0"`
		Timeout time.Duration `env:"PROVIDER_TIMEOUT,default=30s"`
	}
	Webhook struct {
		VerifyToken string `env:"VERIFY_TOKEN,required"`
	}
	Admin struct {
		Key string `env:"ADMIN_KEY,default=admin"`
	}
	Registry struct {
		Backend string `env:"REGISTRY_BACKEND,default=file"`
		File    string `env:"REGISTRY_FILE,default=contacts.json"`
	}
	Broadcast struct {
		Pacing time.Duration `env:"BROADCAST_PACING,default=250ms"`
	}
}

func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	config := &Config{}
	if err := envconfig.Process(context.Background(), config); err != nil {
		return nil, fmt.Errorf("parsing env vars: %w", err)
	}
	return config, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "prod"
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "dev"
}

func (c *Config) DataDirectory() string {
	return c.DataDir
}

func (c *Config) MediaDirectory() string {
	return c.MediaDir
}

// RegistryPath resolves the flat-file registry location; a relative
// REGISTRY_FILE lives under the data directory.
func (c *Config) RegistryPath() string {
	if filepath.IsAbs(c.Registry.File) {
		return c.Registry.File
	}
	return filepath.Join(c.DataDir, c.Registry.File)
}

func (c *Config) AdminSecret() string {
	return c.Admin.Key
}

func (c *Config) BroadcastPacing() time.Duration {
	return c.Broadcast.Pacing
}

func (c *Config) VerifyToken() string {
	return c.Webhook.VerifyToken
}
