package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/memecat/memecat/database"
	"github.com/memecat/memecat/gateway"
	memecathttp "github.com/memecat/memecat/http"
	"github.com/memecat/memecat/miniostore"
	"github.com/memecat/memecat/token"
)

// Config is the root configuration struct. Loaded once at process start,
// immutable thereafter.
type Config struct {
	Catalog  ServerConfig           `mapstructure:"catalog"`
	Store    ServerConfig           `mapstructure:"store"`
	Database database.Config        `mapstructure:"database"`
	Minio    miniostore.Config      `mapstructure:"minio"`
	Auth     token.Config           `mapstructure:"auth"`
	Gateway  gateway.Config         `mapstructure:"gateway"`
	CORS     memecathttp.CORSConfig `mapstructure:"cors"`
	Log      LogConfig              `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration for one of the two services.
type ServerConfig struct {
	Port          int   `mapstructure:"port" validate:"required,min=1,max=65535"`
	MaxUploadSize int64 `mapstructure:"max_upload_size" validate:"min=0"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"db-type":        "database.type",
	"db-dsn":         "database.dsn",
	"minio-endpoint": "minio.endpoint",
	"minio-bucket":   "minio.bucket",
	"port":           "catalog.port",
	"store-port":     "store.port",
}

// bindFlags binds CLI flags to viper keys with custom name mapping.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		viperKey := f.Name
		if mapped, ok := flagToViperKey[viperKey]; ok {
			viperKey = mapped
		}

		// Only bind if the flag was explicitly set
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

// setDefaults configures default values on the viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("catalog.port", 8000)
	v.SetDefault("catalog.max_upload_size", 0) // 0 means no limit
	v.SetDefault("store.port", 8001)
	v.SetDefault("store.max_upload_size", 0)

	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.dsn", "memecat.db")

	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.access_key", "minioadmin")
	v.SetDefault("minio.secret_key", "minioadmin")
	v.SetDefault("minio.bucket", "memes")
	v.SetDefault("minio.secure", false)

	v.SetDefault("auth.secret", "change-me")
	v.SetDefault("auth.algorithm", "HS256")
	v.SetDefault("auth.expiry", "30m")

	v.SetDefault("gateway.root_url", "http://localhost:8001")
	v.SetDefault("gateway.username", "admin")
	v.SetDefault("gateway.password", "admin")

	v.SetDefault("log.level", "info")
}

// Load reads configuration and returns a validated Config struct.
// Order of precedence (highest to lowest): flags > env > config files > defaults
//
// Parameters:
//   - configFiles: list of config file paths (later files override earlier ones)
//   - flags: cobra flag set for flag binding (can be nil)
func Load(configFiles []string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Read config files
	if len(configFiles) > 0 {
		v.SetConfigFile(configFiles[0])
		if err := v.ReadInConfig(); err != nil {
			slog.Warn("error reading config file", "file", configFiles[0], "err", err)
		}

		for _, cf := range configFiles[1:] {
			v.SetConfigFile(cf)
			if err := v.MergeInConfig(); err != nil {
				slog.Warn("error merging config file", "file", cf, "err", err)
			}
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				slog.Warn("error reading config file", "err", err)
			}
		}
	}

	// 3. Bind environment variables
	v.SetEnvPrefix("MEMECAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Bind flags (if provided)
	if flags != nil {
		bindFlags(v, flags)
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// 6. Validate using go-playground/validator
	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
