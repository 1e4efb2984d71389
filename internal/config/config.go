package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DB     DBConfig     `mapstructure:"db"`
	JWT    JWTConfig    `mapstructure:"jwt"`
	Server ServerConfig `mapstructure:"server"`
	Users  UsersConfig  `mapstructure:"users"`
	Admin  AdminConfig  `mapstructure:"admin"`
}

type DBConfig struct {
	Source string `mapstructure:"source"`
}

type JWTConfig struct {
	Secret         string        `mapstructure:"secret"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
	ResetTokenTTL  time.Duration `mapstructure:"reset_token_ttl"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type UsersConfig struct {
	OpenRegistration bool `mapstructure:"open_registration"`
}

// AdminConfig seeds the first superuser at startup. Left empty, no seeding
// happens.
type AdminConfig struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
	FullName string `mapstructure:"full_name"`
}

func Load() (*Config, error) {
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("/configs")
	viper.SetConfigName("settings")
	viper.SetConfigType("yml")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("jwt.access_token_ttl", time.Hour)
	viper.SetDefault("jwt.reset_token_ttl", 24*time.Hour)
	viper.SetDefault("users.open_registration", false)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
