package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Matching MatchingConfig
	Onet     OnetConfig
	Seed     SeedConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

type JWTConfig struct {
	AccessSecret     string
	RefreshSecret    string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration
}

type MatchingConfig struct {
	InterestWeight    float64
	SkillsWeight      float64
	PersonalityWeight float64
	TopN              int
}

type OnetConfig struct {
	SummaryBaseURL      string
	Workers             int
	RatePerSecond       int
	UserAgent           string
	DescriptionSelector string
	TitlesSelector      string
}

type SeedConfig struct {
	AdminEmail    string
	AdminPassword string
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

// Load reads configuration from the environment and, when configFile is not
// empty, from that file. Environment variables win over file values.
func Load(configFile string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if strings.TrimSpace(configFile) != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var missing []string
	req := func(key string) string {
		s := strings.TrimSpace(v.GetString(key))
		if s == "" {
			missing = append(missing, key)
		}
		return s
	}
	opt := func(key string) string {
		return strings.TrimSpace(v.GetString(key))
	}

	cfg := Config{}
	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:                opt("DB_HOST"),
		DBPort:                opt("DB_PORT"),
		DBName:                opt("DB_NAME"),
		DBUser:                opt("DB_USER"),
		DBPassword:            v.GetString("DB_PASSWORD"),
		DBSSLMode:             opt("DB_SSL_MODE"),
		ConnectTimeout:        v.GetDuration("DB_CONNECT_TIMEOUT"),
		PoolMaxConns:          v.GetInt32("DB_POOL_MAX_CONNS"),
		PoolMinConns:          v.GetInt32("DB_POOL_MIN_CONNS"),
		PoolMaxConnLifetime:   v.GetDuration("DB_POOL_MAX_CONN_LIFETIME"),
		PoolMaxConnIdleTime:   v.GetDuration("DB_POOL_MAX_CONN_IDLE_TIME"),
		PoolHealthCheckPeriod: v.GetDuration("DB_POOL_HEALTH_CHECK_PERIOD"),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST"),
		Port:     opt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
		TTL:      v.GetDuration("REDIS_TTL"),
	}

	cfg.JWT = JWTConfig{
		AccessSecret:     req("JWT_ACCESS_SECRET"),
		RefreshSecret:    opt("JWT_REFRESH_SECRET"),
		AccessExpiresIn:  v.GetDuration("JWT_ACCESS_EXPIRES_IN"),
		RefreshExpiresIn: v.GetDuration("JWT_REFRESH_EXPIRES_IN"),
	}
	if cfg.JWT.RefreshSecret == "" {
		cfg.JWT.RefreshSecret = cfg.JWT.AccessSecret
	}

	cfg.Matching = MatchingConfig{
		InterestWeight:    v.GetFloat64("MATCH_WEIGHT_INTEREST"),
		SkillsWeight:      v.GetFloat64("MATCH_WEIGHT_SKILLS"),
		PersonalityWeight: v.GetFloat64("MATCH_WEIGHT_PERSONALITY"),
		TopN:              v.GetInt("MATCH_TOP_N"),
	}

	cfg.Onet = OnetConfig{
		SummaryBaseURL:      opt("ONET_SUMMARY_BASE_URL"),
		Workers:             v.GetInt("ONET_WORKERS"),
		RatePerSecond:       v.GetInt("ONET_RATE_PER_SECOND"),
		UserAgent:           opt("ONET_USER_AGENT"),
		DescriptionSelector: opt("ONET_DESCRIPTION_SELECTOR"),
		TitlesSelector:      opt("ONET_TITLES_SELECTOR"),
	}

	cfg.Seed = SeedConfig{
		AdminEmail:    opt("SEED_ADMIN_EMAIL"),
		AdminPassword: v.GetString("SEED_ADMIN_PASSWORD"),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	if cfg.Matching.InterestWeight < 0 || cfg.Matching.SkillsWeight < 0 || cfg.Matching.PersonalityWeight < 0 {
		return Config{}, fmt.Errorf("matching weights must not be negative")
	}

	return cfg, nil
}

func (c AppConfig) IsDevelopment() bool {
	switch strings.ToLower(c.Environment) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_CONNECT_TIMEOUT", 5*time.Second)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_TTL", 10*time.Minute)

	v.SetDefault("JWT_ACCESS_EXPIRES_IN", 15*time.Minute)
	v.SetDefault("JWT_REFRESH_EXPIRES_IN", 7*24*time.Hour)

	v.SetDefault("MATCH_WEIGHT_INTEREST", 0.40)
	v.SetDefault("MATCH_WEIGHT_SKILLS", 0.35)
	v.SetDefault("MATCH_WEIGHT_PERSONALITY", 0.25)
	v.SetDefault("MATCH_TOP_N", 10)

	v.SetDefault("ONET_SUMMARY_BASE_URL", "https://www.onetonline.org/link/summary/")
	v.SetDefault("ONET_WORKERS", 4)
	v.SetDefault("ONET_RATE_PER_SECOND", 2)
	v.SetDefault("ONET_USER_AGENT", "CareerPathBot/0.1")
	v.SetDefault("ONET_DESCRIPTION_SELECTOR", "#content > p:first-of-type")
	v.SetDefault("ONET_TITLES_SELECTOR", "#content p:contains('Sample of reported job titles')")
}
