package config

import (
	"os"
	"strconv"
	"strings"
)

type InsuranceServiceConfig struct {
	Port         string
	PostgresCfg  PostgresConfig
	RedisCfg     RedisConfig
	RabbitMQCfg  RabbitMQConfig
	InsuranceCfg InsuranceConfig
}

type PostgresConfig struct {
	DBname   string
	Username string
	Password string
	Host     string
	Port     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type RabbitMQConfig struct {
	Username string
	Password string
	Host     string
	Port     string
}

// InsuranceConfig carries the risk-factor configuration for premium
// calculation. List values are comma-separated in the environment.
type InsuranceConfig struct {
	Timezone                 string
	WeatherThresholdTemp     float64
	WeatherMaxMultiplier     float64
	HighRiskZones            []string
	MonsoonCities            []string
	HighRiskGigPlatforms     []string
	NightTimeGigPlatforms    []string
	PlanCacheTTLSeconds      int
	DefaultPolicyTermMonths  int
	DefaultRenewalTermMonths int
}

func New() *InsuranceServiceConfig {
	return &InsuranceServiceConfig{
		Port: getEnvOrDefault("PORT", "8084"),
		PostgresCfg: PostgresConfig{
			DBname:   getEnvOrDefault("POSTGRES_DB", "insurance_service"),
			Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
			Password: getEnvOrDefault("POSTGRES_PASSWORD", "postgres"),
			Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
			Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
		},
		RedisCfg: RedisConfig{
			Host:     getEnvOrDefault("REDIS_HOST", "localhost"),
			Port:     getEnvOrDefault("REDIS_PORT", "6379"),
			Password: getEnvOrDefault("REDIS_PASSWORD", ""),
			DB:       0,
		},
		RabbitMQCfg: RabbitMQConfig{
			Username: getEnvOrDefault("RABBITMQ_USER", "admin"),
			Password: getEnvOrDefault("RABBITMQ_PWD", "admin"),
			Host:     getEnvOrDefault("RABBITMQ_HOST", "localhost"),
			Port:     getEnvOrDefault("RABBITMQ_PORT", "5672"),
		},
		InsuranceCfg: InsuranceConfig{
			Timezone:                 getEnvOrDefault("INSURANCE_TIMEZONE", "Asia/Kolkata"),
			WeatherThresholdTemp:     getEnvFloatOrDefault("WEATHER_THRESHOLD_TEMPERATURE", 35),
			WeatherMaxMultiplier:     getEnvFloatOrDefault("WEATHER_MAX_MULTIPLIER", 1.5),
			HighRiskZones:            getEnvListOrDefault("HIGH_RISK_ZONES", "Mumbai,Chennai,Delhi,Bangalore"),
			MonsoonCities:            getEnvListOrDefault("MONSOON_CITIES", "Mumbai,Chennai,Kolkata"),
			HighRiskGigPlatforms:     getEnvListOrDefault("HIGH_RISK_GIG_PLATFORMS", "ZEPTO,INSTAMART"),
			NightTimeGigPlatforms:    getEnvListOrDefault("NIGHT_TIME_GIG_PLATFORMS", "SWIGGY,ZOMATO"),
			PlanCacheTTLSeconds:      getEnvIntOrDefault("PLAN_CACHE_TTL_SECONDS", 300),
			DefaultPolicyTermMonths:  getEnvIntOrDefault("POLICY_TERM_MONTHS", 12),
			DefaultRenewalTermMonths: getEnvIntOrDefault("POLICY_RENEWAL_MONTHS", 12),
		},
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvListOrDefault(key, defaultValue string) []string {
	raw := getEnvOrDefault(key, defaultValue)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
