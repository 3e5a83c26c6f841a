package app

import (
	"github.com/yungbote/paylink-backend/internal/platform/logger"
	"github.com/yungbote/paylink-backend/internal/utils"
)

type Config struct {
	JWTSecretKey   string
	Port           string
	CommitAttempts int
	Environment    string
	Version        string
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		JWTSecretKey:   utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log),
		Port:           utils.GetEnv("PORT", "8080", log),
		CommitAttempts: utils.GetEnvAsInt("SETTLE_COMMIT_ATTEMPTS", 3, log),
		Environment:    utils.GetEnv("APP_ENV", "development", log),
		Version:        utils.GetEnv("APP_VERSION", "dev", log),
	}
}
