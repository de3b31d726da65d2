package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration. Values come from the
// environment so main stays lean; every field has a development default.
type Server struct {
	Addr          string
	DatabaseURL   string
	RedisURL      string
	JWTSigningKey string
	SessionTTL    time.Duration

	// Admin predicate inputs: a single durable identity and a single
	// nickname, either of which grants elevated capability.
	AdminIdentityID string
	AdminNickname   string

	// Universe catalog. Create/join validate against this list.
	Universes []string

	// Optional audit broker. Empty brokers disables the Kafka sink.
	KafkaBrokers []string
	AuditTopic   string
}

// MembershipCacheTTL bounds how stale the membership fast path may get.
var MembershipCacheTTL = 15 * time.Minute

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	addr := os.Getenv("AIC_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("AIC_JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	universes := splitList(os.Getenv("AIC_UNIVERSES"))
	if len(universes) == 0 {
		universes = []string{"Retro", "Nexus", "Sirius", "Genesis"}
	}

	topic := os.Getenv("AIC_AUDIT_TOPIC")
	if topic == "" {
		topic = "aic.audit"
	}

	return Server{
		Addr:            addr,
		DatabaseURL:     os.Getenv("AIC_DATABASE_URL"),
		RedisURL:        os.Getenv("AIC_REDIS_URL"),
		JWTSigningKey:   jwtSigningKey,
		SessionTTL:      30 * 24 * time.Hour,
		AdminIdentityID: os.Getenv("AIC_ADMIN_IDENTITY"),
		AdminNickname:   os.Getenv("AIC_ADMIN_NICKNAME"),
		Universes:       universes,
		KafkaBrokers:    splitList(os.Getenv("AIC_KAFKA_BROKERS")),
		AuditTopic:      topic,
	}
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
