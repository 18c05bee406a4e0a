package config

import "time"

// RedisConfig contains Redis connection configuration for the identity mirror.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	DB                 int      `env:"DB"                   envDefault:"0"`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
}

// MirrorConfig controls the identity mirror cache.
type MirrorConfig struct {
	// TTL is how long a mirrored identity survives without being refreshed.
	// The mirror is a paint-before-check cache, not a source of truth, so a
	// generous TTL is harmless.
	TTL time.Duration `env:"MIRROR_TTL" envDefault:"720h"`
}

// Sanitize applies guardrails to mirror configuration values.
func (m *MirrorConfig) Sanitize() {
	if m.TTL <= 0 {
		m.TTL = 720 * time.Hour
	}
}
