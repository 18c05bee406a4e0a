package config

// MetricsConfig configures the StatsD metrics sink. Disabled by default;
// enabling without an address keeps emission off.
type MetricsConfig struct {
	Enabled bool   `env:"ENABLED" envDefault:"false"`
	Address string `env:"ADDRESS" envDefault:""`
	Prefix  string `env:"PREFIX"  envDefault:"approvals"`
}
