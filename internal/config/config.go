package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Backend struct {
		BaseURL         string  `yaml:"base_url"`
		APIKey          string  `yaml:"api_key"`
		CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
		RateLimitRPS    float64 `yaml:"rate_limit_rps"`
		RateLimitBurst  int     `yaml:"rate_limit_burst"`
	} `yaml:"backend"`

	Redis struct {
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Server struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"server"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Grid struct {
		DayStartHour    int   `yaml:"day_start_hour"`
		DayEndHour      int   `yaml:"day_end_hour"`
		Durations       []int `yaml:"durations"`
		CapacityOptions []int `yaml:"capacity_options"`
		DefaultCapacity int   `yaml:"default_capacity"`
	} `yaml:"grid"`

	Timezone struct {
		Backend string `yaml:"backend"`
	} `yaml:"timezone"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Backend.BaseURL == "" {
		c.Backend.BaseURL = "http://localhost:3001"
	}
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = ":8080"
	}
	if c.Grid.DayStartHour <= 0 {
		c.Grid.DayStartHour = 8
	}
	if c.Grid.DayEndHour <= 0 {
		c.Grid.DayEndHour = 18
	}
	if len(c.Grid.Durations) == 0 {
		c.Grid.Durations = []int{15, 30, 45, 60, 75, 90, 105, 120}
	}
	if len(c.Grid.CapacityOptions) == 0 {
		c.Grid.CapacityOptions = []int{5, 10, 15, 20, 25}
	}
	if c.Grid.DefaultCapacity <= 0 {
		c.Grid.DefaultCapacity = 5
	}
	if c.Timezone.Backend == "" {
		c.Timezone.Backend = "Europe/Paris"
	}
}
