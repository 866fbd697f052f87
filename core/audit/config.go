package audit

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Concurrency     int           `envconfig:"CONCURRENCY" default:"50"`
	RingDir         string        `envconfig:"RING_DIR" default:"/etc/ringaudit"`
	ConnectTimeout  time.Duration `envconfig:"CONNECT_TIMEOUT" default:"5s"`
	ResponseTimeout time.Duration `envconfig:"RESPONSE_TIMEOUT" default:"15s"`
	ErrorFile       string        `envconfig:"ERROR_FILE"`
	Delete          bool          `envconfig:"DELETE"`
	ReportStore     string        `envconfig:"REPORT_STORE"`
}

func GetConfig() (*Config, error) {
	var cfg Config
	err := envconfig.Process("RINGAUDIT", &cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}
