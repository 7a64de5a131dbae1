package notifier_config

import (
	"time"

	"github.com/NordCoder/update-notifier/internal/domain/category"
	"github.com/NordCoder/update-notifier/internal/obs"
	pg "github.com/NordCoder/update-notifier/internal/repository/postgres"
)

type App struct {
	Name    string `mapstructure:"name"`
	Env     string `mapstructure:"env"`
	Version string `mapstructure:"version"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

func (c Config) LoggerConfig() obs.LogConfig {
	return obs.LogConfig{
		Level:  c.Log.Level,
		Pretty: c.Log.Pretty,
		App:    c.App.Name,
		Env:    c.App.Env,
		Ver:    c.App.Version,
	}
}

type OTEL struct {
	Enable       bool    `mapstructure:"enable"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	ServiceName  string  `mapstructure:"service_name"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

func (oc OTEL) AsOTELConfig() obs.OTELConfig {
	return obs.OTELConfig{
		Enable:      oc.Enable,
		Endpoint:    oc.OTLPEndpoint,
		ServiceName: oc.ServiceName,
		SampleRatio: oc.SampleRatio,
	}
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type SQLite struct {
	Path string `mapstructure:"path"`
}

type DB struct {
	Driver   string    `mapstructure:"driver"`
	Postgres pg.Config `mapstructure:"postgres"`
	SQLite   SQLite    `mapstructure:"sqlite"`
}

type SMTP struct {
	Addr               string        `mapstructure:"addr"`
	From               string        `mapstructure:"from"`
	User               string        `mapstructure:"user"`
	Password           string        `mapstructure:"password"`
	UseTLS             bool          `mapstructure:"use_tls"`
	InsecureSkipVerify bool          `mapstructure:"insecure_skip_verify"`
	Timeout            time.Duration `mapstructure:"timeout"`
	ContentType        string        `mapstructure:"content_type"`
	RatePerSec         float64       `mapstructure:"rate_per_sec"`
	Burst              int           `mapstructure:"burst"`
}

type Site struct {
	BaseURL         string `mapstructure:"base_url"`
	DefaultLanguage string `mapstructure:"default_language"`
}

type Schedule struct {
	Enable   bool   `mapstructure:"enable"`
	CronTime string `mapstructure:"cron_time"` // HH:MM
	Timezone string `mapstructure:"timezone"`
	Spec     string `mapstructure:"spec"` // overrides cron_time when set
}

type Server struct {
	HTTPAddr        string        `mapstructure:"http_addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	GracefulTimeout time.Duration `mapstructure:"graceful_timeout"`
}

type Admin struct {
	TokenHash string `mapstructure:"token_hash"` // bcrypt; empty disables auth
}

type Events struct {
	Enable       bool          `mapstructure:"enable"`
	Brokers      []string      `mapstructure:"brokers"`
	Topic        string        `mapstructure:"topic"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type Lock struct {
	Enable   bool          `mapstructure:"enable"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Key      string        `mapstructure:"key"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// CategoryCfg is one entry of the categories list as written in the file.
// Recipients may be a list or a comma-separated string.
type CategoryCfg struct {
	ID           string `mapstructure:"id"`
	Kind         string `mapstructure:"kind"`
	SortOrder    string `mapstructure:"sort_order"`
	IntervalDays *int   `mapstructure:"interval_days"`
	Recipients   any    `mapstructure:"recipients"`
	Template     string `mapstructure:"template"`
}

type Config struct {
	App      App      `mapstructure:"app"`
	Log      Log      `mapstructure:"log"`
	OTEL     OTEL     `mapstructure:"otel"`
	DB       DB       `mapstructure:"db"`
	SMTP     SMTP     `mapstructure:"smtp"`
	Site     Site     `mapstructure:"site"`
	Schedule Schedule `mapstructure:"schedule"`
	Server   Server   `mapstructure:"server"`
	Admin    Admin    `mapstructure:"admin"`
	Events   Events   `mapstructure:"events"`
	Lock     Lock     `mapstructure:"lock"`

	RawCategories []CategoryCfg `mapstructure:"categories"`

	// Categories is the normalised form of RawCategories, filled by Load.
	Categories []category.Category `mapstructure:"-"`
}
