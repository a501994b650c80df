package funapp

import (
	"time"

	"github.com/advdv/bfun/conf"
	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap/zapcore"
)

// DefaultBufferLimit caps the memory one request may use to assemble its body.
const DefaultBufferLimit = 16 * 1024 * 1024

// Environment holds the process configuration. It is read once at startup.
type Environment struct {
	// Listen is the address for servers that do not declare one.
	Listen string `env:"FUN_LISTEN" envDefault:":8080"`
	// ConfigFile points to the location file. Without it the default locations are served.
	ConfigFile string `env:"FUN_CONFIG_FILE"`
	// Radius is the environment layer of the fun_radius parameter, below every scope of the file.
	Radius *int `env:"FUN_RADIUS"`

	LogLevel     zapcore.Level `env:"FUN_LOG_LEVEL" envDefault:"info"`
	OtelExporter string        `env:"FUN_OTEL_EXPORTER" envDefault:"none"`
	ServiceName  string        `env:"FUN_SERVICE_NAME" envDefault:"bfun"`

	BufferLimit       int           `env:"FUN_BUFFER_LIMIT" envDefault:"16777216"`
	H2C               bool          `env:"FUN_H2C" envDefault:"false"`
	ReadHeaderTimeout time.Duration `env:"FUN_READ_HEADER_TIMEOUT" envDefault:"5s"`
	WriteTimeout      time.Duration `env:"FUN_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout       time.Duration `env:"FUN_IDLE_TIMEOUT" envDefault:"60s"`
}

// Scope returns the environment layer as a configuration scope.
func (e Environment) Scope() conf.Scope {
	return conf.Scope{Radius: e.Radius}
}

// ParseEnv parses the process environment.
func ParseEnv() (e Environment, err error) {
	if err := env.Parse(&e); err != nil {
		return e, errors.Wrap(err, "failed to parse environment")
	}

	if e.BufferLimit == 0 {
		return e, errors.New("FUN_BUFFER_LIMIT must not be zero")
	}

	return e, nil
}
