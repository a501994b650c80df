package funapp

import (
	"os"

	"github.com/advdv/bfun/conf"
	"github.com/cockroachdb/errors"
)

// LoadServers reads the location file named by the environment, or takes the default locations, and resolves it
// with the environment as the outermost layer.
func LoadServers(env Environment) ([]conf.Server, error) {
	f := conf.Default(env.Listen)
	if env.ConfigFile != "" {
		fh, err := os.Open(env.ConfigFile)
		if err != nil {
			return nil, errors.Wrap(err, "open config file")
		}
		defer fh.Close()

		if f, err = conf.Load(fh); err != nil {
			return nil, errors.Wrapf(err, "load %s", env.ConfigFile)
		}
	}

	servers, err := conf.Resolve(env.Scope(), f, env.Listen)
	if err != nil {
		return nil, errors.Wrap(err, "resolve config")
	}

	if len(servers) == 0 {
		return nil, errors.New("config declares no servers")
	}

	return servers, nil
}
