package cli

import (
	"github.com/rileyhilliard/evmon/internal/config"
	"github.com/rileyhilliard/evmon/internal/gateway"
	"github.com/rileyhilliard/evmon/internal/logger"
)

// session is the loaded config plus a gateway built from it.
type session struct {
	cfg  *config.Config
	path string
	gw   gateway.Gateway
}

// newGateway builds the gateway for a validated config. Tests replace it.
var newGateway = func(cfg *config.Config, log logger.Logger) (gateway.Gateway, error) {
	return gateway.NewHTTPGateway(gateway.Options{
		BaseURL:            cfg.Server.URL,
		Token:              cfg.Server.Token,
		Timeout:            cfg.Server.Timeout,
		InsecureSkipVerify: cfg.Server.InsecureSkipVerify,
		Logger:             log,
	})
}

// openSession loads and validates config and connects a gateway.
// A non-empty timeout flag overrides server.timeout.
func openSession(flags ServerFlags, log logger.Logger) (*session, error) {
	cfg, path, err := config.LoadOrDefault(Config())
	if err != nil {
		return nil, err
	}

	timeout, err := ParseTimeout(flags.Timeout)
	if err != nil {
		return nil, err
	}
	if timeout > 0 {
		cfg.Server.Timeout = timeout
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	if log == nil {
		log = logger.Default()
	}
	gw, err := newGateway(cfg, log)
	if err != nil {
		return nil, err
	}

	return &session{cfg: cfg, path: path, gw: gw}, nil
}
