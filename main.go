package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"github.com/matheuscscp/jwks-issuer/internal/config"
	"github.com/matheuscscp/jwks-issuer/internal/constants"
	"github.com/matheuscscp/jwks-issuer/internal/logging"
	"github.com/matheuscscp/jwks-issuer/internal/server"
)

type CLI struct {
	Config   string `type:"path" env:"JWKS_ISSUER_CONFIG" help:"Path to the YAML configuration file. Defaults to ${default_config}."`
	LogLevel string `env:"LOG_LEVEL" help:"Log level, overrides log.level from the configuration file."`
}

func (cli *CLI) Run(ctx context.Context) error {
	if err := logging.LoadLevel(cli.LogLevel); err != nil {
		return err
	}

	conf, err := config.Load(cli.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cli.LogLevel == "" {
		if err := logging.LoadLevel(conf.Log.Level); err != nil {
			return err
		}
	}
	logrus.WithField("config", conf).Debug("config loaded")

	s, err := server.New(conf)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.WithField("addr", s.Addr).Info("server started")
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logrus.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var cli CLI
	cliCtx := kong.Parse(&cli,
		kong.Name(constants.JWKSIssuer),
		kong.Description("Issues RS256 tokens and publishes the public keys as a JWKS."),
		kong.Vars{"default_config": config.DefaultFile})
	cliCtx.BindTo(ctx, (*context.Context)(nil))

	if err := cliCtx.Run(); err != nil {
		logrus.WithError(err).Error("failed to run")
		os.Exit(1)
	}
}
