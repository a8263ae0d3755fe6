package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mj1618/arrange/internal/arrange"
	"github.com/mj1618/arrange/internal/config"
	"github.com/mj1618/arrange/internal/output"
	"github.com/mj1618/arrange/internal/platform"
	"github.com/mj1618/arrange/internal/platform/desktop"
	"github.com/mj1618/arrange/internal/rewrite"
	"github.com/mj1618/arrange/internal/store"
	"github.com/spf13/cobra"
)

// env is everything one command needs: a refreshed session with the
// previous command's state restored, and somewhere to save it afterwards.
type env struct {
	ctx      context.Context
	cfg      config.Config
	log      *log.Logger
	provider *platform.Provider
	session  *arrange.Session
	state    *store.StateFile
	printer  output.Printer
	closers  []func() error
}

// openEnv builds the session for cmd. wrap, when non-nil, may replace
// provider capabilities before the session is created.
func openEnv(cmd *cobra.Command, wrap func(*platform.Provider)) (*env, error) {
	ctx := cmd.Context()
	e := &env{
		ctx:     ctx,
		cfg:     configFromContext(ctx),
		log:     loggerFromContext(ctx),
		printer: printer(cmd),
	}

	provider, err := openProvider()
	if err != nil {
		return nil, err
	}
	apiKey, err := loadAPIKey(e.cfg)
	if err != nil {
		return nil, err
	}
	if apiKey != "" && provider.Rewriter == nil {
		provider.Rewriter = rewrite.New(e.cfg.RewriteConfig(apiKey))
	}
	if wrap != nil {
		wrap(provider)
	}
	e.provider = provider

	layouts, closeLayouts, err := openLayouts(ctx, e.cfg)
	if err != nil {
		return nil, err
	}
	if closeLayouts != nil {
		e.closers = append(e.closers, closeLayouts)
	}

	e.state, err = store.NewStateFile(e.cfg.Store.Dir)
	if err != nil {
		e.Close()
		return nil, err
	}

	opts := e.cfg.SessionOptions()
	opts.APIKey = apiKey
	opts.Logger = e.log
	opts.Layouts = layouts
	e.session = arrange.New(provider, opts)

	if err := e.session.Refresh(); err != nil {
		e.Close()
		return nil, err
	}
	st, ok, err := e.state.Load()
	switch {
	case err != nil:
		e.log.Warn("ignoring unreadable state", "err", err)
	case ok:
		if err := e.session.Restore(st); err != nil {
			e.log.Warn("ignoring saved state", "err", err)
		}
	}
	return e, nil
}

func openProvider() (*platform.Provider, error) {
	path, _ := rootCmd.PersistentFlags().GetString("desktop")
	if path == "" {
		return platform.NewProvider()
	}
	d, err := desktop.Open(path)
	if err != nil {
		return nil, err
	}
	return d.Provider(), nil
}

// loadAPIKey prefers the environment over the stored credential.
func loadAPIKey(cfg config.Config) (string, error) {
	if key := os.Getenv(config.APIKeyEnv); key != "" {
		return key, nil
	}
	creds, err := store.NewCredentials(cfg.Store.Dir)
	if err != nil {
		return "", err
	}
	return creds.Load()
}

func openLayouts(ctx context.Context, cfg config.Config) (arrange.LayoutStore, func() error, error) {
	switch cfg.Store.Backend {
	case "redis":
		r, err := store.NewRedisLayouts(ctx, cfg.Store.RedisAddr, cfg.Store.RedisKey)
		if err != nil {
			return nil, nil, fmt.Errorf("open redis layout store: %w", err)
		}
		return r, r.Close, nil
	default:
		f, err := store.NewFileLayouts(cfg.Store.Dir)
		if err != nil {
			return nil, nil, err
		}
		return f, nil, nil
	}
}

// save persists the session state for the next command.
func (e *env) save() error {
	if err := e.state.Save(e.session.State()); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// finish saves state, prints v, and passes opErr through so the command
// exits non-zero when the operation failed.
func (e *env) finish(v interface{}, opErr error) error {
	defer e.Close()
	saveErr := e.save()
	if err := e.printer.Print(v); err != nil {
		return err
	}
	return errors.Join(opErr, saveErr)
}

// view prints v without touching saved state.
func (e *env) view(v interface{}) error {
	defer e.Close()
	return e.printer.Print(v)
}

func (e *env) Close() {
	for _, c := range e.closers {
		if err := c(); err != nil {
			e.log.Debug("close failed", "err", err)
		}
	}
	e.closers = nil
}
