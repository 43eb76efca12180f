package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/client/client"
	"github.com/dmitrijs2005/gophchat/internal/client/config"
	"github.com/dmitrijs2005/gophchat/internal/client/session"
	"github.com/dmitrijs2005/gophchat/internal/flagx"
	"github.com/spf13/cobra"
)

// newClient is a seam for tests. onRefresh receives tokens rotated during
// a call.
var newClient = func(addr string, onRefresh func(access, refresh string)) (client.Client, error) {
	c, err := client.NewGRPCClient(addr)
	if err != nil {
		return nil, err
	}
	c.OnTokensRefreshed(onRefresh)
	return c, nil
}

type App struct {
	config  *config.Config
	client  client.Client
	session *session.Store
	in      *bufio.Reader
	out     io.Writer
}

type globalFlags struct {
	configPath string
	server     string
	sessionDir string
	timeout    time.Duration
}

func (a *App) init(cmd *cobra.Command, gf *globalFlags) error {
	path := gf.configPath
	if path == "" {
		path = os.Getenv(flagx.ConfigEnvVar)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("server") {
		cfg.ServerEndpointAddr = gf.server
	}
	if flags.Changed("session-dir") {
		cfg.SessionDir = gf.sessionDir
	}
	if flags.Changed("timeout") {
		cfg.RequestTimeout = gf.timeout
	}
	a.config = cfg

	store, err := session.NewStore(cfg.SessionDir)
	if err != nil {
		return err
	}
	a.session = store

	tokens, err := store.Load()
	if err != nil {
		return err
	}

	c, err := newClient(cfg.ServerEndpointAddr, func(access, refresh string) {
		if err := store.Save(session.Tokens{AccessToken: access, RefreshToken: refresh}); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: could not save session: %v\n", err)
		}
	})
	if err != nil {
		return fmt.Errorf("connect %s: %w", cfg.ServerEndpointAddr, err)
	}
	c.SetTokens(tokens.AccessToken, tokens.RefreshToken)
	a.client = c

	a.in = bufio.NewReader(cmd.InOrStdin())
	a.out = cmd.OutOrStdout()
	return nil
}

func (a *App) close() error {
	if a.client == nil {
		return nil
	}
	return a.client.Close()
}

func (a *App) requestContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), a.config.RequestTimeout)
}

func (a *App) requireLogin() error {
	access, refresh := a.client.Tokens()
	if access == "" && refresh == "" {
		return fmt.Errorf("%w: run `gophchat login` first", client.ErrNotLoggedIn)
	}
	return nil
}

// explain adds a hint for errors the user can act on.
func explain(err error) error {
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		return fmt.Errorf("%w (try `gophchat login`)", err)
	case errors.Is(err, client.ErrUnavailable):
		return fmt.Errorf("%w (the request can be retried)", err)
	default:
		return err
	}
}
