package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/adanyl0v/flowfocus/internal/app"
	"github.com/adanyl0v/flowfocus/internal/client"
	"github.com/adanyl0v/flowfocus/internal/config"
	"github.com/adanyl0v/flowfocus/internal/registry"
	"github.com/adanyl0v/flowfocus/internal/ui"
)

// reportedError marks a failure the user has already been shown as a
// notification, so main only sets the exit code.
type reportedError struct {
	err error
}

func (e reportedError) Error() string {
	return e.err.Error()
}

func (e reportedError) Unwrap() error {
	return e.err
}

func reported(err error) error {
	if err == nil {
		return nil
	}
	return reportedError{err: err}
}

type env struct {
	logger zerolog.Logger
	cfg    *config.ClientConfig
	out    io.Writer
}

func loadEnv(cmd *cobra.Command) (*env, error) {
	logger := app.NewClientLogger(cmd.ErrOrStderr(), flagVerbose)

	cfg, err := config.NewClientEnvReader().Read()
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	logger.Debug().
		Str("api_url", cfg.APIURL).
		Str("list_storage", cfg.ListStorage).
		Msg("read client config")

	return &env{
		logger: logger,
		cfg:    cfg,
		out:    cmd.OutOrStdout(),
	}, nil
}

func (e *env) notifier() registry.Notifier {
	return registry.NotifierFunc(func(n registry.Notification) {
		ui.RenderNotification(e.out, n)
	})
}

// remote is a client bound to the saved session. Rotated tokens are
// written back to the session file as soon as the server issues them.
type remote struct {
	*env
	client      *client.Client
	sessionFile *client.SessionFile
	session     *client.Session
}

func (e *env) remote() (*remote, error) {
	sessionFile := client.NewSessionFile(e.cfg.SessionPath)
	session, err := sessionFile.Load()
	if err != nil {
		return nil, err
	}

	c := client.New(e.logger, e.cfg.APIURL, nil)
	c.SetTokens(session.Tokens)

	r := &remote{
		env:         e,
		client:      c,
		sessionFile: sessionFile,
		session:     session,
	}
	c.OnRotate(func(tokens client.Tokens) {
		if !r.session.LoggedIn() {
			return
		}
		r.session.Tokens = tokens
		if err := r.save(); err != nil {
			e.logger.Warn().
				Err(err).
				Msg("failed to save rotated tokens")
		}
	})
	return r, nil
}

func (e *env) loggedIn() (*remote, error) {
	r, err := e.remote()
	if err != nil {
		return nil, err
	}
	if !r.session.LoggedIn() {
		return nil, fmt.Errorf("%w: run `flowfocus login` first", client.ErrNotLoggedIn)
	}
	return r, nil
}

func (r *remote) save() error {
	return r.sessionFile.Save(r.session)
}

func (r *remote) categories() *registry.CategoryRegistry {
	return registry.NewCategoryRegistry(r.logger, r.client, r.notifier(), r.session.UserID)
}

func (r *remote) tasks() *registry.TaskRegistry {
	return registry.NewTaskRegistry(r.logger, r.client, r.notifier(), r.session.UserID)
}

// isNotLoggedIn reports errors that mean the saved session is no good.
func isNotLoggedIn(err error) bool {
	var statusErr *client.StatusError
	return errors.Is(err, client.ErrNotLoggedIn) ||
		errors.As(err, &statusErr) && statusErr.Code == http.StatusUnauthorized
}
