package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/clientsession/pkg/config"
	"github.com/dmitrymomot/clientsession/pkg/cookie"
	"github.com/dmitrymomot/clientsession/pkg/logger"
	"github.com/dmitrymomot/clientsession/pkg/session"
	"github.com/dmitrymomot/clientsession/pkg/transport"
)

var (
	errNotLoggedIn   = errors.New("sessioncheck.not_logged_in")
	errLoginRejected = errors.New("sessioncheck.login_rejected")
	errInvalidCookie = errors.New("sessioncheck.invalid_cookie")
)

type app struct {
	cookies  []string
	envFiles []string
	trustOK  bool
	out      io.Writer
}

type env struct {
	log       *slog.Logger
	session   session.EnvConfig
	transport *transport.HTTP
	registry  *session.Registry
}

func (a *app) setup() (*env, error) {
	var opts []config.Option
	if len(a.envFiles) > 0 {
		opts = append(opts, config.WithEnvFiles(a.envFiles...))
	}

	var (
		logCfg  logger.Config
		sessCfg session.EnvConfig
		httpCfg transport.Config
	)
	// Env files are applied by the first Load and seen by the rest.
	if err := config.Load(&logCfg, opts...); err != nil {
		return nil, err
	}
	if err := errors.Join(config.Load(&sessCfg), config.Load(&httpCfg)); err != nil {
		return nil, err
	}

	// stdout carries the report.
	log := logger.NewFromConfig(logCfg,
		logger.WithOutput(os.Stderr),
		logger.WithAttr(logger.Component("sessioncheck")),
	)

	tr, err := transport.NewFromConfig(httpCfg, transport.WithLogger(log))
	if err != nil {
		return nil, err
	}

	if len(a.cookies) > 0 {
		cookies := make([]*http.Cookie, 0, len(a.cookies))
		for _, raw := range a.cookies {
			name, value, ok := strings.Cut(raw, "=")
			if !ok || name == "" {
				return nil, fmt.Errorf("%w: %q", errInvalidCookie, raw)
			}
			cookies = append(cookies, &http.Cookie{Name: name, Value: value, Path: "/"})
		}
		if err := tr.SetCookies(cookies...); err != nil {
			return nil, err
		}
	}

	reg := session.NewRegistry()
	if err := registerHooks(reg, tr); err != nil {
		return nil, err
	}

	return &env{log: log, session: sessCfg, transport: tr, registry: reg}, nil
}

func (a *app) provider(e *env, cfg session.Config) (session.Provider, error) {
	opts := []session.Option{
		session.WithLogger(e.log),
		session.WithRegistry(e.registry),
	}
	if a.trustOK {
		opts = append(opts, session.WithTrustOKResponse())
	}
	return session.New(cfg, e.transport, opts...)
}

func (a *app) runCheck(cmd *cobra.Command, _ []string) error {
	e, err := a.setup()
	if err != nil {
		return err
	}
	cfg, err := e.session.Config(e.registry)
	if err != nil {
		return err
	}
	p, err := a.provider(e, cfg)
	if err != nil {
		return err
	}

	ok, err := p.GetSession(cmd.Context())
	if err != nil {
		return err
	}
	return a.report(p, ok)
}

func (a *app) loginCmd() *cobra.Command {
	var (
		loginURL    string
		credentials map[string]string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with credentials, then report the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := a.setup()
			if err != nil {
				return err
			}
			cfg, err := e.session.Config(e.registry)
			if err != nil {
				return err
			}
			if cfg.Login.IsZero() {
				cfg.Login = session.NamedFunc(postLoginHook, map[string]any{"url": loginURL})
			}
			p, err := a.provider(e, cfg)
			if err != nil {
				return err
			}

			args := make(map[string]any, len(credentials))
			for k, v := range credentials {
				args[k] = v
			}
			if _, err := p.Login(cmd.Context(), args); err != nil {
				return err
			}

			ok, err := p.GetSession(cmd.Context())
			if err != nil {
				return err
			}
			return a.report(p, ok)
		},
	}

	cmd.Flags().StringVar(&loginURL, "url", "/api/auth/login.php", "login endpoint, relative to TRANSPORT_BASE_URL")
	cmd.Flags().StringToStringVar(&credentials, "data", nil, "credentials as key=value pairs")
	return cmd
}

func (a *app) report(p session.Provider, ok bool) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string]any{
		"logged_in": ok,
		"user":      p.GetUser(),
	}); err != nil {
		return err
	}
	if !ok {
		return errNotLoggedIn
	}
	return nil
}

const (
	okUserHook    = "okUser"
	postLoginHook = "postLogin"
)

// registerHooks makes the demo backend protocol ({ok, user} bodies) available
// to SESSION_CONFIG_FILE by name.
func registerHooks(reg *session.Registry, tr *transport.HTTP) error {
	okUser := func(_ context.Context, _ session.ActionContext, res *session.Response, _ cookie.Values, _ session.Config) (session.Verdict, error) {
		body := res.BodyMap()
		if !res.OK || body["ok"] != true {
			return session.Reject(), nil
		}
		u, _ := body["user"].(map[string]any)
		return session.AcceptUser(u), nil
	}

	postLogin := func(ctx context.Context, actx session.ActionContext, args map[string]any) (any, error) {
		url, _ := args["url"].(string)
		payload := make(map[string]any, len(args))
		for k, v := range args {
			if k != "url" {
				payload[k] = v
			}
		}

		res, err := tr.Post(ctx, url, payload, session.RequestOptions{Credentials: session.CredentialsInclude})
		if err != nil {
			return nil, err
		}
		body := res.BodyMap()
		if !res.OK || body["ok"] != true {
			return nil, fmt.Errorf("%w: %v", errLoginRejected, body["error"])
		}
		u, _ := body["user"].(map[string]any)
		actx.Controller.SetSession(u, true)
		return u, nil
	}

	return errors.Join(
		reg.RegisterResponse(okUserHook, okUser),
		reg.RegisterAction(postLoginHook, postLogin),
	)
}
