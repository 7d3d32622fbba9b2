package session

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

type rawConfig struct {
	Provider         string         `yaml:"provider"`
	DefaultValidated bool           `yaml:"default_validated"`
	DefaultUser      map[string]any `yaml:"default_user"`
	NormalizeUser    string         `yaml:"normalize_user"`
	Client           *rawClient     `yaml:"client"`
	Fetch            rawFetch       `yaml:"fetch"`
	Request          string         `yaml:"request"`
	Response         string         `yaml:"response"`
	Login            rawAction      `yaml:"login"`
	Signup           rawAction      `yaml:"signup"`
	Profile          rawAction      `yaml:"profile"`
	Logout           rawAction      `yaml:"logout"`
}

type rawClient struct {
	Cookies    stringList `yaml:"cookies"`
	Validation string     `yaml:"validation"`
}

type rawFetch struct {
	SessionURL      string `yaml:"sessionUrl"`
	SessionURLSnake string `yaml:"session_url"`
	Method          string `yaml:"method"`
	Fn              string `yaml:"fn"`
}

// stringList accepts a single string or a list of strings.
type stringList []string

func (l *stringList) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		var s string
		if err := n.Decode(&s); err != nil {
			return err
		}
		if s != "" {
			*l = stringList{s}
		}
		return nil
	case yaml.SequenceNode:
		var ss []string
		if err := n.Decode(&ss); err != nil {
			return err
		}
		*l = ss
		return nil
	default:
		return fmt.Errorf("line %d: expected string or list of strings", n.Line)
	}
}

// rawAction accepts a bare redirect URL or a {type, url, fn, args} mapping.
type rawAction struct {
	Type string         `yaml:"type"`
	URL  string         `yaml:"url"`
	Fn   string         `yaml:"fn"`
	Args map[string]any `yaml:"args"`

	// mapped is set for a non-empty mapping, which must name its type.
	mapped bool
}

func (a *rawAction) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		var url string
		if err := n.Decode(&url); err != nil {
			return err
		}
		if url != "" {
			*a = rawAction{Type: string(ActionRedirect), URL: url}
		}
		return nil
	}

	type plain rawAction
	var p plain
	if err := n.Decode(&p); err != nil {
		return err
	}
	*a = rawAction(p)
	a.mapped = n.Kind == yaml.MappingNode && len(n.Content) > 0
	return nil
}

func (a rawAction) action(name string) (Action, error) {
	switch ActionType(a.Type) {
	case ActionNone:
		if a.mapped {
			return Action{}, fmt.Errorf("%s: %w: %q", name, ErrUnknownActionType, a.Type)
		}
		return Action{}, nil
	case ActionRedirect:
		return Redirect(a.URL), nil
	case ActionFn:
		return NamedFunc(a.Fn, a.Args), nil
	default:
		return Action{}, fmt.Errorf("%s: %w: %q", name, ErrUnknownActionType, a.Type)
	}
}

// ParseConfig decodes a YAML or JSON provider configuration. Hook names
// (normalize_user, client.validation, fetch.fn, request, response) are
// resolved through reg immediately; action callbacks are resolved when the
// action runs, so reg must also be passed to the provider with WithRegistry.
func ParseConfig(data []byte, reg *Registry) (Config, error) {
	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, errors.Join(ErrInvalidConfig, err)
	}

	cfg := Config{
		Provider:         Kind(raw.Provider),
		DefaultValidated: raw.DefaultValidated,
		Fetch: FetchConfig{
			SessionURL: raw.Fetch.SessionURL,
			Method:     raw.Fetch.Method,
		},
	}
	if raw.DefaultUser != nil {
		cfg.DefaultUser = User(raw.DefaultUser)
	}
	if cfg.Fetch.SessionURL == "" {
		cfg.Fetch.SessionURL = raw.Fetch.SessionURLSnake
	}

	var err error
	if cfg.NormalizeUser, err = resolve(reg, "normalize_user", raw.NormalizeUser, (*Registry).Normalizer); err != nil {
		return Config{}, err
	}
	if cfg.Fetch.Fn, err = resolve(reg, "fetch.fn", raw.Fetch.Fn, (*Registry).Fetch); err != nil {
		return Config{}, err
	}
	if cfg.Request, err = resolve(reg, "request", raw.Request, (*Registry).Request); err != nil {
		return Config{}, err
	}
	if cfg.Response, err = resolve(reg, "response", raw.Response, (*Registry).Response); err != nil {
		return Config{}, err
	}

	if raw.Client != nil {
		cfg.Client = &ClientConfig{Cookies: raw.Client.Cookies}
		if cfg.Client.Validation, err = resolve(reg, "client.validation", raw.Client.Validation, (*Registry).ClientValidation); err != nil {
			return Config{}, err
		}
	}

	actions := []struct {
		name string
		raw  rawAction
		dst  *Action
	}{
		{"login", raw.Login, &cfg.Login},
		{"signup", raw.Signup, &cfg.Signup},
		{"profile", raw.Profile, &cfg.Profile},
		{"logout", raw.Logout, &cfg.Logout},
	}
	for _, a := range actions {
		if *a.dst, err = a.raw.action(a.name); err != nil {
			return Config{}, err
		}
	}

	return cfg, nil
}

func resolve[F any](reg *Registry, field, name string, get func(*Registry, string) (F, bool)) (F, error) {
	var zero F
	if name == "" {
		return zero, nil
	}
	if reg == nil {
		return zero, fmt.Errorf("%s: %w: %q", field, ErrFunctionNotRegistered, name)
	}
	fn, ok := get(reg, name)
	if !ok {
		return zero, fmt.Errorf("%s: %w: %q", field, ErrFunctionNotRegistered, name)
	}
	return fn, nil
}
