package session

import (
	"context"
	"fmt"
	"maps"
	"reflect"

	"github.com/dmitrymomot/clientsession/pkg/logger"
)

// ActionType tags the payload carried by an Action.
type ActionType string

const (
	// ActionNone is the zero value: the action is not configured.
	ActionNone     ActionType = ""
	ActionRedirect ActionType = "redirect"
	ActionFn       ActionType = "fn"
)

// ActionFunc is a configured login, signup, profile or logout callback. It
// receives the configured args merged with the caller's arguments. For logout
// a truthy result means the session should be cleared.
type ActionFunc func(ctx context.Context, actx ActionContext, args map[string]any) (any, error)

// Action is one of: not configured, a redirect to URL, or a callback given
// either directly (Fn) or by registry name (FnName).
type Action struct {
	Type   ActionType
	URL    string
	Fn     ActionFunc
	FnName string
	Args   map[string]any
}

// Redirect returns an action that navigates to url.
func Redirect(url string) Action {
	return Action{Type: ActionRedirect, URL: url}
}

// Func returns a callback action with static args.
func Func(fn ActionFunc, args map[string]any) Action {
	return Action{Type: ActionFn, Fn: fn, Args: args}
}

// NamedFunc returns a callback action resolved through the provider's
// Registry when it is dispatched.
func NamedFunc(name string, args map[string]any) Action {
	return Action{Type: ActionFn, FnName: name, Args: args}
}

// IsZero reports whether the action is not configured.
func (a Action) IsZero() bool { return a.Type == ActionNone }

// merge returns args overlaid with call arguments.
func (a Action) merge(call map[string]any) map[string]any {
	out := make(map[string]any, len(a.Args)+len(call))
	maps.Copy(out, a.Args)
	maps.Copy(out, call)
	return out
}

// dispatchAction runs a login, signup or profile action. Redirects are fire
// and forget and return a nil user.
func dispatchAction(ctx context.Context, c *core, name string, action Action, args map[string]any) (User, error) {
	res, redirected, err := invokeAction(ctx, c, name, action, args)
	if err != nil || redirected {
		return nil, err
	}
	return asUser(res), nil
}

// runLogout clears local state unless a callback is configured, in which case
// the state is cleared only on a truthy callback result.
func runLogout(ctx context.Context, c *core, action Action, args map[string]any) error {
	const name = "logout"

	if action.Type == ActionFn {
		res, _, err := invokeAction(ctx, c, name, action, args)
		if err != nil {
			return err
		}
		if truthy(res) {
			c.ClearSession()
		}
		return nil
	}

	c.ClearSession()

	switch action.Type {
	case ActionNone:
		return nil
	case ActionRedirect:
		_, _, err := invokeAction(ctx, c, name, action, args)
		return err
	default:
		return fmt.Errorf("%s: %w: %q", name, ErrUnknownActionType, action.Type)
	}
}

func invokeAction(ctx context.Context, c *core, name string, action Action, args map[string]any) (any, bool, error) {
	log := c.logger.With(logger.Action(name))

	switch action.Type {
	case ActionNone:
		return nil, false, fmt.Errorf("%s: %w", name, ErrActionNotConfigured)

	case ActionRedirect:
		if c.navigator == nil {
			return nil, true, fmt.Errorf("%s: %w", name, ErrNoNavigator)
		}
		log.DebugContext(ctx, "redirecting", logger.URL(action.URL))
		if err := c.navigator.Navigate(ctx, action.URL); err != nil {
			return nil, true, fmt.Errorf("%s: %w", name, err)
		}
		return nil, true, nil

	case ActionFn:
		fn := action.Fn
		if fn == nil && action.FnName != "" && c.registry != nil {
			fn, _ = c.registry.Action(action.FnName)
		}
		if fn == nil {
			return nil, false, fmt.Errorf("%s: %w", name, ErrActionFunctionMissing)
		}
		res, err := fn(ctx, c.actionContext(), action.merge(args))
		if err != nil {
			return nil, false, fmt.Errorf("%s: %w", name, err)
		}
		return res, false, nil

	default:
		return nil, false, fmt.Errorf("%s: %w: %q", name, ErrUnknownActionType, action.Type)
	}
}

func asUser(v any) User {
	switch u := v.(type) {
	case User:
		return u
	case map[string]any:
		return User(u)
	default:
		return nil
	}
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	}

	// Typed nils (User(nil), nil pointers) are falsy like an untyped nil.
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Pointer, reflect.Interface, reflect.Func, reflect.Chan:
		return !rv.IsNil()
	default:
		return true
	}
}
