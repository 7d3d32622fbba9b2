package session

import "errors"

var (
	// ErrActionNotConfigured indicates the requested action has no configuration
	ErrActionNotConfigured = errors.New("session.action_not_configured")

	// ErrActionFunctionMissing indicates a fn action whose callable could not be resolved
	ErrActionFunctionMissing = errors.New("session.action_function_missing")

	// ErrUnknownActionType indicates an action with an unsupported type tag
	ErrUnknownActionType = errors.New("session.unknown_action_type")

	// ErrUnknownProvider indicates the configuration names no known provider
	ErrUnknownProvider = errors.New("session.unknown_provider")

	// ErrNoNavigator indicates a redirect action without a navigator to perform it
	ErrNoNavigator = errors.New("session.no_navigator")

	// ErrNoTransport indicates server validation was requested without a transport
	ErrNoTransport = errors.New("session.no_transport")

	// ErrTransportFailed indicates the validation request could not be executed
	ErrTransportFailed = errors.New("session.transport_failed")

	// ErrFunctionNotRegistered indicates a named callable is missing from the registry
	ErrFunctionNotRegistered = errors.New("session.function_not_registered")

	// ErrFunctionAlreadyRegistered indicates a duplicate registry name
	ErrFunctionAlreadyRegistered = errors.New("session.function_already_registered")

	// ErrInvalidConfig indicates raw configuration that cannot be decoded
	ErrInvalidConfig = errors.New("session.invalid_config")
)
