package handshake

import "errors"

var (
	// ErrPopupBlocked indicates the secondary window could not be opened
	ErrPopupBlocked = errors.New("handshake.popup_blocked")

	// ErrCancelled indicates the window was closed before success, or the attempt was cancelled
	ErrCancelled = errors.New("handshake.cancelled")

	// ErrPreempted indicates a newer attempt of the same kind replaced this one
	ErrPreempted = errors.New("handshake.preempted")

	// ErrNoController indicates Start was called without a session controller
	ErrNoController = errors.New("handshake.no_controller")
)
