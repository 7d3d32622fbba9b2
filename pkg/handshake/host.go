package handshake

import (
	"context"
	"fmt"

	"github.com/dmitrymomot/clientsession/pkg/session"
)

// Kind is the action a handshake completes.
type Kind string

const (
	KindLogin   Kind = "login"
	KindSignup  Kind = "signup"
	KindProfile Kind = "profile"
)

// SuccessType is the message type that completes a handshake of this kind.
func (k Kind) SuccessType() string { return string(k) + "Success" }

func (k Kind) defaultURL() string { return "/" + string(k) + ".html" }

func (k Kind) windowName() string {
	switch k {
	case KindLogin:
		return "LoginPopup"
	case KindSignup:
		return "SignupPopup"
	case KindProfile:
		return "ProfilePopup"
	default:
		return string(k) + "Popup"
	}
}

// Features is the size and position of a popup window.
type Features struct {
	Width  int
	Height int
	Left   int
	Top    int
}

// String renders the features in window.open form.
func (f Features) String() string {
	return fmt.Sprintf("width=%d,height=%d,top=%d,left=%d", f.Width, f.Height, f.Top, f.Left)
}

func centered(width, height, screenW, screenH int) Features {
	return Features{
		Width:  width,
		Height: height,
		Left:   screenW/2 - width/2,
		Top:    screenH/2 - height/2,
	}
}

// Message is a cross-window message delivered by the host.
type Message struct {
	Type string
	User session.User
}

// Window is a secondary window opened by the host.
type Window interface {
	Closed() bool
	Close() error
}

// Host is the windowing environment. Listen callbacks may be invoked from any
// goroutine and must not be blocked on.
type Host interface {
	// Open opens a secondary window. A nil window with a nil error means the
	// popup was blocked.
	Open(ctx context.Context, url, name string, f Features) (Window, error)
	// Listen registers fn for every message and returns a function removing it.
	Listen(fn func(Message)) (remove func())
	// Screen returns the screen size used to center popups.
	Screen() (width, height int)
}
