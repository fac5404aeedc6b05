package tui

import (
	"context"
	"time"

	"codeberg.org/devconnector/server/internal/apiclient"
	"codeberg.org/devconnector/server/internal/session"
	"github.com/charmbracelet/bubbles/spinner"
)

// a screen the client can show
type View int

const (
	ViewLanding View = iota
	ViewLogin
	ViewRegister
	ViewDashboard
)

func (v View) String() string {
	switch v {
	case ViewLanding:
		return "landing"
	case ViewLogin:
		return "login"
	case ViewRegister:
		return "register"
	case ViewDashboard:
		return "dashboard"
	default:
		return "unknown"
	}
}

// the users API as seen by the views
type API interface {
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, req apiclient.RegisterRequest) (*apiclient.Account, error)
	Current(ctx context.Context) (*apiclient.CurrentUser, error)
}

// main TUI application model
type Model struct {
	session *session.Session
	api     API

	view    View
	width   int
	height  int
	notice  string
	err     error
	loading bool

	login    *Form
	register *Form
	profile  *profileCache
	spinner  spinner.Model
}

// sent when a view asks to move to another one
type navigateMsg struct {
	to View
}

// sent once the credential is stored and the session is authenticated
type loginSucceededMsg struct{}

type loginFailedMsg struct {
	err error
}

type registeredMsg struct {
	account *apiclient.Account
}

type registerFailedMsg struct {
	err error
}

type currentUserMsg struct {
	user *apiclient.CurrentUser
}

type currentUserFailedMsg struct {
	err error
}

// timeout for a single API call made by a view
const requestTimeout = 15 * time.Second
