package tui

import (
	"context"
	"errors"
	"fmt"

	"codeberg.org/devconnector/server/internal/apiclient"
	"codeberg.org/devconnector/server/internal/logger"
	"codeberg.org/devconnector/server/internal/session"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

const noticeSessionEnded = "Your session has ended, please log in again"

// builds the app around an initialised session
func NewApp(sess *session.Session, api API) *Model {
	m := &Model{
		session:  sess,
		api:      api,
		login:    newLoginForm(),
		register: newRegisterForm(),
		profile:  &profileCache{},
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(noticeStyle)),
	}

	// logout, expiry and server rejection all drop the cached profile view
	sess.OnClear(m.profile.Clear)

	m.view = resolve(ViewLanding, sess.Authenticated())

	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.enter())
}

// current view, after guards
func (m *Model) View() string {
	switch m.view {
	case ViewLanding:
		return m.landingView()
	case ViewLogin:
		return m.formView(m.login, "enter to log in • tab to switch field • esc back • ctrl+r sign up")
	case ViewRegister:
		return m.formView(m.register, "enter to sign up • tab to switch field • esc back • ctrl+l log in")
	case ViewDashboard:
		return m.dashboardView()
	default:
		return "Unknown view"
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)

	// the session can be cleared by any request; re-check the guard after every message
	if target := resolve(m.view, m.session.Authenticated()); target != m.view {
		if m.view == ViewDashboard {
			m.notice = noticeSessionEnded
		}

		cmd = tea.Batch(cmd, m.show(target))
	}

	return m, cmd
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return tea.Quit
		}

		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		return nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return cmd

	case navigateMsg:
		return m.show(msg.to)

	case loginSucceededMsg:
		m.login.Reset()
		m.notice = ""

		return m.show(ViewDashboard)

	case loginFailedMsg:
		setFormError(m.login, msg.err)
		return nil

	case registeredMsg:
		logger.Info("account registered", "user_id", msg.account.ID)

		m.register.Reset()
		m.login.SetValue("email", msg.account.Email)
		m.notice = "Account created, please log in"

		return m.show(ViewLogin)

	case registerFailedMsg:
		setFormError(m.register, msg.err)
		return nil

	case currentUserMsg:
		m.loading = false

		// a late response after logout must not repopulate the cache
		if m.session.Authenticated() {
			m.profile.Set(msg.user)
		}

		return nil

	case currentUserFailedMsg:
		m.loading = false
		m.err = msg.err

		return nil
	}

	return m.forwardToForm(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch m.view {
	case ViewLanding:
		switch msg.String() {
		case "l":
			return navigate(ViewLogin)
		case "r":
			return navigate(ViewRegister)
		case "q", "esc":
			return tea.Quit
		}

		return nil

	case ViewLogin:
		switch msg.String() {
		case "enter":
			return m.submitLogin()
		case "esc":
			return navigate(ViewLanding)
		case "ctrl+r":
			return navigate(ViewRegister)
		}

	case ViewRegister:
		switch msg.String() {
		case "enter":
			return m.submitRegister()
		case "esc":
			return navigate(ViewLanding)
		case "ctrl+l":
			return navigate(ViewLogin)
		}

	case ViewDashboard:
		switch msg.String() {
		case "r":
			m.profile.Clear()
			return m.show(ViewDashboard)
		case "o":
			return m.logout()
		case "q", "esc":
			return tea.Quit
		}

		return nil
	}

	return m.forwardToForm(msg)
}

func (m *Model) forwardToForm(msg tea.Msg) tea.Cmd {
	switch m.view {
	case ViewLogin:
		return m.login.Update(msg)
	case ViewRegister:
		return m.register.Update(msg)
	default:
		return nil
	}
}

// switches to target after applying the route guard and runs its entry command
func (m *Model) show(target View) tea.Cmd {
	m.view = resolve(target, m.session.Authenticated())
	m.err = nil

	return m.enter()
}

func (m *Model) enter() tea.Cmd {
	switch m.view {
	case ViewLogin:
		return m.login.Focus()
	case ViewRegister:
		return m.register.Focus()
	case ViewDashboard:
		if m.profile.Get() != nil || m.loading {
			return nil
		}

		m.loading = true

		return m.loadCurrentCmd()
	default:
		return nil
	}
}

func (m *Model) submitLogin() tea.Cmd {
	if m.login.submitting {
		return nil
	}

	m.login.submitting = true
	m.notice = ""

	return m.loginCmd(m.login.Value("email"), m.login.Value("password"))
}

func (m *Model) submitRegister() tea.Cmd {
	if m.register.submitting {
		return nil
	}

	m.register.submitting = true

	return m.registerCmd(apiclient.RegisterRequest{
		Name:      m.register.Value("name"),
		Email:     m.register.Value("email"),
		Password:  m.register.Value("password"),
		Password2: m.register.Value("password2"),
	})
}

func (m *Model) logout() tea.Cmd {
	if err := m.session.Logout(context.Background()); err != nil {
		logger.ErrorErr(err, "failed to clear session on logout")
		m.err = fmt.Errorf("logout failed: %w", err)

		return nil
	}

	m.notice = "You have been logged out"

	return m.show(ViewLogin)
}

// routes an API error into the form: field messages next to inputs, anything else below them
func setFormError(f *Form, err error) {
	var fieldErr *apiclient.FieldError
	if errors.As(err, &fieldErr) {
		f.SetErrors(fieldErr.Fields)
		return
	}

	f.SetGeneralError(err.Error())
}
