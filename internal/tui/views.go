package tui

import (
	"fmt"
	"strings"
)

type command struct {
	key         string
	description string
}

var landingCommands = []command{
	{key: "l", description: "log in"},
	{key: "r", description: "sign up"},
	{key: "q", description: "quit"},
}

var dashboardCommands = []command{
	{key: "r", description: "refresh"},
	{key: "o", description: "log out"},
	{key: "q", description: "quit"},
}

func (m *Model) landingView() string {
	var b strings.Builder

	b.WriteString(logoStyle.Render(logo))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("create a developer profile, share posts and get help from other developers"))
	b.WriteString("\n\n")

	m.writeNotice(&b)
	writeCommands(&b, landingCommands)

	b.WriteString(helpStyle.Render("press a key. ctrl+c to quit."))

	return b.String()
}

func (m *Model) formView(f *Form, help string) string {
	var b strings.Builder

	m.writeNotice(&b)
	b.WriteString(f.View())

	if f.submitting {
		b.WriteString("\n")
		b.WriteString(m.spinner.View() + infoStyle.Render(" working..."))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(help))

	return b.String()
}

func (m *Model) dashboardView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Dashboard"))
	b.WriteString("\n")

	switch user := m.profile.Get(); {
	case m.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
	case user == nil:
		b.WriteString(m.spinner.View() + infoStyle.Render(" loading profile..."))
		b.WriteString("\n\n")
	default:
		b.WriteString(subtitleStyle.Render("Welcome " + user.Name))
		b.WriteString("\n")
		b.WriteString(infoStyle.Render(fmt.Sprintf("email: %s", user.Email)))
		b.WriteString("\n")
		b.WriteString(infoStyle.Render(fmt.Sprintf("id: %s", user.ID)))
		b.WriteString("\n\n")
	}

	if claims := m.session.State().User; claims != nil && claims.ExpiresAt != nil {
		b.WriteString(infoStyle.Render("session valid until " + claims.ExpiresAt.Local().Format("15:04:05")))
		b.WriteString("\n\n")
	}

	writeCommands(&b, dashboardCommands)

	return b.String()
}

func (m *Model) writeNotice(b *strings.Builder) {
	if m.notice == "" {
		return
	}

	b.WriteString(noticeStyle.Render(m.notice))
	b.WriteString("\n\n")
}

func writeCommands(b *strings.Builder, commands []command) {
	for _, cmd := range commands {
		fmt.Fprintf(b, "  %s %s\n",
			commandStyle.Render(cmd.key),
			commandDescStyle.Render("- "+cmd.description),
		)
	}

	b.WriteString("\n")
}
