package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	colorWhite     = lipgloss.Color("#FFFFFF")
	colorLightGray = lipgloss.Color("#CCCCCC")
	colorGray      = lipgloss.Color("#888888")
	colorDarkGray  = lipgloss.Color("#444444")
	colorTeal      = lipgloss.Color("#17a2b8")
	colorRed       = lipgloss.Color("#dc3545")
)

var (
	logoStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorTeal).
			MarginTop(1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite).
			MarginTop(1).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(colorLightGray).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	labelFocusedStyle = lipgloss.NewStyle().
				Foreground(colorTeal).
				Bold(true)

	inputBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(colorDarkGray).
			Padding(0, 1).
			Width(40)

	commandStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Bold(true)

	commandDescStyle = lipgloss.NewStyle().
				Foreground(colorGray).
				PaddingLeft(1)

	infoStyle = lipgloss.NewStyle().
			Foreground(colorGray).
			Italic(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(colorTeal).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorDarkGray).
			Italic(true).
			MarginTop(1)
)

const logo = `
  ___            ___                       _
 |   \ _____ __ / __|___ _ _  _ _  ___ __| |_ ___ _ _
 | |) / -_) V /| (__/ _ \ ' \| ' \/ -_) _|  _/ _ \ '_|
 |___/\___|\_/  \___\___/_||_|_||_\___\__|\__\___/_|
`
