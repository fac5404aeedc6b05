package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"codeberg.org/devconnector/server/internal/apiclient"
	"codeberg.org/devconnector/server/internal/config"
	"codeberg.org/devconnector/server/internal/logger"
	"codeberg.org/devconnector/server/internal/session"
	"codeberg.org/devconnector/server/internal/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// runs the client and returns the process exit code, so deferred cleanup always happens
func run(args []string) int {
	flags, err := config.ParseClientFlags(args)
	if err != nil {
		return 2
	}

	if !term.IsTerminal(os.Stdout.Fd()) {
		fmt.Fprintln(os.Stderr, "devconnector needs an interactive terminal")
		return 1
	}

	// the terminal belongs to the UI; logs go to a file or nowhere
	if flags.Debug {
		f, err := tea.LogToFile("devconnector.log", "devconnector")
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
			return 1
		}
		defer f.Close() //nolint:errcheck

		logger.SetDefault(logger.New("development", f))
	} else {
		logger.SetDefault(logger.New("production", io.Discard))
	}

	storage, err := session.OpenSQLite(flags.SessionPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open session store: %v\n", err)
		return 1
	}

	defer func() {
		if err := storage.Close(); err != nil {
			logger.ErrorErr(err, "failed to close session store")
		}
	}()

	sess := session.New(storage)
	if err := sess.Init(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load session: %v\n", err)
		return 1
	}

	logger.Info("client started",
		"api", flags.APIEndpoint,
		"session", flags.SessionPath,
		"authenticated", sess.Authenticated(),
	)

	api := apiclient.New(flags.APIEndpoint, sess.Client(nil))
	app := tui.NewApp(sess, api)

	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error running devconnector: %v\n", err)
		return 1
	}

	return 0
}
