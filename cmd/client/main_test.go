package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun_InvalidFlagsExitBeforeOpeningSession(t *testing.T) {
	sessionPath := filepath.Join(t.TempDir(), "session.db")

	code := run([]string{"-session", sessionPath, "-no-such-flag"})

	assert.Equal(t, 2, code)

	_, err := os.Stat(sessionPath)
	assert.True(t, os.IsNotExist(err))
}
