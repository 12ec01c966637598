package commands

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCommandStatusStopped(t *testing.T) {
	text := CommandStatus(false, 30*time.Second)
	assert.Contains(t, text, "stopped")
	assert.Contains(t, text, "30s")
	assert.Contains(t, text, "/start")
}

func TestCommandStatusRunning(t *testing.T) {
	text := CommandStatus(true, 2*time.Minute)
	assert.Contains(t, text, "running")
	assert.Contains(t, text, "2m")
}

func TestCommandHelpListsCommands(t *testing.T) {
	text := CommandHelp()
	for _, cmd := range []string{"/start", "/stop", "/price", "/setinterval", "/status", "/help"} {
		assert.Contains(t, text, cmd)
	}
}
