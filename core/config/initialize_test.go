package config

import (
	"io/ioutil"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitialize(t *testing.T) {
	tempDir := t.TempDir()
	discard := log.New(ioutil.Discard, "", 0)
	if _, err := Initialize(tempDir, discard); err != nil {
		t.Fatal(err)
	}

	// Check that the config is valid
	cfg, err := Load(tempDir)
	if err != nil {
		t.Fatal(err)
	}
	assert.Nil(t, cfg.Validate())

	t.Run("CreateSessionLog", func(t *testing.T) {
		fd, err := cfg.CreateSessionLog("session.log")
		assert.Nil(t, err)
		fd.Close()

		names, err := cfg.ListSessionLogs()
		assert.Nil(t, err)
		assert.Contains(t, names, "session.log")
	})

	t.Run("HistoryFilePath", func(t *testing.T) {
		assert.FileExists(t, cfg.HistoryFilePath())
	})

	t.Run("Rerun", func(t *testing.T) {
		// init must be safe to run twice.
		_, err := Initialize(tempDir, discard)
		assert.Nil(t, err)
	})
}
