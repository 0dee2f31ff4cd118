package config

import (
	"log"
	"os"
	"path/filepath"
)

// Initialize seeds path with the default configuration and the directories
// the shell expects. Existing files are left alone so re-running init is
// safe.
func Initialize(path string, logger *log.Logger) (*Configuration, error) {
	configPath := filepath.Join(path, ConfigurationName)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		logger.Printf("Writing %s", configPath)
		if err := os.WriteFile(configPath, defaultConfigData, 0644); err != nil {
			return nil, err
		}
	} else {
		logger.Printf("Keeping existing %s", configPath)
	}

	logsDir := filepath.Join(path, LogsDirName)
	logger.Printf("Creating %s", logsDir)
	if err := os.MkdirAll(logsDir, 0700); err != nil {
		return nil, err
	}

	historyPath := filepath.Join(path, HistoryName)
	if _, err := os.Stat(historyPath); os.IsNotExist(err) {
		logger.Printf("Creating %s", historyPath)
		fd, err := os.OpenFile(historyPath, os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			return nil, err
		}
		fd.Close()
	}

	return Load(path)
}
