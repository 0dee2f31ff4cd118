package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte
)

const (
	ConfigurationName = "config.yaml"
	LogsDirName       = "session_logs"
	HistoryName       = "history"
)

type Configuration struct {
	configDir string
	configFs  afero.Fs

	// Prompt uses PS1 style escapes: \u user, \h host, \w working dir,
	// \$ # for root and $ otherwise.
	Prompt string `json:"prompt" validate:"required"`

	// LogSessions controls the JSON lines session log.
	LogSessions bool `json:"log_sessions"`

	// Env seeds the shell environment at startup.
	Env map[string]string `json:"env"`

	// Aliases maps a command name to its replacement text. Expansion is a
	// single level, applied to the program word of each pipeline segment.
	Aliases map[string]string `json:"aliases"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

func (c *Configuration) fs() afero.Fs {
	return c.configFs
}

// CreateSessionLog opens a session log with the given name for appending,
// creating it if needed.
func (c *Configuration) CreateSessionLog(name string) (afero.File, error) {
	toCreate := filepath.Join(LogsDirName, name)
	return c.fs().OpenFile(toCreate, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

// OpenSessionLog opens an existing session log for reading.
func (c *Configuration) OpenSessionLog(name string) (afero.File, error) {
	return c.fs().Open(filepath.Join(LogsDirName, name))
}

// ListSessionLogs returns the names of recorded session logs.
func (c *Configuration) ListSessionLogs() ([]string, error) {
	infos, err := afero.ReadDir(c.fs(), LogsDirName)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, info := range infos {
		if !info.IsDir() {
			names = append(names, info.Name())
		}
	}
	return names, nil
}

// HistoryFilePath returns the OS path of the readline history file.
func (c *Configuration) HistoryFilePath() string {
	return filepath.Join(c.configDir, HistoryName)
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		// The default config is compiled in; failing to parse it is a bug.
		panic(err)
	}
	return &out
}
