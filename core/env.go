package core

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// NewMapEnv creates a new empty environment backed by a map.
func NewMapEnv() *MapEnv {
	return &MapEnv{}
}

// NewMapEnvFromEnvList creates an environment from "KEY=VALUE" pairs, e.g.
// os.Environ().
func NewMapEnvFromEnvList(environ []string) *MapEnv {
	out := &MapEnv{}

	for _, e := range environ {
		split := strings.SplitN(e, "=", 2)
		key, value := split[0], ""
		if len(split) > 1 {
			value = split[1]
		}
		out.Setenv(key, value)
	}

	return out
}

// MapEnv is an in-memory environment the shell mutates as the session goes;
// children receive a snapshot via Environ.
type MapEnv struct {
	rw  sync.RWMutex
	env map[string]string
}

// Setenv sets the value of the variable named by key.
func (m *MapEnv) Setenv(key, value string) {
	m.rw.Lock()
	defer m.rw.Unlock()

	if m.env == nil {
		m.env = make(map[string]string)
	}
	m.env[key] = value
}

// Unsetenv removes the variable named by key.
func (m *MapEnv) Unsetenv(key string) {
	m.rw.Lock()
	defer m.rw.Unlock()
	if m.env != nil {
		delete(m.env, key)
	}
}

// LookupEnv fetches the value of the variable and whether it was present.
func (m *MapEnv) LookupEnv(key string) (string, bool) {
	m.rw.RLock()
	defer m.rw.RUnlock()

	val, ok := m.env[key]
	return val, ok
}

// Getenv fetches the value of the variable, or "" if unset.
func (m *MapEnv) Getenv(key string) string {
	val, _ := m.LookupEnv(key)
	return val
}

// ExpandEnv replaces ${var} or $var in s with the environment's values.
func (m *MapEnv) ExpandEnv(s string) string {
	return os.Expand(s, m.Getenv)
}

// Environ returns the environment as sorted "KEY=VALUE" pairs.
func (m *MapEnv) Environ() []string {
	m.rw.RLock()
	defer m.rw.RUnlock()

	env := make([]string, 0, len(m.env))
	for k, v := range m.env {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(env)

	return env
}
