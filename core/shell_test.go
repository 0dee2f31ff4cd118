package core

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plumsh/plumsh/core/config"
	"github.com/plumsh/plumsh/core/shell"
)

func testShell(cfg *config.Configuration) *Shell {
	return &Shell{
		Config: cfg,
		Env:    NewMapEnv(),
	}
}

func TestPrompt(t *testing.T) {
	sh := testShell(&config.Configuration{})

	wd, err := os.Getwd()
	require.NoError(t, err)

	sh.Env.Setenv(EnvPrompt, DefaultPrompt)
	sh.Env.Setenv(EnvUser, "ada")
	sh.Env.Setenv(EnvHostname, "lovelace")
	sh.Env.Setenv(EnvHome, wd)

	marker := "$"
	if os.Getuid() == 0 {
		marker = "#"
	}

	assert.Equal(t, fmt.Sprintf("ada@lovelace:~%s ", marker), sh.Prompt())
}

func TestPromptOutsideHome(t *testing.T) {
	sh := testShell(&config.Configuration{})

	wd, err := os.Getwd()
	require.NoError(t, err)

	sh.Env.Setenv(EnvPrompt, `\w>`)
	sh.Env.Setenv(EnvHome, "/nonexistent-home")

	assert.Equal(t, wd+">", sh.Prompt())
}

func TestExpandAliases(t *testing.T) {
	sh := testShell(&config.Configuration{
		Aliases: map[string]string{
			"ll":      "ls -la",
			"grepped": "grep --color=never",
		},
	})

	p, err := shell.Parse("ll /tmp | grepped foo")
	require.NoError(t, err)

	got := sh.expand(p)
	require.Equal(t, 2, got.Len())

	assert.Equal(t, "ls", got.Segments[0].Program)
	assert.Equal(t, []string{"-la", "/tmp"}, got.Segments[0].Args)
	assert.Equal(t, 0, got.Segments[0].Index)

	assert.Equal(t, "grep", got.Segments[1].Program)
	assert.Equal(t, []string{"--color=never", "foo"}, got.Segments[1].Args)
	assert.Equal(t, 1, got.Segments[1].Index)

	// The original pipeline is left untouched.
	assert.Equal(t, "ll", p.Segments[0].Program)
}

func TestExpandEnvInSegments(t *testing.T) {
	sh := testShell(&config.Configuration{})
	sh.Env.Setenv("TARGET", "/tmp")

	p, err := shell.Parse("ls $TARGET | grep $TARGET")
	require.NoError(t, err)

	got := sh.expand(p)
	assert.Equal(t, []string{"/tmp"}, got.Segments[0].Args)
	assert.Equal(t, []string{"/tmp"}, got.Segments[1].Args)
}

func TestExpandKeepsValidPipelines(t *testing.T) {
	sh := testShell(&config.Configuration{
		Aliases: map[string]string{"ll": "ls -la"},
	})

	p, err := shell.Parse("ll | wc -l")
	require.NoError(t, err)

	got := sh.expand(p)
	assert.NoError(t, got.Validate())
	assert.Equal(t, p.Raw, got.Raw)
}

func TestInitSeedsEnvironment(t *testing.T) {
	sh := testShell(&config.Configuration{
		Prompt: `\$`,
		Env:    map[string]string{"PATH": "/bin", "EDITOR": "vi"},
	})

	sh.Init("ada")

	assert.Equal(t, "/bin", sh.Env.Getenv(EnvPath))
	assert.Equal(t, "vi", sh.Env.Getenv("EDITOR"))
	assert.Equal(t, "ada", sh.Env.Getenv(EnvUser))
	assert.Equal(t, `\$`, sh.Env.Getenv(EnvPrompt))
	assert.Equal(t, fmt.Sprintf("%d", os.Getuid()), sh.Env.Getenv(EnvUID))
	assert.NotEmpty(t, sh.Env.Getenv(EnvPWD))
}
