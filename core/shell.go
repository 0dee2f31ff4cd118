package core

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"os/exec"
	"os/user"
	"strings"
	"time"

	"github.com/abiosoft/readline"
	"github.com/anmitsu/go-shlex"
	"github.com/fatih/color"

	"github.com/plumsh/plumsh/core/config"
	"github.com/plumsh/plumsh/core/executor"
	"github.com/plumsh/plumsh/core/logger"
	"github.com/plumsh/plumsh/core/shell"
)

const (
	EnvHome     = "HOME"
	EnvPWD      = "PWD"
	EnvPath     = "PATH"
	EnvPrompt   = "PS1"
	EnvHostname = "HOSTNAME"
	EnvUser     = "USER"
	EnvUID      = "UID"

	DefaultPrompt = `\u@\h:\w\$ `
)

var errorColor = color.New(color.FgRed)

// Shell is the interactive front end: it reads lines, hands them to the
// pipeline engine, and shows the results. Pipe semantics live entirely in
// core/shell and core/executor; this layer owns only the conversation with
// the user.
type Shell struct {
	Config   *config.Configuration
	Env      *MapEnv
	Readline *readline.Instance
	Executor *executor.Executor
	Log      *logger.SessionLogger
	toClose  listCloser
}

func NewShell(configuration *config.Configuration) (*Shell, error) {
	cfg := &readline.Config{
		HistoryFile: configuration.HistoryFilePath(),
	}

	if err := cfg.Init(); err != nil {
		return nil, err
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return nil, err
	}

	sh := &Shell{
		Config:   configuration,
		Env:      NewMapEnvFromEnvList(os.Environ()),
		Readline: rl,
		Executor: &executor.Executor{},
	}
	sh.toClose = append(sh.toClose, rl)

	if configuration.LogSessions {
		logName := fmt.Sprintf("%s.log", time.Now().Format(time.RFC3339))
		logFd, err := configuration.CreateSessionLog(logName)
		if err != nil {
			sh.toClose.Close()
			return nil, err
		}
		sh.toClose = append(sh.toClose, logFd)
		sh.Log = logger.NewJSONLinesLogRecorder(logFd).NewSession()
	}

	sh.Init(currentUsername())

	return sh, nil
}

func currentUsername() string {
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return os.Getenv(EnvUser)
}

// Init sets up the environment similar to login + source ~/.bashrc.
func (s *Shell) Init(username string) {
	for k, v := range s.Config.Env {
		s.Env.Setenv(k, v)
	}

	if s.Env.Getenv(EnvHome) == "" {
		if home, err := os.UserHomeDir(); err == nil {
			s.Env.Setenv(EnvHome, home)
		}
	}

	host, _ := os.Hostname()
	s.Env.Setenv(EnvHostname, host)

	prompt := s.Config.Prompt
	if prompt == "" {
		prompt = DefaultPrompt
	}
	s.Env.Setenv(EnvPrompt, prompt)

	if wd, err := os.Getwd(); err == nil {
		s.Env.Setenv(EnvPWD, wd)
	}
	s.Env.Setenv(EnvUser, username)
	s.Env.Setenv(EnvUID, fmt.Sprintf("%d", os.Getuid()))
}

// Prompt expands the PS1 style escapes of the configured prompt.
func (s *Shell) Prompt() string {
	prompt := s.Env.Getenv(EnvPrompt)
	if prompt == "" {
		prompt = DefaultPrompt
	}
	prompt = strings.ReplaceAll(prompt, `\u`, s.Env.Getenv(EnvUser))
	prompt = strings.ReplaceAll(prompt, `\h`, s.Env.Getenv(EnvHostname))

	pwd, _ := os.Getwd()
	home := s.Env.Getenv(EnvHome)
	if home != "" && strings.HasPrefix(pwd, home) {
		pwd = "~" + strings.TrimPrefix(pwd, home)
	}

	prompt = strings.ReplaceAll(prompt, `\w`, pwd)

	if os.Getuid() == 0 {
		prompt = strings.ReplaceAll(prompt, `\$`, "#")
	} else {
		prompt = strings.ReplaceAll(prompt, `\$`, "$")
	}

	return prompt
}

// Run drives the read-parse-execute loop until EOF or exit. The return
// value is the status of the last pipeline, following login-shell
// convention.
func (s *Shell) Run() int {
	if s.Log != nil {
		s.Log.SessionStart()
		defer s.Log.SessionEnd()
	}

	lastStatus := 0
	for {
		s.Readline.SetPrompt(s.Prompt())
		line, err := s.Readline.Readline()

		switch {
		case err == io.EOF:
			return lastStatus // Input closed, quit.

		case err == readline.ErrInterrupt:
			continue

		case err != nil:
			log.Printf("Error readline: %v", err)
			continue
		}

		pipeline, err := shell.Parse(line)
		if err != nil {
			errorColor.Fprintf(s.Readline, "plumsh: %v\n", err)
			lastStatus = 2
			continue
		}
		if pipeline.Empty() {
			continue
		}

		pipeline = s.expand(pipeline)

		// exit and cd must run in the shell's own process; they are front
		// end conveniences, not part of the pipeline engine.
		if pipeline.Len() == 1 {
			switch pipeline.Segments[0].Program {
			case "exit":
				return lastStatus
			case "cd":
				lastStatus = s.builtinCd(pipeline.Segments[0].Argv())
				continue
			}
		}

		lastStatus = s.runPipeline(pipeline)
	}
}

// runPipeline executes one parsed pipeline and reports the outcome to the
// user and the session log.
func (s *Shell) runPipeline(p *shell.Pipeline) int {
	s.Executor.Env = s.Env.Environ()

	start := time.Now()
	status, err := s.Executor.Execute(p)
	elapsed := time.Since(start)

	if err != nil {
		var spawnErr *executor.SpawnError
		switch {
		case errors.As(err, &spawnErr) && errors.Is(err, exec.ErrNotFound):
			fmt.Fprintf(s.Readline, "%s: command not found\n", spawnErr.Program)
			status = 127
		case errors.As(err, &spawnErr) && errors.Is(err, fs.ErrPermission):
			fmt.Fprintf(s.Readline, "%s: permission denied\n", spawnErr.Program)
			status = 126
		default:
			errorColor.Fprintf(s.Readline, "plumsh: %v\n", err)
			status = 127
		}
	}

	if s.Log != nil {
		s.Log.Pipeline(p.Raw, p.Programs(), status, elapsed, err)
	}

	return status
}

// expand applies alias then environment expansion to every segment,
// returning a new Pipeline. Alias expansion is one level deep; bodies are
// split with POSIX word splitting.
func (s *Shell) expand(p *shell.Pipeline) *shell.Pipeline {
	out := &shell.Pipeline{Raw: p.Raw, Segments: make([]shell.Segment, 0, len(p.Segments))}

	for _, seg := range p.Segments {
		if body, ok := s.Config.Aliases[seg.Program]; ok {
			if words, err := shlex.Split(body, true); err == nil && len(words) > 0 {
				seg = shell.Segment{
					Program: words[0],
					Args:    append(words[1:], seg.Args...),
					Index:   seg.Index,
				}
			}
		}

		seg.Program = s.Env.ExpandEnv(seg.Program)
		args := make([]string, 0, len(seg.Args))
		for _, arg := range seg.Args {
			args = append(args, s.Env.ExpandEnv(arg))
		}
		seg.Args = args

		out.Segments = append(out.Segments, seg)
	}

	return out
}

func (s *Shell) builtinCd(args []string) int {
	switch len(args) {
	case 1:
		args = append(args, s.Env.Getenv(EnvHome))
		fallthrough
	case 2:
		if err := os.Chdir(args[1]); err != nil {
			fmt.Fprintf(s.Readline, "%s: %v\n", args[0], err)
			return 1
		}
		if wd, err := os.Getwd(); err == nil {
			s.Env.Setenv(EnvPWD, wd)
		}
		return 0
	default:
		fmt.Fprintf(s.Readline, "%s: too many arguments\n", args[0])
		return 1
	}
}

func (s *Shell) Close() error {
	return s.toClose.Close()
}

type listCloser []io.Closer

func (lc listCloser) Close() error {
	var lastErr error
	for _, v := range lc {
		if err := v.Close(); err != nil {
			lastErr = err
		}
	}

	return lastErr
}
