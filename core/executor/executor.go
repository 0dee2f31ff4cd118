// Package executor runs parsed pipelines as concurrently executing OS
// processes connected by kernel pipes.
//
// The executor never touches pipeline payload bytes: data moves between
// sibling processes entirely inside the kernel, and backpressure is the pipe
// buffer's. The engine's own control flow blocks only on spawn and wait.
package executor

import (
	"io"
	"os"
	"os/exec"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/plumsh/plumsh/core/shell"
)

// Executor runs validated pipelines. The zero value is usable: stdio
// defaults to the calling process's own streams and the environment to
// os.Environ(). An Executor may be reused but runs one pipeline at a time.
type Executor struct {
	// Stdin, Stdout and Stderr are inherited by the boundary segments.
	// Stderr is inherited by every segment; error text is never piped.
	// When a stream is an *os.File the child receives the descriptor
	// directly with no copying in this process.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Env is the environment for every segment. Nil means os.Environ().
	Env []string

	// Dir is the working directory for every segment. Empty means inherit.
	Dir string

	mu   sync.Mutex
	pgid int
}

// Execute runs p and returns the exit status of its last segment, following
// the POSIX convention that earlier segments' statuses are discarded. A
// non-zero status is ordinary data, not an error; errors are reserved for
// pipelines that could not be run at all.
func (e *Executor) Execute(p *shell.Pipeline) (int, error) {
	if err := p.Validate(); err != nil {
		return -1, err
	}

	if p.Len() == 1 {
		return e.executeSingle(p.Segments[0])
	}
	return e.executePiped(p.Segments)
}

// Interrupt delivers SIGINT to the running pipeline's process group in one
// operation, so no member keeps running after the user stops the pipeline.
// No-op when nothing is running; the normal wait loop still reaps every
// member afterwards.
func (e *Executor) Interrupt() {
	e.Signal(unix.SIGINT)
}

// Signal delivers sig to the running pipeline's process group.
func (e *Executor) Signal(sig unix.Signal) {
	e.mu.Lock()
	pgid := e.pgid
	e.mu.Unlock()

	if pgid > 0 {
		_ = unix.Kill(-pgid, sig)
	}
}

// executeSingle is the no-pipe fast path: one process with stdin, stdout and
// stderr all inherited, no pipe machinery at all.
func (e *Executor) executeSingle(seg shell.Segment) (int, error) {
	cmd := e.command(seg, 0)
	cmd.Stdin = e.stdin()
	cmd.Stdout = e.stdout()
	cmd.Stderr = e.stderr()

	if err := cmd.Start(); err != nil {
		return -1, &SpawnError{Index: seg.Index, Program: seg.Program, Err: err}
	}

	e.setGroup(cmd.Process.Pid)
	defer e.setGroup(0)

	return waitStatus(cmd)
}

// executePiped spawns one process per segment, wiring adjacent processes
// together with kernel pipes. Every segment is spawned before any is waited
// on: waiting early would deadlock as soon as a producer fills the pipe
// buffer before its consumer exists.
func (e *Executor) executePiped(segments []shell.Segment) (int, error) {
	n := len(segments)
	cmds := make([]*exec.Cmd, 0, n)

	var prevRead *os.File
	pgid := 0

	for _, seg := range segments {
		cmd := e.command(seg, pgid)

		if seg.IsFirst() {
			cmd.Stdin = e.stdin()
		} else {
			cmd.Stdin = prevRead
		}

		var nextRead, write *os.File
		if seg.IsLast(n) {
			cmd.Stdout = e.stdout()
		} else {
			var err error
			nextRead, write, err = os.Pipe()
			if err != nil {
				if prevRead != nil {
					prevRead.Close()
				}
				reap(cmds)
				return -1, &SpawnError{Index: seg.Index, Program: seg.Program, Err: err}
			}
			cmd.Stdout = write
		}

		cmd.Stderr = e.stderr()

		err := cmd.Start()

		// Release this process's copies of both ends now owned by
		// children. A retained write end would stop the downstream reader
		// from ever seeing end-of-input.
		if write != nil {
			write.Close()
		}
		if prevRead != nil {
			prevRead.Close()
		}

		if err != nil {
			if nextRead != nil {
				nextRead.Close()
			}
			reap(cmds)
			return -1, &SpawnError{Index: seg.Index, Program: seg.Program, Err: err}
		}

		if seg.IsFirst() {
			// The first child leads the group; later children join it.
			pgid = cmd.Process.Pid
			e.setGroup(pgid)
		}

		prevRead = nextRead
		cmds = append(cmds, cmd)
	}
	defer e.setGroup(0)

	// Reap in spawn order. The order is bookkeeping only: children run
	// concurrently and each Wait blocks until its own child exits.
	status := 0
	var waitErr error
	for _, cmd := range cmds {
		st, err := waitStatus(cmd)
		if err != nil && waitErr == nil {
			waitErr = err
		}
		status = st
	}
	if waitErr != nil {
		return -1, waitErr
	}
	return status, nil
}

func (e *Executor) command(seg shell.Segment, pgid int) *exec.Cmd {
	cmd := exec.Command(seg.Program, seg.Args...)
	cmd.Env = e.environ()
	cmd.Dir = e.Dir
	// All segments share one process group distinct from the shell's own,
	// so a single signal reaches the whole pipeline.
	cmd.SysProcAttr = &unix.SysProcAttr{Setpgid: true, Pgid: pgid}
	return cmd
}

// reap waits on every started sibling after a spawn failure so the error
// never leaks process-table entries.
func reap(cmds []*exec.Cmd) {
	for _, cmd := range cmds {
		_ = cmd.Wait()
	}
}

func (e *Executor) setGroup(pgid int) {
	e.mu.Lock()
	e.pgid = pgid
	e.mu.Unlock()
}

func (e *Executor) stdin() io.Reader {
	if e.Stdin != nil {
		return e.Stdin
	}
	return os.Stdin
}

func (e *Executor) stdout() io.Writer {
	if e.Stdout != nil {
		return e.Stdout
	}
	return os.Stdout
}

func (e *Executor) stderr() io.Writer {
	if e.Stderr != nil {
		return e.Stderr
	}
	return os.Stderr
}

func (e *Executor) environ() []string {
	if e.Env != nil {
		return e.Env
	}
	return os.Environ()
}
