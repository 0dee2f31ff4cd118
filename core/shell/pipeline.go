package shell

import (
	"fmt"
	"strings"
)

// Pipeline is the parsed form of one command line: an ordered chain of
// segments where each segment's standard output feeds the next segment's
// standard input. A Pipeline is built once by Parse, never mutated, and
// consumed by a single execution.
type Pipeline struct {
	// Raw is the original input line, retained for diagnostics.
	Raw string

	// Segments are kept in execution order; Segments[i].Index == i.
	Segments []Segment
}

// Segment is one command within a pipeline.
type Segment struct {
	// Program is the executable to run. Never empty in a valid pipeline.
	Program string

	// Args are the arguments in their original order, excluding Program.
	Args []string

	// Index is the zero-based position within the owning pipeline.
	Index int
}

// Len returns the number of segments.
func (p *Pipeline) Len() int {
	return len(p.Segments)
}

// Empty reports whether the line held no command at all, e.g. a blank line.
func (p *Pipeline) Empty() bool {
	return len(p.Segments) == 0
}

// Programs returns the program name of every segment in order.
func (p *Pipeline) Programs() []string {
	out := make([]string, 0, len(p.Segments))
	for _, seg := range p.Segments {
		out = append(out, seg.Program)
	}
	return out
}

// Validate checks structural invariants independently of how the Pipeline
// was built. Parse never produces an invalid Pipeline; programmatic
// construction can.
func (p *Pipeline) Validate() error {
	if len(p.Segments) == 0 {
		return ErrEmptyPipeline
	}
	for i, seg := range p.Segments {
		if seg.Program == "" {
			return fmt.Errorf("segment %d: %w", i, ErrEmptyProgram)
		}
		if seg.Index != i {
			return fmt.Errorf("segment %d: has index %d", i, seg.Index)
		}
	}
	return nil
}

// Argv returns the program and arguments as one slice, the way exec wants
// them.
func (s Segment) Argv() []string {
	return append([]string{s.Program}, s.Args...)
}

// IsFirst reports whether the segment reads the shell's own standard input.
func (s Segment) IsFirst() bool {
	return s.Index == 0
}

// IsLast reports whether the segment writes the shell's own standard output,
// given the owning pipeline's length.
func (s Segment) IsLast(pipelineLen int) bool {
	return s.Index == pipelineLen-1
}

func (s Segment) String() string {
	return strings.Join(s.Argv(), " ")
}
