package shell

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  []Segment
	}{
		{
			name:  "single command",
			input: "ls",
			want:  []Segment{{Program: "ls", Index: 0}},
		},
		{
			name:  "command with args",
			input: "grep -v foo bar.txt",
			want:  []Segment{{Program: "grep", Args: []string{"-v", "foo", "bar.txt"}, Index: 0}},
		},
		{
			name:  "two stage",
			input: "ls | wc -l",
			want: []Segment{
				{Program: "ls", Index: 0},
				{Program: "wc", Args: []string{"-l"}, Index: 1},
			},
		},
		{
			name:  "no spaces around pipe",
			input: "a|b|c",
			want: []Segment{
				{Program: "a", Index: 0},
				{Program: "b", Index: 1},
				{Program: "c", Index: 2},
			},
		},
		{
			name:  "double quoted pipe is literal",
			input: `echo "a | b"`,
			want:  []Segment{{Program: "echo", Args: []string{"a | b"}, Index: 0}},
		},
		{
			name:  "single quoted pipe is literal",
			input: `echo 'a | b'`,
			want:  []Segment{{Program: "echo", Args: []string{"a | b"}, Index: 0}},
		},
		{
			name:  "escaped pipe is literal",
			input: `echo a \| b`,
			want:  []Segment{{Program: "echo", Args: []string{"a", "|", "b"}, Index: 0}},
		},
		{
			name:  "escaped space joins words",
			input: `touch a\ b`,
			want:  []Segment{{Program: "touch", Args: []string{"a b"}, Index: 0}},
		},
		{
			name:  "adjacent quotes join",
			input: `echo a""b`,
			want:  []Segment{{Program: "echo", Args: []string{"ab"}, Index: 0}},
		},
		{
			name:  "empty quoted argument",
			input: `echo ""`,
			want:  []Segment{{Program: "echo", Args: []string{""}, Index: 0}},
		},
		{
			name:  "single quotes keep backslash",
			input: `echo '\n'`,
			want:  []Segment{{Program: "echo", Args: []string{`\n`}, Index: 0}},
		},
		{
			name:  "escaped quote inside double quotes",
			input: `echo "say \"hi\""`,
			want:  []Segment{{Program: "echo", Args: []string{`say "hi"`}, Index: 0}},
		},
		{
			name:  "trailing backslash stays literal",
			input: `echo a\`,
			want:  []Segment{{Program: "echo", Args: []string{`a\`}, Index: 0}},
		},
		{
			name:  "surrounding whitespace",
			input: "  ls   \t -l  ",
			want:  []Segment{{Program: "ls", Args: []string{"-l"}, Index: 0}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.input)
			require.NoError(t, err)
			require.Equal(t, len(tc.want), got.Len())

			for i, want := range tc.want {
				seg := got.Segments[i]
				assert.Equal(t, want.Program, seg.Program)
				assert.Equal(t, want.Args, seg.Args)
				assert.Equal(t, want.Index, seg.Index)
			}
			assert.Equal(t, tc.input, got.Raw)
			assert.NoError(t, got.Validate())
		})
	}
}

func TestParseEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\t \t"} {
		p, err := Parse(input)
		require.NoError(t, err, "input %q", input)
		assert.True(t, p.Empty())
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  error
	}{
		{"leading pipe", "| grep x", ErrEmptyCommandBeforePipe},
		{"double pipe", "ls | | grep x", ErrEmptyCommandBeforePipe},
		{"only pipe", "|", ErrEmptyCommandBeforePipe},
		{"trailing pipe", "ls |", ErrEmptyCommandAfterPipe},
		{"trailing pipe with space", "ls | ", ErrEmptyCommandAfterPipe},
		{"unterminated double quote", `echo "a`, ErrUnterminatedQuote},
		{"unterminated single quote", "echo 'a", ErrUnterminatedQuote},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := Parse(tc.input)
			assert.Nil(t, p)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)

			// The offending input must be preserved for display.
			var syntaxErr *SyntaxError
			require.True(t, errors.As(err, &syntaxErr))
			assert.Equal(t, tc.input, syntaxErr.Input)
		})
	}
}

func TestParseIdempotent(t *testing.T) {
	inputs := []string{
		"ls",
		"cat access.log | grep GET | wc -l",
		`echo "a | b" | tee 'out file'`,
	}

	for _, input := range inputs {
		first, err := Parse(input)
		require.NoError(t, err)
		second, err := Parse(input)
		require.NoError(t, err)

		assert.Equal(t, first, second, "input %q", input)
	}
}

func TestParseGolden(t *testing.T) {
	corpus := []struct {
		name  string
		input string
	}{
		{"simple", "ls"},
		{"args", "ls -l /tmp"},
		{"two_stage", "ls | wc -l"},
		{"three_stage", "cat access.log | grep GET | wc -l"},
		{"quoted_pipe", `echo "a | b"`},
		{"single_quotes", `grep 'foo bar' file.txt`},
		{"escaped_pipe", `echo a \| b`},
		{"tight_pipes", "a|b|c"},
		{"mixed_quotes", `awk '{print $1}' | sort -u`},
	}

	g := goldie.New(
		t,
		goldie.WithFixtureDir(filepath.Join("testdata", "golden")),
		goldie.WithDiffEngine(goldie.ColoredDiff),
	)

	for _, tc := range corpus {
		t.Run(tc.name, func(t *testing.T) {
			p, err := Parse(tc.input)
			require.NoError(t, err)

			g.Assert(t, tc.name, []byte(dumpPipeline(p)))
		})
	}
}

// dumpPipeline renders a pipeline in a stable text form for golden files.
func dumpPipeline(p *Pipeline) string {
	var b strings.Builder
	fmt.Fprintf(&b, "raw: %q\n", p.Raw)
	for _, seg := range p.Segments {
		fmt.Fprintf(&b, "%d: program=%q args=%q\n", seg.Index, seg.Program, seg.Args)
	}
	return b.String()
}
