package shell

// Parse turns one raw command line into a Pipeline, or fails with a
// *SyntaxError before any process is spawned. It is a pure function: safe to
// call repeatedly and concurrently, no side effects.
//
// An empty or all-whitespace line parses to an empty Pipeline; deciding what
// "no command" means is the caller's job.
func Parse(raw string) (*Pipeline, error) {
	tokens, err := tokenize(raw)
	if err != nil {
		return nil, &SyntaxError{Input: raw, Err: err}
	}

	var (
		segments []Segment
		words    []string
	)

	endSegment := func() {
		var args []string
		if len(words) > 1 {
			args = words[1:]
		}
		segments = append(segments, Segment{
			Program: words[0],
			Args:    args,
			Index:   len(segments),
		})
		words = nil
	}

	sawPipe := false
	for _, tok := range tokens {
		switch tok.kind {
		case tokenWord:
			words = append(words, tok.text)
		case tokenPipe:
			if len(words) == 0 {
				return nil, &SyntaxError{Input: raw, Err: ErrEmptyCommandBeforePipe}
			}
			endSegment()
			sawPipe = true
		}
	}

	switch {
	case len(words) > 0:
		endSegment()
	case sawPipe:
		return nil, &SyntaxError{Input: raw, Err: ErrEmptyCommandAfterPipe}
	}

	return &Pipeline{Raw: raw, Segments: segments}, nil
}
