package shell

type tokenKind int

const (
	tokenWord tokenKind = iota
	tokenPipe
)

type token struct {
	kind tokenKind
	text string
}

// tokenize splits line into word and pipe tokens in a single left-to-right
// scan. A `|` is an operator only when it appears outside quotes with no
// escape pending; anywhere else it belongs to the current word. Backslash
// escapes the next character everywhere except inside single quotes, where
// nothing is special.
func tokenize(line string) ([]token, error) {
	var (
		tokens   []token
		word     []rune
		haveWord bool
		inSingle bool
		inDouble bool
		escaped  bool
	)

	flush := func() {
		if haveWord {
			tokens = append(tokens, token{kind: tokenWord, text: string(word)})
			word = word[:0]
			haveWord = false
		}
	}

	for _, r := range line {
		switch {
		case escaped:
			word = append(word, r)
			haveWord = true
			escaped = false

		case inSingle:
			if r == '\'' {
				inSingle = false
			} else {
				word = append(word, r)
			}

		case r == '\\':
			escaped = true

		case inDouble:
			if r == '"' {
				inDouble = false
			} else {
				word = append(word, r)
			}

		case r == '\'':
			inSingle = true
			haveWord = true

		case r == '"':
			inDouble = true
			haveWord = true

		case r == '|':
			flush()
			tokens = append(tokens, token{kind: tokenPipe, text: "|"})

		case r == ' ' || r == '\t' || r == '\r' || r == '\n':
			flush()

		default:
			word = append(word, r)
			haveWord = true
		}
	}

	if inSingle || inDouble {
		return nil, ErrUnterminatedQuote
	}
	if escaped {
		// No continuation lines here; a dangling escape stays literal.
		word = append(word, '\\')
		haveWord = true
	}
	flush()

	return tokens, nil
}
