package token

import "strings"

// String renders the stream as source text. Spacing follows a fixed set of
// rules so that output is stable: joint punctuation stays glued, commas and
// colons hug the preceding token, and macro bangs, generic brackets and call
// parentheses attach to the preceding identifier. Lexing the result yields
// an Equal stream.
func (s Stream) String() string {
	var sb strings.Builder
	s.write(&sb)

	return sb.String()
}

// String renders a single token tree.
func (t Token) String() string {
	var sb strings.Builder
	t.write(&sb)

	return sb.String()
}

func (s Stream) write(sb *strings.Builder) {
	for i, t := range s {
		if i > 0 && s.spaceBefore(i) {
			sb.WriteByte(' ')
		}
		t.write(sb)
	}
}

func (t Token) write(sb *strings.Builder) {
	if t.Kind != Group {
		sb.WriteString(t.Text)
		return
	}

	sb.WriteString(t.Delim.Open())
	t.Stream.write(sb)
	sb.WriteString(t.Delim.Close())
}

func (s Stream) spaceBefore(i int) bool {
	prev, cur := s[i-1], s[i]

	if prev.Kind == Punct {
		if prev.Spacing == Joint {
			return false
		}
		// gluing would make prev joint
		if cur.Kind == Punct && strings.Contains(punctChars, cur.Text) {
			return true
		}

		switch prev.Text {
		case "&", "#", "<", "'", "$", "!", "?", ".":
			return false
		case ":":
			// second half of "::"
			if i >= 2 && s[i-2].IsPunct(":") && s[i-2].Spacing == Joint {
				return false
			}
		case "*", "-":
			// unary position
			if i < 2 || s[i-2].Kind == Punct {
				return false
			}
		}
	}

	if cur.Kind == Punct {
		// 1 . 0 is not the float 1.0
		if prev.Kind == Literal && cur.Text == "." {
			return true
		}

		switch cur.Text {
		case ",", ";", ":", ">", ".":
			return false
		case "<", "!":
			if prev.Kind == Ident {
				return false
			}
		}
	}

	if cur.IsGroup(Paren) && (prev.Kind == Ident || prev.IsPunct(">")) {
		return false
	}

	return true
}
