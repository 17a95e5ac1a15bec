package surreal

import "strings"

// keyword is a clause keyword with its rank in the statement's canonical
// clause order. Ranks guard against matching keyword-shaped words inside an
// earlier clause's expression: once a clause of rank N has been seen, only
// keywords of rank >= N can start a new clause. Equal ranks may appear in
// any order relative to each other.
type keyword struct {
	word string
	rank int
}

// splitClauses splits a definition statement into its head (everything
// before the first clause keyword) and a keyword-to-value map.
//
// Keywords match only at the top level: never inside quotes, parentheses,
// brackets or braces, and only on whole-word boundaries. The value of a
// clause runs until the next matched keyword; flag keywords naturally get
// an empty value.
func splitClauses(s string, keywords []keyword) (string, map[string]string) {
	type match struct {
		word  string
		start int // index of the keyword itself
		end   int // index just past the keyword
	}
	var matches []match

	rank := 0
	depth := 0
	var quote byte
	for i := 0; i < len(s); {
		ch := s[i]
		if quote != 0 {
			if ch == '\\' && i+1 < len(s) {
				i += 2
				continue
			}
			if ch == quote {
				quote = 0
			}
			i++
			continue
		}
		switch ch {
		case '\'', '"', '`':
			quote = ch
			i++
			continue
		case '(', '[', '{':
			depth++
			i++
			continue
		case ')', ']', '}':
			depth--
			i++
			continue
		}
		if depth > 0 || !isWordStart(s, i) {
			i++
			continue
		}
		matched := false
		for _, kw := range keywords {
			if kw.rank < rank {
				continue
			}
			if !strings.HasPrefix(s[i:], kw.word) {
				continue
			}
			end := i + len(kw.word)
			if end < len(s) && isWordByte(s[end]) {
				continue
			}
			matches = append(matches, match{word: kw.word, start: i, end: end})
			rank = kw.rank
			i = end
			matched = true
			break
		}
		if !matched {
			// Skip the whole word so a keyword never matches mid-token.
			for i < len(s) && isWordByte(s[i]) {
				i++
			}
		}
	}

	clauses := make(map[string]string, len(matches))
	head := strings.TrimSpace(s)
	if len(matches) > 0 {
		head = strings.TrimSpace(s[:matches[0].start])
	}
	for n, m := range matches {
		valueEnd := len(s)
		if n+1 < len(matches) {
			valueEnd = matches[n+1].start
		}
		clauses[m.word] = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s[m.end:valueEnd]), ";"))
	}
	return head, clauses
}

func isWordByte(b byte) bool {
	return b == '_' || b == ':' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// isWordStart reports whether position i begins a word: the previous byte,
// if any, must not be part of a word.
func isWordStart(s string, i int) bool {
	if !isWordByte(s[i]) {
		return false
	}
	return i == 0 || !isWordByte(s[i-1])
}

// lastToken returns the final whitespace-separated token of s.
func lastToken(s string) string {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// unquote strips one level of matching quotes and unescapes the quote
// character. Unquoted input is returned unchanged.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return s
	}
	q := s[0]
	if (q != '\'' && q != '"') || s[len(s)-1] != q {
		return s
	}
	inner := s[1 : len(s)-1]
	return strings.ReplaceAll(inner, "\\"+string(q), string(q))
}

// unwrap strips a single optional layer of the given delimiters, e.g.
// braces around an event body or parentheses around a scope query.
func unwrap(s string, opening, closing byte) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == opening && s[len(s)-1] == closing {
		return strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}
