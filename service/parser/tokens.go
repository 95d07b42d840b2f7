package parser

import (
	"github.com/viant/parsly"
)

// Token codes
const (
	fencedBlockCode = iota + 1
	objectLiteralCode
)

// Token definitions
var (
	fencedBlockToken   = parsly.NewToken(fencedBlockCode, "FencedBlock", newFencedBlockMatcher())
	objectLiteralToken = parsly.NewToken(objectLiteralCode, "ObjectLiteral", newObjectLiteralMatcher())
)

func newFencedBlockMatcher() parsly.Matcher {
	return &fencedBlockMatcher{}
}

func newObjectLiteralMatcher() parsly.Matcher {
	return &objectLiteralMatcher{}
}

// fencedBlockMatcher matches a complete triple-backtick block, including both
// fences. The block is only matched when a closing fence exists.
type fencedBlockMatcher struct{}

func (m *fencedBlockMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	if pos+3 > size || input[pos] != '`' || input[pos+1] != '`' || input[pos+2] != '`' {
		return 0
	}

	for i := pos + 3; i+3 <= size; i++ {
		if input[i] == '`' && input[i+1] == '`' && input[i+2] == '`' {
			return i + 3 - pos
		}
	}
	return 0
}

// objectLiteralMatcher matches a brace-balanced object literal starting at
// '{'. Braces inside double-quoted strings do not count towards the balance.
type objectLiteralMatcher struct{}

func (m *objectLiteralMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	if pos >= size || input[pos] != '{' {
		return 0
	}

	depth := 0
	inString := false
	for i := pos; i < size; i++ {
		c := input[i]
		if inString {
			switch c {
			case '\\':
				i++
			case '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1 - pos
			}
		}
	}
	return 0
}
