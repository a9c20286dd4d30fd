package token

import "fmt"

// Position identifies a location within a source document: a 1-based line and column, plus the
// 0-based byte offset from the start of the document.
type Position struct {
	Line   int
	Column int
	Offset int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}
