// Package token carries source positions through the AST.
//
// The core never constructs positions itself; it only reads the ones the
// (external) parser/type-checker attached, for error reporting.
package token

import "fmt"

// Position is a line/column pair, 1-indexed, matching how the parser and
// type checker report locations.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	if p.Line == 0 {
		return "<unknown>"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsZero reports whether the position was never set.
func (p Position) IsZero() bool { return p.Line == 0 && p.Column == 0 }
