package types

// TokenType classifies a recognized block keyword occurrence.
type TokenType int

const (
	TokenOpen TokenType = iota
	TokenMiddle
	TokenClose
)

func (t TokenType) String() string {
	switch t {
	case TokenOpen:
		return "open"
	case TokenMiddle:
		return "middle"
	case TokenClose:
		return "close"
	default:
		return "unknown"
	}
}

// ExcludedRegion is a half-open rune-offset span (comment, literal, heredoc
// body, ...) inside which keyword matching must not occur. Regions produced by
// a scan are sorted by Start, never overlap, and always satisfy End > Start;
// an unterminated construct extends to end of source.
type ExcludedRegion struct {
	Start int
	End   int
}

// Contains reports whether the rune offset falls inside the region.
func (r ExcludedRegion) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End
}

// Token is a single validated keyword occurrence.
//
// Line and Column are 0-based; Column counts characters, not bytes. Offset and
// Length are rune offsets into the source and cover the matched keyword text
// (including interior whitespace for multi-word keywords).
type Token struct {
	Type   TokenType
	Value  string
	Line   int
	Column int
	Offset int
	Length int
}

// EndColumn returns the column just past the token on its starting line.
// Multi-word keywords never span lines, so this is always valid.
func (t Token) EndColumn() int {
	return t.Column + t.Length
}

// BlockPair is a matched open/close keyword pair with the middle keywords
// collected between them, in source order. NestLevel is the number of blocks
// still open at the moment this pair closed (the pair itself excluded).
//
// One close token may terminate two chained frames (e.g. Lua `while c do`),
// in which case two pairs share the same Close token.
type BlockPair struct {
	Open          Token
	Close         Token
	Intermediates []Token
	NestLevel     int
}

// Surrounds reports whether the 0-based position lies between the pair's open
// and close keywords (both tokens included).
func (p BlockPair) Surrounds(line, column int) bool {
	if line < p.Open.Line || line > p.Close.Line {
		return false
	}
	if line == p.Open.Line && column < p.Open.Column {
		return false
	}
	if line == p.Close.Line && column > p.Close.EndColumn() {
		return false
	}
	return true
}

// Tokens returns the pair's tokens in source order: open, intermediates, close.
func (p BlockPair) Tokens() []Token {
	out := make([]Token, 0, len(p.Intermediates)+2)
	out = append(out, p.Open)
	out = append(out, p.Intermediates...)
	out = append(out, p.Close)
	return out
}
