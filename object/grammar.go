package object

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Object file grammar: a stream of white space separated directives.

type file struct {
	Directives []*statement `parser:"@@*"`
}

type statement struct {
	Pos lexer.Position

	Size   *sizeStatement   `parser:"  @@"`
	Text   *pairStatement   `parser:"| '.text' @@"`
	Byte   *pairStatement   `parser:"| '.byte' @@"`
	Long   *pairStatement   `parser:"| '.long' @@"`
	String *stringStatement `parser:"| '.string' @@"`
	Bss    *pairStatement   `parser:"| '.bss' @@"`
}

type sizeStatement struct {
	Size string `parser:"'.size' @Word"`
}

type pairStatement struct {
	Addr  string `parser:"@Word"`
	Value string `parser:"@Word"`
}

type stringStatement struct {
	Addr  string `parser:"@Word"`
	Value string `parser:"@String"`
}

var objectLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Directive", Pattern: `\.[a-zA-Z]+`},
	{Name: "Word", Pattern: `[^\s"#]+`},
})

var objectParser = participle.MustBuild[file](
	participle.Lexer(objectLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.Unquote("String"),
)
