package parser_test

import (
	"testing"

	"github.com/opalscript/ecmalex/lexer"
	"github.com/opalscript/ecmalex/parser"
	"github.com/opalscript/ecmalex/token"
)

func run(t *testing.T, src string, opts ...parser.Opt) []token.Token {
	t.Helper()
	lx := lexer.New([]byte(src))
	p := parser.New(opts...)
	var out []token.Token
	status := p.Run(lx, func(tok token.Token) { out = append(out, tok) })
	if status != parser.StatusOK {
		t.Fatalf("Run status = %v, tokens so far: %v", status, kinds(out))
	}
	return out
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func assertKinds(t *testing.T, toks []token.Token, want []token.Kind) {
	t.Helper()
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("kind[%d] = %v, want %v (full %v)", i, got[i], want[i], got)
		}
	}
}

func TestVarDeclaration(t *testing.T) {
	toks := run(t, "var x = 1;")
	want := []token.Kind{
		token.START, token.KEYWORD, token.SYMBOL, token.OP, token.NUMBER, token.SEMICOLON, token.EOF,
	}
	assertKinds(t, toks, want)
}

func TestASIOnPostfix(t *testing.T) {
	toks := run(t, "a\n++\nb")
	// 'a' ends a statement; the newline before '++' forces ASI, so the
	// virtual SEMICOLON comes before the '++' OP.
	foundSemi := false
	for _, tk := range toks {
		if tk.Kind == token.OP {
			break
		}
		if tk.Kind == token.SEMICOLON {
			foundSemi = true
		}
	}
	if !foundSemi {
		t.Fatalf("expected a virtual SEMICOLON before '++' from postfix ASI, got %v", kinds(toks))
	}
}

func TestForOf(t *testing.T) {
	toks := run(t, "for(const x of bar);")
	want := []token.Kind{
		token.START, token.KEYWORD, token.PAREN, token.KEYWORD, token.SYMBOL,
		token.OP, token.SYMBOL, token.CLOSE, token.ATTACH, token.SEMICOLON, token.EOF,
	}
	assertKinds(t, toks, want)
}

func TestUseStrictReclassifiesImplements(t *testing.T) {
	toks := run(t, "'use strict'; implements + x;")
	foundKeyword := false
	for _, tk := range toks {
		if tk.Kind == token.KEYWORD {
			foundKeyword = true
		}
	}
	if !foundKeyword {
		t.Fatalf("expected implements to reclassify as KEYWORD under strict mode, got %v", kinds(toks))
	}
}

func TestStringStatementThenSiblingOnNewLine(t *testing.T) {
	toks := run(t, "\"a\"\nb;")
	// the string is its own statement, closed by ASI before 'b' on the
	// next line starts a second one.
	if n := countKind(toks, token.START); n != 2 {
		t.Fatalf("expected exactly two START, got %d (%v)", n, kinds(toks))
	}
	if n := countKind(toks, token.SEMICOLON); n != 2 {
		t.Fatalf("expected exactly two SEMICOLON (one ASI, one real), got %d (%v)", n, kinds(toks))
	}
}

func TestUseStrictDirectiveWithoutOwnSemicolon(t *testing.T) {
	toks := run(t, "'use strict'\nreturn 1")
	// the directive has no semicolon of its own and relies on ASI before
	// 'return' starts the next statement; 'return 1' in turn relies on
	// ASI at end of input for its own terminator.
	if n := countKind(toks, token.START); n != 2 {
		t.Fatalf("expected exactly two START, got %d (%v)", n, kinds(toks))
	}
	if n := countKind(toks, token.SEMICOLON); n != 2 {
		t.Fatalf("expected exactly two virtual SEMICOLON, got %d (%v)", n, kinds(toks))
	}
}

func TestAsyncArrowAwaitRegexp(t *testing.T) {
	toks := run(t, "async () => await /123/")
	want := []token.Kind{
		token.START, token.LIT, token.PAREN, token.CLOSE, token.KEYWORD,
		token.ARROW, token.OP, token.REGEXP, token.SEMICOLON, token.EOF,
	}
	assertKinds(t, toks, want)
	// the KEYWORD is the corrective re-emission of the provisional 'async'
	// LIT, and 'await' must classify as OP, not KEYWORD or SYMBOL.
	if toks[4].Mark != token.Resolve {
		t.Fatalf("expected the resolved async KEYWORD to carry Mark=Resolve, got %v", toks[4].Mark)
	}
	if toks[6].Text() != "await" {
		t.Fatalf("expected toks[6] to be the 'await' OP, got %q", toks[6].Text())
	}
}

func TestDoWhile(t *testing.T) {
	toks := run(t, "do { x(); } while (y);")
	want := []token.Kind{
		token.START, token.KEYWORD, token.ATTACH, token.EXEC,
		token.START, token.SYMBOL, token.PAREN, token.CLOSE, token.SEMICOLON,
		token.CLOSE, token.KEYWORD, token.PAREN, token.SYMBOL, token.CLOSE, token.SEMICOLON,
		token.EOF,
	}
	assertKinds(t, toks, want)
}

func TestEmptyProgram(t *testing.T) {
	toks := run(t, "")
	assertKinds(t, toks, []token.Kind{token.EOF})
}

func countKind(toks []token.Token, k token.Kind) int {
	n := 0
	for _, tk := range toks {
		if tk.Kind == k {
			n++
		}
	}
	return n
}

func TestArrowExpressionBody(t *testing.T) {
	toks := run(t, "const f = (x) => x + 1;")
	foundArrow := false
	for _, tk := range toks {
		if tk.Kind == token.ARROW {
			foundArrow = true
		}
	}
	if !foundArrow {
		t.Fatalf("expected an ARROW token, got %v", kinds(toks))
	}
	if n := countKind(toks, token.START); n != 1 {
		t.Fatalf("expected exactly one START, got %d (%v)", n, kinds(toks))
	}
}

func TestArrowBlockBody(t *testing.T) {
	toks := run(t, "const f = (x) => { return x; };")
	if n := countKind(toks, token.START); n != 2 {
		// one for the declaration statement, one for 'return' inside the body.
		t.Fatalf("expected exactly two START, got %d (%v)", n, kinds(toks))
	}
}

func TestBareIdentifierArrow(t *testing.T) {
	toks := run(t, "x => x * 2;")
	foundArrow := false
	for _, tk := range toks {
		if tk.Kind == token.ARROW {
			foundArrow = true
		}
	}
	if !foundArrow {
		t.Fatalf("expected an ARROW token, got %v", kinds(toks))
	}
}

func TestIfElseSingleStart(t *testing.T) {
	toks := run(t, "if (a) { b(); } else { c(); }")
	// the whole if/else chain is one statement; only its two bodies' own
	// statements ('b();' and 'c();') get their own START.
	if n := countKind(toks, token.START); n != 3 {
		t.Fatalf("expected exactly three START (if-stmt, b(), c()), got %d (%v)", n, kinds(toks))
	}
}

func TestFunctionDeclThenSibling(t *testing.T) {
	toks := run(t, "function foo() {} bar();")
	if n := countKind(toks, token.START); n != 2 {
		t.Fatalf("expected exactly two START (function decl, bar()), got %d (%v)", n, kinds(toks))
	}
}

func TestDoWhileThenSibling(t *testing.T) {
	toks := run(t, "do { a(); } while (x); b();")
	if n := countKind(toks, token.START); n != 3 {
		t.Fatalf("expected exactly three START (do-while, a(), b()), got %d (%v)", n, kinds(toks))
	}
}

func TestExportDefaultObjectLiteral(t *testing.T) {
	toks := run(t, "export default { a: 1 };", parser.WithModuleMode(true))
	if n := countKind(toks, token.START); n != 1 {
		t.Fatalf("expected exactly one START, got %d (%v)", n, kinds(toks))
	}
	foundDict := false
	for i, tk := range toks {
		if tk.Kind == token.DICT && i > 0 {
			foundDict = true
		}
	}
	if !foundDict {
		t.Fatalf("expected a DICT opening the default value's object literal, got %v", kinds(toks))
	}
}

func TestLabelledStatement(t *testing.T) {
	toks := run(t, "outer: while (x) { break outer; } next();")
	foundLabel := false
	for _, tk := range toks {
		if tk.Kind == token.LABEL {
			foundLabel = true
		}
	}
	if !foundLabel {
		t.Fatalf("expected a LABEL token, got %v", kinds(toks))
	}
	// one START for the labelled while-loop, one for 'break outer;' inside
	// its body, one for 'next();'.
	if n := countKind(toks, token.START); n != 3 {
		t.Fatalf("expected exactly three START, got %d (%v)", n, kinds(toks))
	}
}

func TestIdentifierNotMistakenForLabel(t *testing.T) {
	toks := run(t, "foo; bar();")
	foundLabel := false
	for _, tk := range toks {
		if tk.Kind == token.LABEL {
			foundLabel = true
		}
	}
	if foundLabel {
		t.Fatalf("did not expect a LABEL token, got %v", kinds(toks))
	}
	if n := countKind(toks, token.START); n != 2 {
		t.Fatalf("expected exactly two START (foo;, bar();), got %d (%v)", n, kinds(toks))
	}
}

func TestLeadingCommentDoesNotAffectStatementBoundaries(t *testing.T) {
	toks := run(t, "// a leading comment\nvar x = 1;")
	if toks[0].Kind != token.COMMENT {
		t.Fatalf("expected the first token to be the COMMENT, got %v", kinds(toks))
	}
	if n := countKind(toks, token.START); n != 1 {
		t.Fatalf("expected exactly one START, got %d (%v)", n, kinds(toks))
	}
}

func TestCommentBetweenStatementsDoesNotTriggerASI(t *testing.T) {
	toks := run(t, "var x = 1 /* note */ + 2;")
	if n := countKind(toks, token.SEMICOLON); n != 1 {
		t.Fatalf("expected exactly one SEMICOLON, got %d (%v)", n, kinds(toks))
	}
}

func TestExportFunctionDeclaration(t *testing.T) {
	toks := run(t, "export function foo() {} bar();", parser.WithModuleMode(true))
	if n := countKind(toks, token.START); n != 2 {
		t.Fatalf("expected exactly two START (export function decl, bar()), got %d (%v)", n, kinds(toks))
	}
}
