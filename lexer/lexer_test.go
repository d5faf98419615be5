package lexer_test

import (
	"testing"

	"github.com/opalscript/ecmalex/config"
	"github.com/opalscript/ecmalex/lexer"
	"github.com/opalscript/ecmalex/token"
)

// drain pulls tokens until EOF using the hint function, which picks
// has_value based on the previously emitted token's kind, the way the
// parser would.
func drain(t *testing.T, src string, hint func(prev token.Kind) lexer.HasValue) []token.Token {
	t.Helper()
	lx := lexer.New([]byte(src))
	var out []token.Token
	prev := token.EOF
	for {
		hv := hint(prev)
		tok, err := lx.Next(hv)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
		prev = tok.Kind
	}
}

func valueLike(k token.Kind) bool {
	switch k {
	case token.LIT, token.NUMBER, token.STRING, token.REGEXP, token.CLOSE:
		return true
	}
	return false
}

func defaultHint(prev token.Kind) lexer.HasValue {
	if valueLike(prev) {
		return lexer.Yes
	}
	return lexer.No
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestEmptyInput(t *testing.T) {
	toks := drain(t, "", defaultHint)
	if len(toks) != 1 || toks[0].Kind != token.EOF {
		t.Fatalf("expected single EOF, got %v", kinds(toks))
	}
}

func TestWhitespaceOnly(t *testing.T) {
	toks := drain(t, "   \n\t\n  ", defaultHint)
	if len(toks) != 1 || toks[0].Kind != token.EOF {
		t.Fatalf("expected single EOF, got %v", kinds(toks))
	}
}

func TestShebang(t *testing.T) {
	toks := drain(t, "#!/usr/bin/env node\nvar x;", defaultHint)
	if toks[0].Kind != token.COMMENT {
		t.Fatalf("expected leading shebang as COMMENT, got %v", toks[0].Kind)
	}
	if got := kinds(toks)[1:]; got[0] != token.LIT {
		t.Fatalf("expected var as LIT, got %v", got)
	}
}

func TestNumberAndSemicolon(t *testing.T) {
	toks := drain(t, "1;", defaultHint)
	want := []token.Kind{token.NUMBER, token.SEMICOLON, token.EOF}
	assertKinds(t, toks, want)
}

func TestOperatorCaps(t *testing.T) {
	cases := []struct {
		src  string
		want []token.Kind
	}{
		{"a+++b", []token.Kind{token.LIT, token.OP, token.OP, token.LIT, token.EOF}},
		{"a>>>b", []token.Kind{token.LIT, token.OP, token.LIT, token.EOF}},
		{"a>>>=b", []token.Kind{token.LIT, token.OP, token.LIT, token.EOF}},
		{"a===b", []token.Kind{token.LIT, token.OP, token.LIT, token.EOF}},
		{"a=>b", []token.Kind{token.LIT, token.ARROW, token.LIT, token.EOF}},
		{"a**b", []token.Kind{token.LIT, token.OP, token.LIT, token.EOF}},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			toks := drain(t, c.src, defaultHint)
			assertKinds(t, toks, c.want)
		})
	}
}

func TestRegexpVsDivision(t *testing.T) {
	lx := lexer.New([]byte("a/b/"))
	tok, err := lx.Next(lexer.No)
	if err != nil || tok.Kind != token.LIT {
		t.Fatalf("expected LIT a, got %v %v", tok, err)
	}
	tok, err = lx.Next(lexer.Yes) // 'a' carries a value, so / divides
	if err != nil || tok.Kind != token.OP || string(tok.Bytes) != "/" {
		t.Fatalf("expected division OP, got %v %v", tok, err)
	}
	tok, err = lx.Next(lexer.No)
	if err != nil || tok.Kind != token.LIT {
		t.Fatalf("expected LIT b, got %v %v", tok, err)
	}

	lx2 := lexer.New([]byte("/abc/g"))
	tok, err = lx2.Next(lexer.No) // no preceding value: / begins a regexp
	if err != nil || tok.Kind != token.REGEXP || string(tok.Bytes) != "/abc/g" {
		t.Fatalf("expected regexp literal, got %v %v", tok, err)
	}
}

func TestSlashWithoutValueIsError(t *testing.T) {
	lx := lexer.New([]byte("/x/"))
	if _, err := lx.Next(lexer.Ignore); err == nil {
		t.Fatalf("expected error for has_value=ignore on a slash")
	}
}

func TestTemplateLiteralNested(t *testing.T) {
	// `a${`b${c}`}d`
	src := "`a${`b${c}`}d`"
	lx := lexer.New([]byte(src))

	want := []token.Kind{
		token.STRING,  // `a
		token.TBrace,  // ${
		token.STRING,  // `b
		token.TBrace,  // ${
		token.LIT,     // c
		token.CLOSE,   // }
		token.STRING,  // `  (empty continuation before inner closing `)
		token.CLOSE,   // }
		token.STRING,  // d`
		token.EOF,
	}

	var got []token.Kind
	prev := token.EOF
	for {
		hv := defaultHint(prev)
		tok, err := lx.Next(hv)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		got = append(got, tok.Kind)
		if tok.Kind == token.EOF {
			break
		}
		prev = tok.Kind
	}

	assertKinds(t, tokensFromKinds(got), want)
}

func tokensFromKinds(ks []token.Kind) []token.Token {
	out := make([]token.Token, len(ks))
	for i, k := range ks {
		out[i] = token.Token{Kind: k}
	}
	return out
}

func assertKinds(t *testing.T, toks []token.Token, want []token.Kind) {
	t.Helper()
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("kind count = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("kind[%d] = %v, want %v (full: %v)", i, got[i], want[i], got)
		}
	}
}

func TestBracketOverflow(t *testing.T) {
	src := make([]byte, 0, 300)
	for i := 0; i < 300; i++ {
		src = append(src, '(')
	}
	lx := lexer.New(src)
	var lastErr error
	for i := 0; i < 300; i++ {
		_, err := lx.Next(lexer.No)
		if err != nil {
			lastErr = err
			break
		}
	}
	if lastErr == nil {
		t.Fatalf("expected bracket overflow error")
	}
}

func TestOptionalChainRequiresConfig(t *testing.T) {
	// without WithConfig, '?.' is just a ternary '?' followed by a '.'
	// member-access OP; '??' is two ternary-opening '?' runs.
	toks := drain(t, "a?.b", defaultHint)
	want := []token.Kind{token.LIT, token.TERNARY, token.OP, token.LIT, token.EOF}
	assertKinds(t, toks, want)
}

func TestOptionalChainWithConfig(t *testing.T) {
	lx := lexer.New([]byte("a?.b ?? c ??= d"), lexer.WithConfig(config.Options{Edition: "es2020"}))
	var toks []token.Token
	prev := token.EOF
	for {
		hv := defaultHint(prev)
		tok, err := lx.Next(hv)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
		prev = tok.Kind
	}
	want := []token.Kind{
		token.LIT, token.OP, token.LIT, token.OP, token.LIT, token.OP, token.LIT, token.EOF,
	}
	assertKinds(t, toks, want)
	if toks[1].Text() != "?." {
		t.Fatalf("expected toks[1] to be '?.', got %q", toks[1].Text())
	}
	if toks[3].Text() != "??" {
		t.Fatalf("expected toks[3] to be '??', got %q", toks[3].Text())
	}
	if toks[5].Text() != "??=" {
		t.Fatalf("expected toks[5] to be '??=', got %q", toks[5].Text())
	}
}

func TestOptionalChainDoesNotShadowTernaryFraction(t *testing.T) {
	// 'a ? .5 : b' must still parse as a ternary even with optional
	// chaining enabled: '?' immediately followed by a digit-led '.5' is
	// never '?.', since no legal '?.' access is ever followed by a digit.
	lx := lexer.New([]byte("a?.5:b"), lexer.WithConfig(config.Options{Edition: "es2020"}))
	var toks []token.Token
	prev := token.EOF
	for {
		hv := defaultHint(prev)
		tok, err := lx.Next(hv)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
		prev = tok.Kind
	}
	want := []token.Kind{token.LIT, token.TERNARY, token.NUMBER, token.CLOSE, token.LIT, token.EOF}
	assertKinds(t, toks, want)
}

func TestNumericSeparatorRequiresConfig(t *testing.T) {
	toks := drain(t, "1_000;", defaultHint)
	// without WithConfig, the number run stops at '_' and the remainder
	// scans as a separate identifier.
	want := []token.Kind{token.NUMBER, token.LIT, token.SEMICOLON, token.EOF}
	assertKinds(t, toks, want)
}

func TestNumericSeparatorWithConfig(t *testing.T) {
	lx := lexer.New([]byte("1_000;"), lexer.WithConfig(config.Options{Edition: "es2021"}))
	tok, err := lx.Next(lexer.No)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if tok.Kind != token.NUMBER || tok.Text() != "1_000" {
		t.Fatalf("expected a single NUMBER token %q, got kind %v text %q", "1_000", tok.Kind, tok.Text())
	}
}

func TestBigIntSuffixNeedsNoConfig(t *testing.T) {
	// the trailing 'n' is already part of the maximal number run the
	// lenient scanner always produces, in every edition.
	toks := drain(t, "123n;", defaultHint)
	want := []token.Kind{token.NUMBER, token.SEMICOLON, token.EOF}
	assertKinds(t, toks, want)
	if toks[0].Text() != "123n" {
		t.Fatalf("expected the NUMBER token to include the BigInt suffix, got %q", toks[0].Text())
	}
}
