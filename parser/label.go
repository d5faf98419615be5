package parser

import "github.com/opalscript/ecmalex/token"

// pushLabelCandidate opens the statement-level EXPR frame for an identifier
// at statement start that might turn out to be a label. tok is sunk
// immediately, provisionally classified by classifyIdent; if the frame's
// very next token is a ':', the provisional token is re-emitted as LABEL
// (per the same deferred-resolution protocol pushAsync uses) and the frame
// hands off to BLOCK for the labelled statement itself. Otherwise the
// provisional classification stands and the frame continues as an ordinary
// expression statement.
func (p *Parser) pushLabelCandidate(ctx context, tok token.Token) error {
	classified := p.classifyIdent(tok, ctx)
	p.sink(classified)
	return p.stack.push(frame{
		stype:        sExpr,
		ctx:          ctx,
		openKind:     token.EOF,
		attached:     true,
		labelPending: true,
		labelTok:     tok,
		prev:         classified.Kind,
		prevHash:     tok.Hash,
		prevLine:     tok.Line,
	})
}

// isLabelCandidate reports whether tok is eligible to be a label name: any
// identifier-shaped lexeme that is not reserved unconditionally or by
// context (await outside async, yield outside generator, and the other
// context-optional reserved words are never valid labels, matching the
// source this was ported from). Masquerade words (async, of, get, set,
// static, as, from) are excluded too: each has its own positional
// promotion rule (see stepExprIdent) that the generic maybe-label
// resolution would short-circuit by classifying them as a plain SYMBOL
// before that rule ever runs.
func isLabelCandidate(tok token.Token) bool {
	return tok.Kind == token.LIT && !tok.Hash.IsKeyword() && !tok.Hash.IsMasquerade()
}
