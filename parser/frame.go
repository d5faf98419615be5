package parser

import (
	"errors"

	"github.com/opalscript/ecmalex/token"
)

// frameStackSize bounds the parser's pushdown stack of parse contexts.
const frameStackSize = 512

// ErrFrameOverflow is returned when more than frameStackSize frames would
// be open simultaneously.
var ErrFrameOverflow = errors.New("parser: frame stack overflow")

// stype is the parse context a frame represents.
type stype uint8

const (
	sBlock stype = iota
	sExpr
	sControl
	sDict
	sFunc
	sClass
	sModule
	sAsync
	// sDoTail tracks the 'while (...) ;' continuation a do-while body
	// expects once it closes, instead of a new sibling statement.
	sDoTail
)

// context is the 3-bit set inherited through function/arrow boundaries.
type context uint8

const (
	ctxStrict context = 1 << iota
	ctxAsync
	ctxGenerator
)

func (c context) has(flag context) bool { return c&flag != 0 }

// frame is one entry of the pushdown stack. openKind records what opened
// an EXPR frame: the opening bracket Kind, or token.EOF for an unbracketed
// one. startTag records, on a CONTROL frame only, the full Hash of its
// head keyword (if/for/while/switch/catch/with).
type frame struct {
	stype stype

	prev     token.Kind
	prevHash token.Hash
	prevLine int

	openKind token.Kind
	startTag token.Hash

	ctx context

	// freshArrowBody marks an EXPR frame that is the non-block body of an
	// arrow function, started directly as an expression rather than a
	// BLOCK (arrow bodies without '{' are a single expression, not a
	// sequence of statements).
	freshArrowBody bool

	// attached marks, on a BLOCK frame, that a statement is in progress
	// (its START, or an ATTACH, is already out), so the next token
	// continues it instead of getting a START of its own. It is cleared
	// when the statement ends or hands off to a child frame. Only stepBlock
	// reads it.
	attached bool

	// moduleState drives the MODULE frame's small positional state
	// machine (see module.go).
	moduleState moduleState

	// dictState drives the DICT frame's left-side modifier accumulation
	// (see dict.go).
	dictState dictState

	// asyncPhase and asyncTok drive the ASYNC frame's two-step
	// arrow-vs-call resolution (see async.go).
	asyncPhase uint8
	asyncTok   token.Token

	// funcPhase and classPhase drive the FUNC and CLASS frames' small
	// positional state machines (see func.go, class.go).
	funcPhase  uint8
	classPhase uint8

	// controlPhase and doTailPhase drive CONTROL and sDoTail frames (see
	// control.go).
	controlPhase uint8
	doTailPhase  uint8
	doLine       int

	// restrictedLine is nonzero on an EXPR frame opened right after a
	// restricted-production keyword (return/throw/break/continue); the
	// first token this frame sees is checked against the restricted-ASI
	// rule before being treated as the start of that keyword's operand.
	restrictedLine int

	// sawStatement marks that a BLOCK frame has started at least one
	// statement; only its first statement is eligible to be a 'use
	// strict' directive.
	sawStatement bool

	// labelPending marks an EXPR frame whose first token was a provisionally
	// sunk identifier that might turn out to be a label (see label.go).
	labelPending bool
	labelTok     token.Token
}

// stack is the bounded frame stack plus the handful of helpers every
// transition needs: push/pop with overflow checking, and read-only access
// to the current frame.
type stack struct {
	frames []frame
}

func newStack() *stack {
	s := &stack{frames: make([]frame, 0, 64)}
	s.frames = append(s.frames, frame{stype: sBlock})
	return s
}

func (s *stack) top() *frame {
	return &s.frames[len(s.frames)-1]
}

func (s *stack) depth() int { return len(s.frames) }

// setParentAttached marks the frame directly below the current top as
// attached or not. Used where a child frame resolves a deferred decision
// (labelled vs. plain expression statement) that determines whether its
// parent BLOCK should treat what comes after as glued or fresh.
func (s *stack) setParentAttached(v bool) {
	if len(s.frames) >= 2 {
		s.frames[len(s.frames)-2].attached = v
	}
}

func (s *stack) push(f frame) error {
	if len(s.frames) >= frameStackSize {
		return ErrFrameOverflow
	}
	s.frames = append(s.frames, f)
	return nil
}

// pop removes the top frame. Callers must never pop the last remaining
// frame; Run's outermost loop only drains down to the initial BLOCK,
// which is retired by EOF handling rather than pop.
func (s *stack) pop() {
	s.frames = s.frames[:len(s.frames)-1]
}
