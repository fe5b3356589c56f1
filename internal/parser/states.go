package parser

import (
	shapetokenizer "github.com/shapestone/shape-core/pkg/tokenizer"
	"github.com/shapestone/shape-csvreader/internal/tokenizer"
)

// state is a scanner state.
type state uint8

const (
	stateStartOfRecord     state = iota
	stateStartOfField            // before the first character of a field
	stateUnquoted                // inside an unquoted field
	stateQuoted                  // inside a quoted field
	stateAfterQuote              // quote seen in a quoted field where escape == quote
	stateAfterEscape             // escape seen in a quoted field
	stateAfterClosingQuote       // quoted field closed, waiting for delimiter or line break
	stateComment                 // discarding a comment line
	stateEndOfRecord
)

// String returns the string representation of state.
func (s state) String() string {
	switch s {
	case stateStartOfRecord:
		return "StartOfRecord"
	case stateStartOfField:
		return "StartOfField"
	case stateUnquoted:
		return "Unquoted"
	case stateQuoted:
		return "Quoted"
	case stateAfterQuote:
		return "AfterQuote"
	case stateAfterEscape:
		return "AfterEscape"
	case stateAfterClosingQuote:
		return "AfterClosingQuote"
	case stateComment:
		return "Comment"
	case stateEndOfRecord:
		return "EndOfRecord"
	default:
		return "Unknown"
	}
}

// step applies one transition for the peeked token, consuming it when the
// transition does. A nil token marks the end of input; every state then
// moves towards stateEndOfRecord without consuming.
func (p *Parser) step(token *shapetokenizer.Token) error {
	eof := token == nil
	var kind string
	if !eof {
		kind = token.Kind()
	}
	lineBreak := kind == tokenizer.TokenNewline

	switch p.state {
	case stateStartOfRecord:
		p.recLine = p.buf.Line()
		switch {
		case eof:
			p.state = stateEndOfRecord
		case p.opts.Comment != 0 && token.Value()[0] == p.opts.Comment:
			p.advance()
			p.state = stateComment
		case lineBreak:
			p.advance()
			if !p.opts.SkipEmptyLines {
				p.empty = true
				p.state = stateEndOfRecord
			}
		default:
			p.beginField()
			p.state = stateStartOfField
		}

	case stateComment:
		switch {
		case eof:
			p.state = stateStartOfRecord
		case lineBreak:
			p.advance()
			p.state = stateStartOfRecord
		default:
			p.advance()
		}

	case stateStartOfField:
		switch {
		case eof:
			p.emitField()
			p.state = stateEndOfRecord
		case kind == tokenizer.TokenDelimiter:
			p.advance()
			p.emitField()
			p.beginField()
		case lineBreak:
			p.advance()
			p.emitField()
			p.state = stateEndOfRecord
		case kind == tokenizer.TokenWhitespace && p.opts.Trim&TrimUnquotedOnly != 0:
			p.advance()
		case kind == tokenizer.TokenQuote:
			p.advance()
			p.field.Reset()
			p.quoted = true
			p.state = stateQuoted
		default:
			p.state = stateUnquoted
		}

	case stateUnquoted:
		switch {
		case eof:
			p.emitField()
			p.state = stateEndOfRecord
		case kind == tokenizer.TokenDelimiter:
			p.advance()
			p.emitField()
			p.beginField()
			p.state = stateStartOfField
		case lineBreak:
			p.advance()
			p.emitField()
			p.state = stateEndOfRecord
		case kind == tokenizer.TokenQuote && !p.opts.LazyQuotes:
			return p.fail(ErrBareQuote)
		default:
			p.appendToken(token)
			p.advance()
		}

	case stateQuoted:
		switch {
		case eof:
			if !p.opts.SupportsMultiline {
				return p.fail(ErrUnterminatedQuote)
			}
			p.emitField()
			p.state = stateEndOfRecord
		case kind == tokenizer.TokenQuote:
			p.advance()
			if p.opts.Escape == p.opts.Quote {
				p.state = stateAfterQuote
			} else {
				p.state = stateAfterClosingQuote
			}
		case kind == tokenizer.TokenEscape:
			p.advance()
			p.state = stateAfterEscape
		case lineBreak && !p.opts.SupportsMultiline:
			return p.fail(ErrLineBreakInQuotes)
		default:
			p.appendToken(token)
			p.advance()
		}

	case stateAfterQuote:
		if kind == tokenizer.TokenQuote {
			p.appendToken(token)
			p.advance()
			p.state = stateQuoted
		} else {
			p.state = stateAfterClosingQuote
		}

	case stateAfterEscape:
		if kind == tokenizer.TokenQuote || kind == tokenizer.TokenEscape {
			p.appendToken(token)
			p.advance()
		} else {
			p.field.WriteRune(p.opts.Escape)
		}
		p.state = stateQuoted

	case stateAfterClosingQuote:
		switch {
		case eof:
			p.emitField()
			p.state = stateEndOfRecord
		case kind == tokenizer.TokenDelimiter:
			p.advance()
			p.emitField()
			p.beginField()
			p.state = stateStartOfField
		case lineBreak:
			p.advance()
			p.emitField()
			p.state = stateEndOfRecord
		case kind == tokenizer.TokenWhitespace:
			p.advance()
		default:
			return p.fail(ErrQuote)
		}

	case stateEndOfRecord:
	}
	return nil
}
