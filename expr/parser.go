// Copyright 2025 EngFlow Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package expr

import (
	"fmt"
	"strings"

	"github.com/shaderpp/shaderpp/token"
)

// Parser holds a cursor over a token slice and exposes one method per
// precedence level, lowest first. This replaces the nested-lambda style of
// building an expression parser: the cursor is an explicit field, not a
// captured reference, so each level is independently testable.
type Parser struct {
	tokens []token.Token
	pos    int
}

// NewParser returns a Parser over tokens. Callers are expected to have
// already filtered out token.Space before constructing it, per §4.5
// ("whitespace skipped").
func NewParser(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse parses a full constant expression. An error is returned for
// malformed input (unexpected token, unbalanced parentheses, trailing
// tokens).
func (p *Parser) Parse() (Expr, error) {
	e, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		return nil, fmt.Errorf("unexpected token %q after expression", p.peek().Text)
	}
	return e, nil
}

func (p *Parser) atEnd() bool { return p.pos >= len(p.tokens) }

func (p *Parser) peek() token.Token {
	if p.atEnd() {
		return token.EndToken
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() token.Token {
	t := p.peek()
	if !p.atEnd() {
		p.pos++
	}
	return t
}

func (p *Parser) at(kind token.Kind) bool { return !p.atEnd() && p.peek().Kind == kind }

func (p *Parser) expect(kind token.Kind) (token.Token, error) {
	if !p.at(kind) {
		return token.Token{}, fmt.Errorf("expected %s, found %q", kind, p.peek().Text)
	}
	return p.advance(), nil
}

// parseOr: and (`||` and)*
func (p *Parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.at(token.LogicalOr) {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = Binary{Op: OpOr, Left: left, Right: right}
	}
	return left, nil
}

// parseAnd: eq (`&&` eq)*
func (p *Parser) parseAnd() (Expr, error) {
	left, err := p.parseEq()
	if err != nil {
		return nil, err
	}
	for p.at(token.LogicalAnd) {
		p.advance()
		right, err := p.parseEq()
		if err != nil {
			return nil, err
		}
		left = Binary{Op: OpAnd, Left: left, Right: right}
	}
	return left, nil
}

// parseEq: cmp ((`==`|`!=`) cmp)*
func (p *Parser) parseEq() (Expr, error) {
	left, err := p.parseCmp()
	if err != nil {
		return nil, err
	}
	for {
		var op BinaryOp
		switch {
		case p.at(token.Equal):
			op = OpEq
		case p.at(token.NotEqual):
			op = OpNotEq
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseCmp()
		if err != nil {
			return nil, err
		}
		left = Binary{Op: op, Left: left, Right: right}
	}
}

// parseCmp: add ((`<`|`>`|`<=`|`>=`) add)*
func (p *Parser) parseCmp() (Expr, error) {
	left, err := p.parseAdd()
	if err != nil {
		return nil, err
	}
	for {
		var op BinaryOp
		switch {
		case p.at(token.AngleOpen):
			op = OpLess
		case p.at(token.AngleClose):
			op = OpGreater
		case p.at(token.LessEqual):
			op = OpLessEq
		case p.at(token.GreaterEqual):
			op = OpGreaterEq
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseAdd()
		if err != nil {
			return nil, err
		}
		left = Binary{Op: op, Left: left, Right: right}
	}
}

// parseAdd: mul ((`+`|`-`) mul)*
func (p *Parser) parseAdd() (Expr, error) {
	left, err := p.parseMul()
	if err != nil {
		return nil, err
	}
	for {
		var op BinaryOp
		switch {
		case p.at(token.Plus):
			op = OpAdd
		case p.at(token.Minus):
			op = OpSub
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseMul()
		if err != nil {
			return nil, err
		}
		left = Binary{Op: op, Left: left, Right: right}
	}
}

// parseMul: unary ((`*`|`/`) unary)*
func (p *Parser) parseMul() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		var op BinaryOp
		switch {
		case p.at(token.Star):
			op = OpMul
		case p.at(token.Slash):
			op = OpDiv
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = Binary{Op: op, Left: left, Right: right}
	}
}

// parseUnary: (`!` | `-`)* primary
func (p *Parser) parseUnary() (Expr, error) {
	switch {
	case p.at(token.Bang):
		p.advance()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Not{Operand: inner}, nil
	case p.at(token.Minus):
		p.advance()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Negate{Operand: inner}, nil
	default:
		return p.parsePrimary()
	}
}

// parsePrimary: number | identifier | `defined` `(` identifier `)` | `(` or `)`
func (p *Parser) parsePrimary() (Expr, error) {
	switch {
	case p.at(token.Number):
		t := p.advance()
		return ConstantInt{Value: parseIntLiteral(t.Text)}, nil

	case p.at(token.Defined):
		p.advance()
		if _, err := p.expect(token.ParenOpen); err != nil {
			return nil, err
		}
		name, err := p.expect(token.Identifier)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.ParenClose); err != nil {
			return nil, err
		}
		return Defined{Name: name.Text}, nil

	case p.at(token.Identifier), p.at(token.Keyword):
		name := p.advance()
		if p.at(token.ParenOpen) {
			args, err := p.parseCallArgs()
			if err != nil {
				return nil, err
			}
			return Call{Name: name.Text, Args: args}, nil
		}
		return Ident{Name: name.Text}, nil

	case p.at(token.ParenOpen):
		p.advance()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.ParenClose); err != nil {
			return nil, err
		}
		return inner, nil

	default:
		return nil, fmt.Errorf("unexpected token %q in expression", p.peek().Text)
	}
}

// parseCallArgs parses a parenthesised, comma-separated, bracket-nesting-
// aware argument list, collecting each argument's raw text (mirroring the
// expander's own macro-call argument capture).
func (p *Parser) parseCallArgs() ([]string, error) {
	if _, err := p.expect(token.ParenOpen); err != nil {
		return nil, err
	}
	var args []string
	var current strings.Builder
	depth := 0
	for {
		if p.atEnd() {
			return nil, fmt.Errorf("unterminated macro call argument list")
		}
		t := p.peek()
		if depth == 0 && t.Kind == token.ParenClose {
			p.advance()
			args = append(args, current.String())
			break
		}
		if depth == 0 && t.Kind == token.Comma {
			p.advance()
			args = append(args, current.String())
			current.Reset()
			continue
		}
		if t.Kind == token.ParenOpen {
			depth++
		} else if t.Kind == token.ParenClose {
			depth--
		}
		current.WriteString(t.Text)
		p.advance()
	}
	if len(args) == 1 && args[0] == "" {
		return nil, nil
	}
	return args, nil
}
