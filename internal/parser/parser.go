// Package parser implements a recursive-descent parser for declarations and
// statements, and a precedence-climbing (Pratt) parser for expressions,
// producing internal/ast nodes directly (no separate concrete-syntax tree).
// A struct holds the lexer plus a current/lookahead token pair, advanced by
// hand rather than through a generated table.
package parser

import (
	"fmt"

	"github.com/dcarreno/bminor/internal/ast"
	"github.com/dcarreno/bminor/internal/encoder"
	"github.com/dcarreno/bminor/internal/lexer"
)

// Parser converts a token stream into a chain of top-level *ast.Decl.
type Parser struct {
	lx *lexer.Lexer

	cur     lexer.Token
	next    lexer.Token
	hasNext bool
}

func New(lx *lexer.Lexer) (*Parser, error) {
	p := &Parser{lx: lx}
	tok, err := lx.NextToken()
	if err != nil {
		return nil, err
	}
	p.cur = tok
	return p, nil
}

// ParseFile parses a complete B-minor compilation unit: zero or more
// top-level declarations followed by end of file. Returns the first error
// encountered; parsing does not attempt recovery past it (unlike resolve and
// typecheck, which accumulate diagnostics on a shared diag.Context, the
// parser has no AST yet to attach diagnostics to).
func (p *Parser) ParseFile() (*ast.Decl, error) {
	var head, tail *ast.Decl
	for p.cur.Type != lexer.TokenEOF {
		d, err := p.parseDecl()
		if err != nil {
			return nil, err
		}
		if head == nil {
			head = d
		} else {
			tail.Next = d
		}
		tail = d
	}
	return head, nil
}

func (p *Parser) parseDecl() (*ast.Decl, error) {
	pos := p.cur.Position
	name, err := p.expect(lexer.TokenIdentifier, "identifier")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenColon, "':'"); err != nil {
		return nil, err
	}
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}

	if typ.Kind == ast.KindFunction {
		if p.check(lexer.TokenSemicolon) {
			p.advance()
			return ast.NewDecl(name.Lexeme, typ, nil, nil, nil, pos), nil
		}
		if _, err := p.expect(lexer.TokenAssign, "'='"); err != nil {
			return nil, err
		}
		body, err := p.parseFuncBody()
		if err != nil {
			return nil, err
		}
		return ast.NewDecl(name.Lexeme, typ, nil, body, nil, pos), nil
	}

	var value *ast.Expr
	if p.check(lexer.TokenAssign) {
		p.advance()
		value, err = p.parseInitializer()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.TokenSemicolon, "';'"); err != nil {
		return nil, err
	}
	return ast.NewDecl(name.Lexeme, typ, value, nil, nil, pos), nil
}

// parseFuncBody parses "{" stmt* "}" and returns the raw statement chain
// (not wrapped in a block node): the function's own scope is entered by the
// resolver directly around this chain, see internal/resolver.
func (p *Parser) parseFuncBody() (*ast.Stmt, error) {
	if _, err := p.expect(lexer.TokenLeftBrace, "'{'"); err != nil {
		return nil, err
	}
	body, err := p.parseStmtsUntil(lexer.TokenRightBrace)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenRightBrace, "'}'"); err != nil {
		return nil, err
	}
	return body, nil
}

func (p *Parser) parseType() (*ast.Type, error) {
	pos := p.cur.Position
	switch p.cur.Type {
	case lexer.TokenVoid:
		p.advance()
		return ast.NewType(ast.KindVoid, pos), nil
	case lexer.TokenBoolean:
		p.advance()
		return ast.NewType(ast.KindBoolean, pos), nil
	case lexer.TokenChar:
		p.advance()
		return ast.NewType(ast.KindCharacter, pos), nil
	case lexer.TokenInteger:
		p.advance()
		return ast.NewType(ast.KindInteger, pos), nil
	case lexer.TokenDouble:
		p.advance()
		return ast.NewType(ast.KindDouble, pos), nil
	case lexer.TokenString:
		p.advance()
		return ast.NewType(ast.KindString, pos), nil
	case lexer.TokenAuto:
		p.advance()
		return ast.NewType(ast.KindAuto, pos), nil
	case lexer.TokenArray:
		return p.parseArrayType(pos)
	case lexer.TokenCarray:
		p.advance()
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return ast.NewArrayType(ast.KindCarray, elem, nil, pos), nil
	case lexer.TokenFunction:
		return p.parseFunctionType(pos)
	}
	return nil, p.errorf("expected a type, got %s", p.cur.Type)
}

func (p *Parser) parseArrayType(pos lexer.Position) (*ast.Type, error) {
	p.advance() // 'array'
	if _, err := p.expect(lexer.TokenLeftBracket, "'['"); err != nil {
		return nil, err
	}
	var length *ast.Expr
	if !p.check(lexer.TokenRightBracket) {
		e, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		length = e
	}
	if _, err := p.expect(lexer.TokenRightBracket, "']'"); err != nil {
		return nil, err
	}
	elem, err := p.parseType()
	if err != nil {
		return nil, err
	}
	return ast.NewArrayType(ast.KindArray, elem, length, pos), nil
}

func (p *Parser) parseFunctionType(pos lexer.Position) (*ast.Type, error) {
	p.advance() // 'function'
	ret, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenLeftParen, "'('"); err != nil {
		return nil, err
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenRightParen, "')'"); err != nil {
		return nil, err
	}
	return ast.NewFunctionType(ret, params, pos), nil
}

func (p *Parser) parseParamList() (*ast.ParamList, error) {
	if p.check(lexer.TokenRightParen) {
		return nil, nil
	}
	var head, tail *ast.ParamList
	for {
		pos := p.cur.Position
		name, err := p.expect(lexer.TokenIdentifier, "parameter name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenColon, "':'"); err != nil {
			return nil, err
		}
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		param := ast.NewParamList(name.Lexeme, typ, nil, pos)
		if head == nil {
			head = param
		} else {
			tail.Next = param
		}
		tail = param
		if !p.check(lexer.TokenComma) {
			break
		}
		p.advance()
	}
	return head, nil
}

// parseInitializer parses the right-hand side of a declaration: either a
// brace initializer or a plain expression.
func (p *Parser) parseInitializer() (*ast.Expr, error) {
	if p.check(lexer.TokenLeftBrace) {
		return p.parseBraceInit()
	}
	return p.parseExpr(0)
}

func (p *Parser) parseBraceInit() (*ast.Expr, error) {
	pos := p.cur.Position
	p.advance() // '{'
	var head, tail *ast.Expr
	if !p.check(lexer.TokenRightBrace) {
		for {
			var elem *ast.Expr
			var err error
			if p.check(lexer.TokenLeftBrace) {
				elem, err = p.parseBraceInit()
			} else {
				elem, err = p.parseExpr(0)
			}
			if err != nil {
				return nil, err
			}
			cell := ast.NewArgsExpr(elem, nil, elem.Pos)
			if head == nil {
				head = cell
			} else {
				tail.Right = cell
			}
			tail = cell
			if !p.check(lexer.TokenComma) {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(lexer.TokenRightBrace, "'}'"); err != nil {
		return nil, err
	}
	return ast.NewBraceExpr(head, pos), nil
}

// ---- statements ----

// parseStmtsUntil parses statements until the lookahead is terminator,
// returning the chain (terminator itself is left unconsumed).
func (p *Parser) parseStmtsUntil(terminator lexer.TokenType) (*ast.Stmt, error) {
	var head, tail *ast.Stmt
	for !p.check(terminator) && p.cur.Type != lexer.TokenEOF {
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		if head == nil {
			head = s
		} else {
			tail.Next = s
		}
		tail = s
	}
	return head, nil
}

// parseStmtOrBlock parses an if/for body: either a braced block (entering
// its own scope, see internal/resolver's resolveBranchBody) or a single bare
// statement.
func (p *Parser) parseStmtOrBlock() (*ast.Stmt, error) {
	if p.check(lexer.TokenLeftBrace) {
		return p.parseBlockStmt()
	}
	return p.parseStmt()
}

func (p *Parser) parseBlockStmt() (*ast.Stmt, error) {
	pos := p.cur.Position
	p.advance() // '{'
	body, err := p.parseStmtsUntil(lexer.TokenRightBrace)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenRightBrace, "'}'"); err != nil {
		return nil, err
	}
	return ast.NewBlockStmt(body, pos), nil
}

func (p *Parser) parseStmt() (*ast.Stmt, error) {
	switch p.cur.Type {
	case lexer.TokenLeftBrace:
		return p.parseBlockStmt()
	case lexer.TokenIf:
		return p.parseIfStmt()
	case lexer.TokenFor:
		return p.parseForStmt()
	case lexer.TokenPrint:
		return p.parsePrintStmt()
	case lexer.TokenReturn:
		return p.parseReturnStmt()
	case lexer.TokenIdentifier:
		if p.peek().Type == lexer.TokenColon {
			return p.parseDeclStmt()
		}
	}
	return p.parseExprStmt()
}

func (p *Parser) parseDeclStmt() (*ast.Stmt, error) {
	d, err := p.parseDecl()
	if err != nil {
		return nil, err
	}
	return ast.NewDeclStmt(d, d.Pos), nil
}

func (p *Parser) parseIfStmt() (*ast.Stmt, error) {
	pos := p.cur.Position
	p.advance() // 'if'
	if _, err := p.expect(lexer.TokenLeftParen, "'('"); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenRightParen, "')'"); err != nil {
		return nil, err
	}
	then, err := p.parseStmtOrBlock()
	if err != nil {
		return nil, err
	}
	var els *ast.Stmt
	if p.check(lexer.TokenElse) {
		p.advance()
		els, err = p.parseStmtOrBlock()
		if err != nil {
			return nil, err
		}
	}
	return ast.NewIfStmt(cond, then, els, pos), nil
}

func (p *Parser) parseForStmt() (*ast.Stmt, error) {
	pos := p.cur.Position
	p.advance() // 'for'
	if _, err := p.expect(lexer.TokenLeftParen, "'('"); err != nil {
		return nil, err
	}
	var init, cond, post *ast.Expr
	var err error
	if !p.check(lexer.TokenSemicolon) {
		init, err = p.parseExpr(0)
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.TokenSemicolon, "';'"); err != nil {
		return nil, err
	}
	if !p.check(lexer.TokenSemicolon) {
		cond, err = p.parseExpr(0)
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.TokenSemicolon, "';'"); err != nil {
		return nil, err
	}
	if !p.check(lexer.TokenRightParen) {
		post, err = p.parseExpr(0)
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.TokenRightParen, "')'"); err != nil {
		return nil, err
	}
	body, err := p.parseStmtOrBlock()
	if err != nil {
		return nil, err
	}
	return ast.NewForStmt(init, cond, post, body, pos), nil
}

func (p *Parser) parsePrintStmt() (*ast.Stmt, error) {
	pos := p.cur.Position
	p.advance() // 'print'
	var head, tail *ast.Expr
	for {
		e, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		cell := ast.NewArgsExpr(e, nil, e.Pos)
		if head == nil {
			head = cell
		} else {
			tail.Right = cell
		}
		tail = cell
		if !p.check(lexer.TokenComma) {
			break
		}
		p.advance()
	}
	if _, err := p.expect(lexer.TokenSemicolon, "';'"); err != nil {
		return nil, err
	}
	return ast.NewPrintStmt(head, pos), nil
}

func (p *Parser) parseReturnStmt() (*ast.Stmt, error) {
	pos := p.cur.Position
	p.advance() // 'return'
	var value *ast.Expr
	if !p.check(lexer.TokenSemicolon) {
		v, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		value = v
	}
	if _, err := p.expect(lexer.TokenSemicolon, "';'"); err != nil {
		return nil, err
	}
	return ast.NewReturnStmt(value, pos), nil
}

func (p *Parser) parseExprStmt() (*ast.Stmt, error) {
	pos := p.cur.Position
	e, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenSemicolon, "';'"); err != nil {
		return nil, err
	}
	return ast.NewExprStmt(e, pos), nil
}

// ---- expressions ----

// parseExpr implements precedence climbing: minPrec is the lowest operator
// precedence this call is allowed to consume. binOpFor below keys each
// operator's precedence and associativity to match internal/ast/expr.go's
// own printing tables.
func (p *Parser) parseExpr(minPrec int) (*ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		kind, prec, rightAssoc, ok := binOpFor(p.cur.Type)
		if !ok || prec < minPrec {
			return left, nil
		}
		pos := p.cur.Position
		p.advance()
		nextMin := prec + 1
		if rightAssoc {
			nextMin = prec
		}
		right, err := p.parseExpr(nextMin)
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryExpr(kind, left, right, pos)
	}
}

func (p *Parser) parseUnary() (*ast.Expr, error) {
	pos := p.cur.Position
	switch p.cur.Type {
	case lexer.TokenMinus:
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryExpr(ast.ExprNeg, operand, pos), nil
	case lexer.TokenNot:
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryExpr(ast.ExprNot, operand, pos), nil
	case lexer.TokenHash:
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryExpr(ast.ExprArrayLen, operand, pos), nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (*ast.Expr, error) {
	e, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur.Type {
		case lexer.TokenLeftParen:
			pos := p.cur.Position
			p.advance()
			args, err := p.parseArgList()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.TokenRightParen, "')'"); err != nil {
				return nil, err
			}
			e = ast.NewCallExpr(e, args, pos)
		case lexer.TokenLeftBracket:
			pos := p.cur.Position
			p.advance()
			idx, err := p.parseExpr(0)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.TokenRightBracket, "']'"); err != nil {
				return nil, err
			}
			e = ast.NewIndexExpr(e, idx, pos)
		case lexer.TokenIncrement:
			e = ast.NewUnaryExpr(ast.ExprIncr, e, p.cur.Position)
			p.advance()
		case lexer.TokenDecrement:
			e = ast.NewUnaryExpr(ast.ExprDecr, e, p.cur.Position)
			p.advance()
		default:
			return e, nil
		}
	}
}

func (p *Parser) parseArgList() (*ast.Expr, error) {
	if p.check(lexer.TokenRightParen) {
		return nil, nil
	}
	var head, tail *ast.Expr
	for {
		e, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		cell := ast.NewArgsExpr(e, nil, e.Pos)
		if head == nil {
			head = cell
		} else {
			tail.Right = cell
		}
		tail = cell
		if !p.check(lexer.TokenComma) {
			break
		}
		p.advance()
	}
	return head, nil
}

func (p *Parser) parsePrimary() (*ast.Expr, error) {
	tok := p.cur
	if tok.Type == lexer.TokenInvalid {
		return nil, p.errorfAt(tok.Position, "%s", tok.Lexeme)
	}
	switch tok.Type {
	case lexer.TokenIntegerLit:
		p.advance()
		v, err := parseIntegerLexeme(tok.Lexeme)
		if err != nil {
			return nil, p.errorfAt(tok.Position, "invalid integer literal %q: %v", tok.Lexeme, err)
		}
		return ast.NewIntLiteral(v, tok.Position), nil
	case lexer.TokenDoubleLit:
		p.advance()
		v, err := parseDoubleLexeme(tok.Lexeme)
		if err != nil {
			return nil, p.errorfAt(tok.Position, "invalid double literal %q: %v", tok.Lexeme, err)
		}
		return ast.NewDoubleLiteral(v, tok.Position), nil
	case lexer.TokenCharLit:
		p.advance()
		decoded, err := encoder.Decode(tok.Lexeme, '\'')
		if err != nil {
			return nil, p.errorfAt(tok.Position, "invalid character literal: %v", err)
		}
		return ast.NewCharLiteral(decoded, tok.Position), nil
	case lexer.TokenStringLit:
		p.advance()
		decoded, err := encoder.Decode(tok.Lexeme, '"')
		if err != nil {
			return nil, p.errorfAt(tok.Position, "invalid string literal: %v", err)
		}
		return ast.NewStringLiteral(decoded, tok.Position), nil
	case lexer.TokenTrue:
		p.advance()
		return ast.NewBoolLiteral(true, tok.Position), nil
	case lexer.TokenFalse:
		p.advance()
		return ast.NewBoolLiteral(false, tok.Position), nil
	case lexer.TokenIdentifier:
		p.advance()
		return ast.NewIdentExpr(tok.Lexeme, tok.Position), nil
	case lexer.TokenLeftParen:
		p.advance()
		inner, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenRightParen, "')'"); err != nil {
			return nil, err
		}
		return ast.NewGroupExpr(inner, tok.Position), nil
	case lexer.TokenLeftBrace:
		return p.parseBraceInit()
	}
	return nil, p.errorf("expected an expression, got %s", tok.Type)
}

// ---- token helpers ----

// peek returns the token after p.cur without consuming it. On a scan error
// the lexer's own error token (already TokenInvalid, positioned at the
// offending character) is buffered; the error surfaces once advance()
// reaches it and parsing tries to match against it.
func (p *Parser) peek() lexer.Token {
	if !p.hasNext {
		tok, _ := p.lx.NextToken()
		p.next = tok
		p.hasNext = true
	}
	return p.next
}

func (p *Parser) advance() {
	if p.hasNext {
		p.cur = p.next
		p.hasNext = false
		return
	}
	tok, _ := p.lx.NextToken()
	p.cur = tok
}

func (p *Parser) check(tt lexer.TokenType) bool {
	return p.cur.Type == tt
}

func (p *Parser) expect(tt lexer.TokenType, what string) (lexer.Token, error) {
	if p.cur.Type == lexer.TokenInvalid {
		return lexer.Token{}, p.errorf("%s", p.cur.Lexeme)
	}
	if p.cur.Type != tt {
		return lexer.Token{}, p.errorf("expected %s, got %q", what, p.cur.Lexeme)
	}
	tok := p.cur
	p.advance()
	return tok, nil
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	return p.errorfAt(p.cur.Position, format, args...)
}

func (p *Parser) errorfAt(pos lexer.Position, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %s", pos, fmt.Sprintf(format, args...))
}

// binOpFor reports the ast.ExprKind, precedence, and associativity of a
// binary operator token, matching internal/ast's precedenceOf/rightAssoc
// tables so that Print(Parse(e)) round-trips (§8, P6).
func binOpFor(tt lexer.TokenType) (kind ast.ExprKind, prec int, rightAssoc bool, ok bool) {
	switch tt {
	case lexer.TokenAssign:
		return ast.ExprAssign, 0, true, true
	case lexer.TokenOr:
		return ast.ExprOr, 1, false, true
	case lexer.TokenAnd:
		return ast.ExprAnd, 2, false, true
	case lexer.TokenEqual:
		return ast.ExprEq, 3, false, true
	case lexer.TokenNotEqual:
		return ast.ExprNotEq, 3, false, true
	case lexer.TokenLess:
		return ast.ExprLess, 4, false, true
	case lexer.TokenLessEqual:
		return ast.ExprLessEq, 4, false, true
	case lexer.TokenGreater:
		return ast.ExprGreater, 4, false, true
	case lexer.TokenGreaterEqual:
		return ast.ExprGreaterEq, 4, false, true
	case lexer.TokenPlus:
		return ast.ExprAdd, 5, false, true
	case lexer.TokenMinus:
		return ast.ExprSub, 5, false, true
	case lexer.TokenStar:
		return ast.ExprMul, 6, false, true
	case lexer.TokenSlash:
		return ast.ExprDiv, 6, false, true
	case lexer.TokenPercent:
		return ast.ExprMod, 6, false, true
	case lexer.TokenCaret:
		return ast.ExprPow, 7, true, true
	}
	return 0, 0, false, false
}
