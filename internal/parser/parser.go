// Package parser implements the recursive-descent parser from spec
// section 4.3: a two-token-lookahead (current + next) builder of the
// document tree, with the fixed operator-precedence ladder and the
// dotted-assignment l-value chain.
package parser

import (
	"github.com/vela-lang/vela/internal/ast"
	"github.com/vela-lang/vela/internal/diag"
	"github.com/vela-lang/vela/internal/lexer"
	"github.com/vela-lang/vela/pkg/position"
	"github.com/vela-lang/vela/pkg/token"
)

// Parser builds one file's document tree from its token stream.
type Parser struct {
	lex  *lexer.Lexer
	file string
	cur  token.Token
	next token.Token
}

// New primes a Parser with the first two tokens of lex.
func New(lex *lexer.Lexer, file string) (*Parser, error) {
	p := &Parser{lex: lex, file: file}
	var err error
	if p.cur, err = lex.Next(); err != nil {
		return nil, err
	}
	if p.next, err = lex.Next(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) advance() error {
	p.cur = p.next
	var err error
	p.next, err = p.lex.Next()
	return err
}

func (p *Parser) syntaxErrorAt(pos position.Position, format string, args ...any) error {
	return diag.New(diag.SyntaxError, pos, p.file, format, args...)
}

func (p *Parser) syntaxError(format string, args ...any) error {
	return p.syntaxErrorAt(p.cur.Pos, format, args...)
}

// expect consumes the current token if it has type t, or fails with a
// SyntaxError naming what was expected and what was actually found.
func (p *Parser) expect(t token.Type) (token.Token, error) {
	if p.cur.Type != t {
		return token.Token{}, p.syntaxError("Expected '%s', got '%s'", t.String(), p.cur.Lexeme())
	}
	tok := p.cur
	if err := p.advance(); err != nil {
		return token.Token{}, err
	}
	return tok, nil
}

func isTypeKeyword(t token.Type) bool {
	return t == token.INT_T || t == token.FLOAT_T || t == token.BOOL_T || t == token.STR_T
}

// ParseProgram parses one file's worth of tokens into a Program:
// include/struct/variant/function declarations, in source order,
// until EOT.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	prog := &ast.Program{}
	for p.cur.Type != token.EOT {
		switch p.cur.Type {
		case token.INCLUDE:
			inc, err := p.parseInclude()
			if err != nil {
				return nil, err
			}
			prog.Includes = append(prog.Includes, inc)
		case token.STRUCT:
			s, err := p.parseStruct()
			if err != nil {
				return nil, err
			}
			prog.Structs = append(prog.Structs, s)
		case token.VARIANT:
			v, err := p.parseVariant()
			if err != nil {
				return nil, err
			}
			prog.Variants = append(prog.Variants, v)
		case token.FUNC:
			f, err := p.parseFunction()
			if err != nil {
				return nil, err
			}
			prog.Functions = append(prog.Functions, f)
		default:
			return nil, p.syntaxError("expected 'include', 'struct', 'variant', or 'func', got '%s'", p.cur.Lexeme())
		}
	}
	return prog, nil
}

func (p *Parser) parseInclude() (*ast.IncludeDecl, error) {
	pos := p.cur.Pos
	if err := p.advance(); err != nil { // consume 'include'
		return nil, err
	}
	pathTok, err := p.expect(token.STRING)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return ast.NewIncludeDecl(pos, pathTok.Value.Str), nil
}

func (p *Parser) parseType() (ast.Type, error) {
	switch p.cur.Type {
	case token.INT_T:
		if err := p.advance(); err != nil {
			return ast.Type{}, err
		}
		return ast.Int, nil
	case token.FLOAT_T:
		if err := p.advance(); err != nil {
			return ast.Type{}, err
		}
		return ast.Float, nil
	case token.BOOL_T:
		if err := p.advance(); err != nil {
			return ast.Type{}, err
		}
		return ast.Bool, nil
	case token.STR_T:
		if err := p.advance(); err != nil {
			return ast.Type{}, err
		}
		return ast.Str, nil
	case token.IDENT:
		name := p.cur.Value.Str
		if err := p.advance(); err != nil {
			return ast.Type{}, err
		}
		return ast.Named(name), nil
	default:
		return ast.Type{}, p.syntaxError("expected a type, got '%s'", p.cur.Lexeme())
	}
}

func (p *Parser) parseField() (ast.Field, error) {
	pos := p.cur.Pos
	ty, err := p.parseType()
	if err != nil {
		return ast.Field{}, err
	}
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return ast.Field{}, err
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return ast.Field{}, err
	}
	return ast.Field{Pos: pos, Type: ty, Name: nameTok.Value.Str}, nil
}

func (p *Parser) parseFieldList() ([]ast.Field, error) {
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	var fields []ast.Field
	for p.cur.Type != token.RBRACE {
		f, err := p.parseField()
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return fields, nil
}

func (p *Parser) parseStruct() (*ast.StructDecl, error) {
	pos := p.cur.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	fields, err := p.parseFieldList()
	if err != nil {
		return nil, err
	}
	return ast.NewStructDecl(pos, nameTok.Value.Str, fields), nil
}

func (p *Parser) parseVariant() (*ast.VariantDecl, error) {
	pos := p.cur.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	fields, err := p.parseFieldList()
	if err != nil {
		return nil, err
	}
	return ast.NewVariantDecl(pos, nameTok.Value.Str, fields), nil
}

// parseVarDeclHeader parses `type ['$'] IDENT`, shared by function
// parameters and the decl-condition form of if/while.
func (p *Parser) parseVarDeclHeader() (ast.Type, bool, string, error) {
	ty, err := p.parseType()
	if err != nil {
		return ast.Type{}, false, "", err
	}
	mutable := false
	if p.cur.Type == token.DOLLAR {
		mutable = true
		if err := p.advance(); err != nil {
			return ast.Type{}, false, "", err
		}
	}
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return ast.Type{}, false, "", err
	}
	return ty, mutable, nameTok.Value.Str, nil
}

func (p *Parser) parseParams() ([]ast.Param, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var params []ast.Param
	for p.cur.Type != token.RPAREN {
		pos := p.cur.Pos
		ty, mutable, name, err := p.parseVarDeclHeader()
		if err != nil {
			return nil, err
		}
		params = append(params, ast.Param{Pos: pos, Type: ty, Mutable: mutable, Name: name})
		if p.cur.Type == token.COMMA {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) parseFunction() (*ast.FuncDecl, error) {
	pos := p.cur.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	var retType *ast.Type
	if p.cur.Type == token.ARROW {
		if err := p.advance(); err != nil {
			return nil, err
		}
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		retType = &t
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.NewFuncDecl(pos, nameTok.Value.Str, params, retType, body), nil
}

func (p *Parser) parseBlock() ([]ast.Stmt, error) {
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	var stmts []ast.Stmt
	for p.cur.Type != token.RBRACE {
		s, err := p.parseInstruction()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return stmts, nil
}

// parseInstruction parses one statement inside a function body. An
// instruction beginning with a type keyword or with IDENT followed by
// another IDENT (or '$') is a variable declaration; IDENT followed by
// '.' or '=' is an assignment; IDENT followed by '(' is a call
// statement — all three share the one-token IDENT prefix, so the
// dispatch needs the second lookahead token.
func (p *Parser) parseInstruction() (ast.Stmt, error) {
	switch p.cur.Type {
	case token.INT_T, token.FLOAT_T, token.BOOL_T, token.STR_T:
		return p.parseVarDecl()
	case token.IDENT:
		switch p.next.Type {
		case token.IDENT, token.DOLLAR:
			return p.parseVarDecl()
		case token.DOT, token.ASSIGN:
			return p.parseAssign()
		case token.LPAREN:
			return p.parseCallStmt()
		default:
			return nil, p.syntaxError("expected declaration, assignment, or call after '%s'", p.cur.Lexeme())
		}
	case token.RETURN:
		return p.parseReturn()
	case token.CONTINUE:
		pos := p.cur.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		if _, err := p.expect(token.SEMI); err != nil {
			return nil, err
		}
		return ast.NewContinueStmt(pos), nil
	case token.BREAK:
		pos := p.cur.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		if _, err := p.expect(token.SEMI); err != nil {
			return nil, err
		}
		return ast.NewBreakStmt(pos), nil
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.DO:
		return p.parseDoWhile()
	default:
		return nil, p.syntaxError("expected an instruction, got '%s'", p.cur.Lexeme())
	}
}

func (p *Parser) parseVarDecl() (*ast.VarDecl, error) {
	pos := p.cur.Pos
	ty, mutable, name, err := p.parseVarDeclHeader()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	init, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return ast.NewVarDecl(pos, ty, mutable, name, init), nil
}

// parseAssignable parses the dotted l-value `name.field.field...`.
func (p *Parser) parseAssignable() (*ast.Assignable, error) {
	pos := p.cur.Pos
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	var fields []string
	for p.cur.Type == token.DOT {
		if err := p.advance(); err != nil {
			return nil, err
		}
		fieldTok, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		fields = append(fields, fieldTok.Value.Str)
	}
	return ast.NewAssignable(pos, nameTok.Value.Str, fields), nil
}

func (p *Parser) parseAssign() (*ast.Assign, error) {
	pos := p.cur.Pos
	target, err := p.parseAssignable()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return ast.NewAssign(pos, target, value), nil
}

func (p *Parser) parseCallStmt() (*ast.CallStmt, error) {
	pos := p.cur.Pos
	expr, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	call, ok := expr.(*ast.CallExpr)
	if !ok {
		return nil, p.syntaxErrorAt(pos, "expected a function call")
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return ast.NewCallStmt(pos, call), nil
}

func (p *Parser) parseReturn() (*ast.ReturnStmt, error) {
	pos := p.cur.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.cur.Type == token.SEMI {
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewReturnStmt(pos, nil), nil
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return ast.NewReturnStmt(pos, value), nil
}

// parseCond parses an if/while condition: either a plain expression, or
// the declaration-condition form `Type ['$'] name = expr` that narrows
// a variant's active field for the duration of the then-branch.
func (p *Parser) parseCond() (ast.Cond, error) {
	if isTypeKeyword(p.cur.Type) || (p.cur.Type == token.IDENT && (p.next.Type == token.IDENT || p.next.Type == token.DOLLAR)) {
		ty, mutable, name, err := p.parseVarDeclHeader()
		if err != nil {
			return ast.Cond{}, err
		}
		if _, err := p.expect(token.ASSIGN); err != nil {
			return ast.Cond{}, err
		}
		value, err := p.parseExpr()
		if err != nil {
			return ast.Cond{}, err
		}
		return ast.Cond{IsDecl: true, Type: ty, Mutable: mutable, Name: name, Value: value}, nil
	}
	expr, err := p.parseExpr()
	if err != nil {
		return ast.Cond{}, err
	}
	return ast.Cond{Expr: expr}, nil
}

func (p *Parser) parseIf() (*ast.IfStmt, error) {
	pos := p.cur.Pos
	var branches []ast.IfBranch
	if err := p.advance(); err != nil { // consume 'if'
		return nil, err
	}
	for {
		if _, err := p.expect(token.LPAREN); err != nil {
			return nil, err
		}
		cond, err := p.parseCond()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		branches = append(branches, ast.IfBranch{Cond: cond, Body: body})
		if p.cur.Type != token.ELIF {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	var elseBody []ast.Stmt
	if p.cur.Type == token.ELSE {
		if err := p.advance(); err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		elseBody = body
	}
	return ast.NewIfStmt(pos, branches, elseBody), nil
}

func (p *Parser) parseWhile() (*ast.WhileStmt, error) {
	pos := p.cur.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseCond()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.NewWhileStmt(pos, cond, body), nil
}

func (p *Parser) parseDoWhile() (*ast.DoWhileStmt, error) {
	pos := p.cur.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.WHILE); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return ast.NewDoWhileStmt(pos, body, cond), nil
}

// The expression grammar is a 13-level precedence ladder, loosest to
// tightest:
//
//	or
//	xor
//	and
//	equality        == != === !==
//	relational      < > <= >=
//	concat          !  (string concatenation)
//	additive        + -
//	multiplicative  * / // % @
//	exponent        **  (right-associative)
//	unary           - not
//	is-postfix      expr is Type
//	postfix         . [ ]  (field access, index)
//	atom            literals, identifiers, calls, parenthesized exprs, init lists
func (p *Parser) parseExpr() (ast.Expr, error) { return p.parseOr() }

func (p *Parser) parseOr() (ast.Expr, error) {
	left, err := p.parseXor()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == token.OR {
		pos := p.cur.Pos
		op := p.cur.Type
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseXor()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(pos, op, left, right)
	}
	return left, nil
}

func (p *Parser) parseXor() (ast.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == token.XOR {
		pos := p.cur.Pos
		op := p.cur.Type
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(pos, op, left, right)
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Expr, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == token.AND {
		pos := p.cur.Pos
		op := p.cur.Type
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(pos, op, left, right)
	}
	return left, nil
}

func isEqualityOp(t token.Type) bool {
	return t == token.EQ || t == token.NEQ || t == token.SAME || t == token.NSAME
}

func (p *Parser) parseEquality() (ast.Expr, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for isEqualityOp(p.cur.Type) {
		pos := p.cur.Pos
		op := p.cur.Type
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(pos, op, left, right)
	}
	return left, nil
}

func isRelationalOp(t token.Type) bool {
	return t == token.GT || t == token.LT || t == token.GE || t == token.LE
}

func (p *Parser) parseRelational() (ast.Expr, error) {
	left, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	for isRelationalOp(p.cur.Type) {
		pos := p.cur.Pos
		op := p.cur.Type
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(pos, op, left, right)
	}
	return left, nil
}

func (p *Parser) parseConcat() (ast.Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == token.BANG {
		pos := p.cur.Pos
		op := p.cur.Type
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(pos, op, left, right)
	}
	return left, nil
}

func (p *Parser) parseAdditive() (ast.Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == token.PLUS || p.cur.Type == token.MINUS {
		pos := p.cur.Pos
		op := p.cur.Type
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(pos, op, left, right)
	}
	return left, nil
}

func isMultiplicativeOp(t token.Type) bool {
	return t == token.STAR || t == token.SLASH || t == token.IDIV || t == token.PCT || t == token.AT
}

func (p *Parser) parseMultiplicative() (ast.Expr, error) {
	left, err := p.parseExponent()
	if err != nil {
		return nil, err
	}
	for isMultiplicativeOp(p.cur.Type) {
		pos := p.cur.Pos
		op := p.cur.Type
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseExponent()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(pos, op, left, right)
	}
	return left, nil
}

// parseExponent is right-associative: 2 ** 3 ** 2 == 2 ** (3 ** 2).
func (p *Parser) parseExponent() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if p.cur.Type == token.POW {
		pos := p.cur.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseExponent()
		if err != nil {
			return nil, err
		}
		return ast.NewBinary(pos, token.POW, left, right), nil
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	if p.cur.Type == token.MINUS || p.cur.Type == token.NOT {
		pos := p.cur.Pos
		op := p.cur.Type
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnary(pos, op, operand), nil
	}
	return p.parseIsPostfix()
}

func (p *Parser) parseIsPostfix() (ast.Expr, error) {
	operand, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	for p.cur.Type == token.IS {
		pos := p.cur.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		target, err := p.parseType()
		if err != nil {
			return nil, err
		}
		operand = ast.NewIsExpr(pos, operand, target)
	}
	return operand, nil
}

func (p *Parser) parsePostfix() (ast.Expr, error) {
	expr, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur.Type {
		case token.DOT:
			pos := p.cur.Pos
			if err := p.advance(); err != nil {
				return nil, err
			}
			fieldTok, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			expr = ast.NewDotExpr(pos, expr, fieldTok.Value.Str)
		case token.LBRACKET:
			pos := p.cur.Pos
			if err := p.advance(); err != nil {
				return nil, err
			}
			index, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBRACKET); err != nil {
				return nil, err
			}
			expr = ast.NewIndexExpr(pos, expr, index)
		default:
			return expr, nil
		}
	}
}

// parseArgs parses a parenthesized, comma-separated call argument list.
// Init lists use braces and are parsed separately, in parseAtom.
func (p *Parser) parseArgs() ([]ast.Expr, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var args []ast.Expr
	for p.cur.Type != token.RPAREN {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.cur.Type == token.COMMA {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parseAtom() (ast.Expr, error) {
	switch p.cur.Type {
	case token.INT:
		pos, v := p.cur.Pos, p.cur.Value.Int
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewIntLiteral(pos, v), nil
	case token.FLOAT:
		pos, v := p.cur.Pos, p.cur.Value.Float
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewFloatLiteral(pos, v), nil
	case token.STRING:
		pos, v := p.cur.Pos, p.cur.Value.Str
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewStringLiteral(pos, v), nil
	case token.TRUE:
		pos := p.cur.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewBoolLiteral(pos, true), nil
	case token.FALSE:
		pos := p.cur.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.NewBoolLiteral(pos, false), nil
	case token.LPAREN:
		if err := p.advance(); err != nil {
			return nil, err
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return expr, nil
	case token.LBRACE:
		pos := p.cur.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		var elems []ast.Expr
		for p.cur.Type != token.RBRACE {
			e, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
			if p.cur.Type == token.COMMA {
				if err := p.advance(); err != nil {
					return nil, err
				}
				continue
			}
			break
		}
		if _, err := p.expect(token.RBRACE); err != nil {
			return nil, err
		}
		return ast.NewInitListExpr(pos, elems), nil
	case token.IDENT:
		pos, name := p.cur.Pos, p.cur.Value.Str
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.Type == token.LPAREN {
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			return ast.NewCallExpr(pos, name, args), nil
		}
		return ast.NewVarRef(pos, name), nil
	default:
		return nil, p.syntaxError("expected an expression, got '%s'", p.cur.Lexeme())
	}
}
