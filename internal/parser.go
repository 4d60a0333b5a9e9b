package internal

import (
	"go.uber.org/zap"
)

// Parser consumes a token stream via recursive descent and produces the
// compiled template tree. Block parsers recurse per nesting level, so an
// inner endif can never close an outer block; an unclosed block is reported
// at its opener's position.
type Parser struct {
	tokens   []Token
	pos      int
	source   string
	maxDepth int
	logger   *zap.Logger
}

// NewParser creates a parser over tokens. source is kept for diagnostics.
// maxDepth bounds block nesting; zero or negative means the default.
func NewParser(tokens []Token, source string, maxDepth int, logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Parser{
		tokens:   tokens,
		source:   source,
		maxDepth: maxDepth,
		logger:   logger,
	}
}

// Parse consumes the whole token stream and returns the template tree.
func (p *Parser) Parse() (*RootNode, error) {
	nodes, _, err := p.parseNodes(0, Token{})
	if err != nil {
		return nil, err
	}
	p.logger.Debug("parsed template", zap.Int("top_level_nodes", len(nodes)))
	return &RootNode{Nodes: nodes}, nil
}

func (p *Parser) next() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	tok := p.tokens[p.pos]
	p.pos++
	return tok
}

func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) expect(typ TokenType) (Token, error) {
	tok := p.next()
	if tok.Type != typ {
		return tok, NewUnexpectedTokenError(typ.String(), tok.Type.String(), tok.Pos)
	}
	return tok, nil
}

// parseNodes consumes nodes until it hits EOF or, inside a block, one of
// the stop keywords at this nesting depth. It returns the consumed stop
// token; the caller finishes the directive (close delimiter, else-if
// chain). opener is the enclosing block's keyword token, used to position
// unclosed-block errors.
func (p *Parser) parseNodes(depth int, opener Token, stops ...TokenType) ([]Node, Token, error) {
	var nodes []Node
	for {
		tok := p.next()
		switch tok.Type {
		case TokenText:
			nodes = append(nodes, &TextNode{Text: tok.Text, Pos: tok.Pos})

		case TokenEOF:
			if len(stops) > 0 {
				return nil, tok, NewUnclosedBlockError(opener.Text, opener.Pos)
			}
			return nodes, tok, nil

		case TokenOpen:
			kw := p.peek()
			for _, stop := range stops {
				if kw.Type == stop {
					p.next()
					return nodes, kw, nil
				}
			}

			node, err := p.parseDirective(depth, kw)
			if err != nil {
				return nil, kw, err
			}
			nodes = append(nodes, node)

		default:
			return nil, tok, NewUnexpectedTokenError(TokenText.String(), tok.Type.String(), tok.Pos)
		}
	}
}

// parseDirective dispatches on the keyword following an open delimiter.
// kw has been peeked but not consumed.
func (p *Parser) parseDirective(depth int, kw Token) (Node, error) {
	switch kw.Type {
	case TokenIf:
		p.next()
		return p.parseIf(depth+1, kw)
	case TokenFor:
		p.next()
		return p.parseFor(depth+1, kw)
	case TokenWith:
		p.next()
		return p.parseWith(depth+1, kw)
	case TokenCall:
		p.next()
		return p.parseCall(kw)
	case TokenIdent, TokenNumber:
		return p.parseValue()
	case TokenClose:
		return nil, NewParseError(ErrMsgEmptyDirective, kw.Pos)
	case TokenElse, TokenEndIf, TokenEndFor, TokenEndWith, TokenIn, TokenAs:
		return nil, NewUnexpectedTokenError("directive", kw.Type.String(), kw.Pos)
	default:
		return nil, NewUnexpectedTokenError("directive", kw.Type.String(), kw.Pos)
	}
}

// parseValue parses a bare interpolation: a path with an optional
// "| formatter" suffix, then the close delimiter.
func (p *Parser) parseValue() (Node, error) {
	path, err := p.parsePath()
	if err != nil {
		return nil, err
	}

	formatter := ""
	if p.peek().Type == TokenPipe {
		p.next()
		name, err := p.expect(TokenIdent)
		if err != nil {
			return nil, err
		}
		formatter = name.Text
	}

	if _, err := p.expect(TokenClose); err != nil {
		return nil, err
	}
	return &ValueNode{Path: path, Formatter: formatter, Pos: path.Pos}, nil
}

// parseIf parses "if <path>}} body [else [if ...]] endif}}". The keyword
// token kw has been consumed. Chained "else if" recurses here, sharing the
// single terminating endif.
func (p *Parser) parseIf(depth int, kw Token) (Node, error) {
	if depth > p.maxDepth {
		return nil, NewNestingDepthError(p.maxDepth, kw.Pos)
	}

	cond, err := p.parsePath()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenClose); err != nil {
		return nil, err
	}

	then, stop, err := p.parseNodes(depth, kw, TokenElse, TokenEndIf)
	if err != nil {
		return nil, err
	}

	var elseNodes []Node
	if stop.Type == TokenElse {
		if chain := p.peek(); chain.Type == TokenIf {
			p.next()
			nested, err := p.parseIf(depth, chain)
			if err != nil {
				return nil, err
			}
			elseNodes = []Node{nested}
		} else {
			if _, err := p.expect(TokenClose); err != nil {
				return nil, err
			}
			elseNodes, _, err = p.parseNodes(depth, kw, TokenEndIf)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TokenClose); err != nil {
				return nil, err
			}
		}
	} else {
		if _, err := p.expect(TokenClose); err != nil {
			return nil, err
		}
	}

	return &IfNode{Cond: cond, Then: then, Else: elseNodes, Pos: kw.Pos}, nil
}

// parseFor parses "for <var>[, <index>] in <path>}} body endfor}}".
func (p *Parser) parseFor(depth int, kw Token) (Node, error) {
	if depth > p.maxDepth {
		return nil, NewNestingDepthError(p.maxDepth, kw.Pos)
	}

	loopVar, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}

	indexVar := ""
	if p.peek().Type == TokenComma {
		p.next()
		idx, err := p.expect(TokenIdent)
		if err != nil {
			return nil, err
		}
		indexVar = idx.Text
	}

	if _, err := p.expect(TokenIn); err != nil {
		return nil, err
	}
	source, err := p.parsePath()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenClose); err != nil {
		return nil, err
	}

	body, _, err := p.parseNodes(depth, kw, TokenEndFor)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenClose); err != nil {
		return nil, err
	}

	return &ForNode{Var: loopVar.Text, Index: indexVar, Source: source, Body: body, Pos: kw.Pos}, nil
}

// parseWith parses "with <path> as <name>}} body endwith}}".
func (p *Parser) parseWith(depth int, kw Token) (Node, error) {
	if depth > p.maxDepth {
		return nil, NewNestingDepthError(p.maxDepth, kw.Pos)
	}

	source, err := p.parsePath()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenAs); err != nil {
		return nil, err
	}
	name, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenClose); err != nil {
		return nil, err
	}

	body, _, err := p.parseNodes(depth, kw, TokenEndWith)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenClose); err != nil {
		return nil, err
	}

	return &WithNode{Source: source, Name: name.Text, Body: body, Pos: kw.Pos}, nil
}

// parseCall parses "call <name> with <path>[, <ident>=<path>]*}}". Call is
// a single non-block directive with no matching end token.
func (p *Parser) parseCall(kw Token) (Node, error) {
	name, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenWith); err != nil {
		return nil, err
	}
	root, err := p.parsePath()
	if err != nil {
		return nil, err
	}

	var args []CallArg
	seen := map[string]bool{}
	for p.peek().Type == TokenComma {
		p.next()
		argName, err := p.expect(TokenIdent)
		if err != nil {
			return nil, err
		}
		if seen[argName.Text] {
			return nil, NewParseError(ErrMsgDuplicateArg, argName.Pos)
		}
		seen[argName.Text] = true
		if _, err := p.expect(TokenAssign); err != nil {
			return nil, err
		}
		argPath, err := p.parsePath()
		if err != nil {
			return nil, err
		}
		args = append(args, CallArg{Name: argName.Text, Path: argPath})
	}

	if _, err := p.expect(TokenClose); err != nil {
		return nil, err
	}
	return &CallNode{Template: name.Text, Root: root, Args: args, Pos: kw.Pos}, nil
}

// parsePath parses a dot-separated segment list. Segments are identifiers
// or non-negative integers; keywords are rejected here, which is what makes
// keyword recognition win over identifier parsing.
func (p *Parser) parsePath() (Path, error) {
	first, err := p.pathSegment()
	if err != nil {
		return Path{}, err
	}

	path := Path{Segments: []Segment{first.seg}, Pos: first.pos}
	for p.peek().Type == TokenDot {
		p.next()
		seg, err := p.pathSegment()
		if err != nil {
			return Path{}, err
		}
		path.Segments = append(path.Segments, seg.seg)
	}
	return path, nil
}

type parsedSegment struct {
	seg Segment
	pos Position
}

func (p *Parser) pathSegment() (parsedSegment, error) {
	tok := p.next()
	switch tok.Type {
	case TokenIdent:
		return parsedSegment{seg: Segment{Name: tok.Text}, pos: tok.Pos}, nil
	case TokenNumber:
		idx := 0
		for _, r := range tok.Text {
			idx = idx*10 + int(r-'0')
		}
		return parsedSegment{seg: Segment{Name: tok.Text, Index: idx, IsIndex: true}, pos: tok.Pos}, nil
	default:
		return parsedSegment{}, NewUnexpectedTokenError(TokenIdent.String(), tok.Type.String(), tok.Pos)
	}
}
