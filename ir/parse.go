package ir

import (
	"fmt"
	"strconv"

	"github.com/dessser-go/dessser/schema"
)

// ParseError reports a failure to parse an Expr or Type s-expression.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string { return "ir: parse error: " + e.Msg }

// tokenize splits src into '(' / ')' / atom tokens. Atoms are runs of
// non-space, non-paren characters, or a double-quoted string (with Go
// escaping, matching strconv.Quote's output from Print).
func tokenize(src string) ([]string, error) {
	var toks []string
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '(' || c == ')':
			toks = append(toks, string(c))
			i++
		case c == '"':
			start := i
			i++
			for i < len(src) {
				if src[i] == '\\' {
					i += 2
					continue
				}
				if src[i] == '"' {
					i++
					break
				}
				i++
			}
			if i > len(src) {
				return nil, &ParseError{Msg: "unterminated string literal"}
			}
			toks = append(toks, src[start:i])
		default:
			start := i
			for i < len(src) && src[i] != ' ' && src[i] != '\t' && src[i] != '\n' && src[i] != '\r' && src[i] != '(' && src[i] != ')' {
				i++
			}
			toks = append(toks, src[start:i])
		}
	}
	return toks, nil
}

type tokStream struct {
	toks []string
	pos  int
}

func (ts *tokStream) peek() (string, bool) {
	if ts.pos >= len(ts.toks) {
		return "", false
	}
	return ts.toks[ts.pos], true
}

func (ts *tokStream) next() (string, error) {
	t, ok := ts.peek()
	if !ok {
		return "", &ParseError{Msg: "unexpected end of input"}
	}
	ts.pos++
	return t, nil
}

func (ts *tokStream) expect(tok string) error {
	t, err := ts.next()
	if err != nil {
		return err
	}
	if t != tok {
		return &ParseError{Msg: fmt.Sprintf("expected %q, found %q", tok, t)}
	}
	return nil
}

// ParseExpr parses the s-expression form Print produces.
func ParseExpr(src string) (Expr, error) {
	toks, err := tokenize(src)
	if err != nil {
		return Expr{}, err
	}
	ts := &tokStream{toks: toks}
	e, err := parseExprTok(ts)
	if err != nil {
		return Expr{}, err
	}
	if ts.pos != len(ts.toks) {
		return Expr{}, &ParseError{Msg: "trailing tokens after expression"}
	}
	return e, nil
}

func scalarByName(name string) (schema.Scalar, error) {
	mn, err := schema.Parse(nil, name)
	if err != nil || mn.Type.Kind != schema.KScalar {
		return 0, &ParseError{Msg: "expected a scalar name, found " + name}
	}
	return mn.Type.ScalarV, nil
}

func parseExprTok(ts *tokStream) (Expr, error) {
	tok, err := ts.next()
	if err != nil {
		return Expr{}, err
	}
	if tok != "(" {
		return Expr{}, &ParseError{Msg: "expected '(', found " + tok}
	}
	head, err := ts.next()
	if err != nil {
		return Expr{}, err
	}

	var result Expr
	switch head {
	case "Bool":
		v, err := ts.next()
		if err != nil {
			return Expr{}, err
		}
		result = BoolConst(v == "true")
	case "Char":
		v, err := ts.next()
		if err != nil {
			return Expr{}, err
		}
		n, _ := strconv.ParseUint(v, 10, 8)
		result = CharConst(byte(n))
	case "Str":
		v, err := ts.next()
		if err != nil {
			return Expr{}, err
		}
		s, err := strconv.Unquote(v)
		if err != nil {
			return Expr{}, &ParseError{Msg: "bad string literal: " + err.Error()}
		}
		result = StrConst(s)
	case "Float":
		v, err := ts.next()
		if err != nil {
			return Expr{}, err
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Expr{}, &ParseError{Msg: "bad float literal: " + err.Error()}
		}
		result = FloatConst(f)
	case "Int":
		scName, err := ts.next()
		if err != nil {
			return Expr{}, err
		}
		sc, err := scalarByName(scName)
		if err != nil {
			return Expr{}, err
		}
		v, err := ts.next()
		if err != nil {
			return Expr{}, err
		}
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return Expr{}, &ParseError{Msg: "bad int literal: " + err.Error()}
		}
		result = UintConst(sc, n)
	case "Null":
		vtTok, err := ts.next()
		if err != nil {
			return Expr{}, err
		}
		vtStr, err := strconv.Unquote(vtTok)
		if err != nil {
			return Expr{}, &ParseError{Msg: "bad string literal in Null: " + err.Error()}
		}
		mn, err := schema.Parse(nil, vtStr)
		if err != nil {
			return Expr{}, &ParseError{Msg: "bad schema in Null: " + err.Error()}
		}
		result = Null(mn.Type)
	case "Id":
		name, err := ts.next()
		if err != nil {
			return Expr{}, err
		}
		result = Identifier(name)
	case "Param":
		fid, err := ts.next()
		if err != nil {
			return Expr{}, err
		}
		idx, err := ts.next()
		if err != nil {
			return Expr{}, err
		}
		f, _ := strconv.ParseUint(fid, 10, 64)
		n, _ := strconv.Atoi(idx)
		result = Param(FuncID(f), n)
	case "Let":
		name, err := ts.next()
		if err != nil {
			return Expr{}, err
		}
		val, err := parseExprTok(ts)
		if err != nil {
			return Expr{}, err
		}
		body, err := parseExprTok(ts)
		if err != nil {
			return Expr{}, err
		}
		result = Let(name, val, body)
	case "Function":
		fidTok, err := ts.next()
		if err != nil {
			return Expr{}, err
		}
		fid, _ := strconv.ParseUint(fidTok, 10, 64)
		if err := ts.expect("("); err != nil {
			return Expr{}, err
		}
		var params []Type
		for {
			t, ok := ts.peek()
			if !ok {
				return Expr{}, &ParseError{Msg: "unterminated param list"}
			}
			if t == ")" {
				ts.pos++
				break
			}
			pt, err := parseTypeTok(ts)
			if err != nil {
				return Expr{}, err
			}
			params = append(params, pt)
		}
		body, err := parseExprTok(ts)
		if err != nil {
			return Expr{}, err
		}
		result = Function(FuncID(fid), params, body)
	case "Seq":
		var exprs []Expr
		for {
			t, ok := ts.peek()
			if !ok {
				return Expr{}, &ParseError{Msg: "unterminated Seq"}
			}
			if t == ")" {
				break
			}
			e, err := parseExprTok(ts)
			if err != nil {
				return Expr{}, err
			}
			exprs = append(exprs, e)
		}
		result = Seq(exprs...)
	case "NumConv", "NumParse":
		scName, err := ts.next()
		if err != nil {
			return Expr{}, err
		}
		sc, err := scalarByName(scName)
		if err != nil {
			return Expr{}, err
		}
		x, err := parseExprTok(ts)
		if err != nil {
			return Expr{}, err
		}
		if head == "NumConv" {
			result = NumConv(sc, x)
		} else {
			result = NumParse(sc, x)
		}
	case "TupItem":
		idxTok, err := ts.next()
		if err != nil {
			return Expr{}, err
		}
		i, err := strconv.Atoi(idxTok)
		if err != nil {
			return Expr{}, &ParseError{Msg: "bad TupItem index: " + err.Error()}
		}
		v, err := parseExprTok(ts)
		if err != nil {
			return Expr{}, err
		}
		result = TupItem(v, i)
	case "RecField":
		name, err := ts.next()
		if err != nil {
			return Expr{}, err
		}
		v, err := parseExprTok(ts)
		if err != nil {
			return Expr{}, err
		}
		result = RecField(v, name)
	case "VecElem":
		idxTok, err := ts.next()
		if err != nil {
			return Expr{}, err
		}
		i, err := strconv.Atoi(idxTok)
		if err != nil {
			return Expr{}, &ParseError{Msg: "bad VecElem index: " + err.Error()}
		}
		v, err := parseExprTok(ts)
		if err != nil {
			return Expr{}, err
		}
		result = VecElem(v, i)
	case "CastRepr":
		from, err := parseTypeTok(ts)
		if err != nil {
			return Expr{}, err
		}
		to, err := parseTypeTok(ts)
		if err != nil {
			return Expr{}, err
		}
		x, err := parseExprTok(ts)
		if err != nil {
			return Expr{}, err
		}
		result = castRepr(from, to, x)
	case "ReadWord", "WriteWord", "PeekWord":
		wName, err := ts.next()
		if err != nil {
			return Expr{}, err
		}
		w, err := widthByName(wName)
		if err != nil {
			return Expr{}, err
		}
		eName, err := ts.next()
		if err != nil {
			return Expr{}, err
		}
		endian := LittleEndian
		if eName == "BE" {
			endian = BigEndian
		}
		ptr, err := parseExprTok(ts)
		if err != nil {
			return Expr{}, err
		}
		switch head {
		case "ReadWord":
			result = endianOp(OpReadWordE, w, endian, ptr)
		case "PeekWord":
			result = endianOp(OpPeekWordE, w, endian, ptr)
		case "WriteWord":
			v, err := parseExprTok(ts)
			if err != nil {
				return Expr{}, err
			}
			result = endianOp(OpWriteWordE, w, endian, ptr, v)
		}
	default:
		op, ok := opByName(head)
		if !ok {
			return Expr{}, &ParseError{Msg: "unknown operator " + head}
		}
		var kids []Expr
		for {
			t, ok := ts.peek()
			if !ok {
				return Expr{}, &ParseError{Msg: "unterminated expression"}
			}
			if t == ")" {
				break
			}
			k, err := parseExprTok(ts)
			if err != nil {
				return Expr{}, err
			}
			kids = append(kids, k)
		}
		result = Expr{Op: op, Kids: kids}
	}

	if err := ts.expect(")"); err != nil {
		return Expr{}, err
	}
	return result, nil
}

func opByName(name string) (Op, bool) {
	for op, n := range opNames {
		if n == name && kidsOnlyOps[op] {
			return op, true
		}
	}
	return 0, false
}

func widthByName(name string) (Width, error) {
	switch name {
	case "Word":
		return WWord, nil
	case "DWord":
		return WDWord, nil
	case "QWord":
		return WQWord, nil
	case "OWord":
		return WOWord, nil
	}
	return 0, &ParseError{Msg: "unknown width " + name}
}

// ParseType parses the form produced by Type.String.
func ParseType(src string) (Type, error) {
	toks, err := tokenize(src)
	if err != nil {
		return Type{}, err
	}
	ts := &tokStream{toks: toks}
	t, err := parseTypeTok(ts)
	if err != nil {
		return Type{}, err
	}
	if ts.pos != len(ts.toks) {
		return Type{}, &ParseError{Msg: "trailing tokens after type"}
	}
	return t, nil
}

func parseTypeTok(ts *tokStream) (Type, error) {
	tok, err := ts.next()
	if err != nil {
		return Type{}, err
	}
	switch tok {
	case "Void":
		return Void(), nil
	case "DataPtr":
		return DataPtr(), nil
	case "Size":
		return SizeT(), nil
	case "Bit":
		return BitT(), nil
	case "Byte":
		return ByteT(), nil
	case "Word":
		return WordT(), nil
	case "DWord":
		return DWordT(), nil
	case "QWord":
		return QWordT(), nil
	case "OWord":
		return OWordT(), nil
	case "Bytes":
		return BytesT(), nil
	case "(":
		head, err := ts.next()
		if err != nil {
			return Type{}, err
		}
		switch head {
		case "ValuePtr":
			tok, err := ts.next()
			if err != nil {
				return Type{}, err
			}
			s, err := strconv.Unquote(tok)
			if err != nil {
				return Type{}, &ParseError{Msg: "bad string literal: " + err.Error()}
			}
			mn, err := schema.Parse(nil, s)
			if err != nil {
				return Type{}, &ParseError{Msg: err.Error()}
			}
			if err := ts.expect(")"); err != nil {
				return Type{}, err
			}
			return ValuePtr(mn), nil
		case "Value":
			tok, err := ts.next()
			if err != nil {
				return Type{}, err
			}
			s, err := strconv.Unquote(tok)
			if err != nil {
				return Type{}, &ParseError{Msg: "bad string literal: " + err.Error()}
			}
			mn, err := schema.Parse(nil, s)
			if err != nil {
				return Type{}, &ParseError{Msg: err.Error()}
			}
			if err := ts.expect(")"); err != nil {
				return Type{}, err
			}
			return Value(mn), nil
		case "Pair":
			a, err := parseTypeTok(ts)
			if err != nil {
				return Type{}, err
			}
			b, err := parseTypeTok(ts)
			if err != nil {
				return Type{}, err
			}
			if err := ts.expect(")"); err != nil {
				return Type{}, err
			}
			return PairT(a, b), nil
		case "Function":
			if err := ts.expect("("); err != nil {
				return Type{}, err
			}
			var args []Type
			for {
				t, ok := ts.peek()
				if !ok {
					return Type{}, &ParseError{Msg: "unterminated Function args"}
				}
				if t == ")" {
					ts.pos++
					break
				}
				a, err := parseTypeTok(ts)
				if err != nil {
					return Type{}, err
				}
				args = append(args, a)
			}
			result, err := parseTypeTok(ts)
			if err != nil {
				return Type{}, err
			}
			if err := ts.expect(")"); err != nil {
				return Type{}, err
			}
			return FunctionT(args, result), nil
		}
		return Type{}, &ParseError{Msg: "unknown type constructor " + head}
	}
	return Type{}, &ParseError{Msg: "unexpected type token " + tok}
}
