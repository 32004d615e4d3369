package expr

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// TokenType classifies a token produced by Tokenize.
type TokenType int

const (
	// Text is a variable or function name.
	Text TokenType = iota
	// Number is a numeric literal.
	Number
	// Operator is any arithmetic, comparison, logical or conditional operator.
	Operator
	// LeftBracket is an opening parenthesis.
	LeftBracket
	// RightBracket is a closing parenthesis.
	RightBracket
	// ArgumentSeparator separates the arguments of a function call.
	ArgumentSeparator
)

func (t TokenType) String() string {
	switch t {
	case Text:
		return "text"
	case Number:
		return "number"
	case Operator:
		return "operator"
	case LeftBracket:
		return "left_bracket"
	case RightBracket:
		return "right_bracket"
	case ArgumentSeparator:
		return "argument_separator"
	default:
		return fmt.Sprintf("TokenType(%d)", int(t))
	}
}

const (
	// EqualityMarker is the internal form of the "==" operator.
	EqualityMarker = "="
	// UnaryMinusMarker is the internal form of a unary "-".
	UnaryMinusMarker = "_"
	// PowerOperator raises its left operand to the power of its right one.
	// It binds tighter than any other operator, unary minus included, and is
	// right associative.
	PowerOperator = "^"
)

// Token is a single lexical element of an expression. Start and End are byte
// offsets into the text the token was read from.
type Token struct {
	Type  TokenType
	Value string
	Start int
	End   int
}

// IsVariable reports whether tokens[i] is a variable reference: a Text token
// that is not immediately followed by a LeftBracket.
func IsVariable(tokens []Token, i int) bool {
	if tokens[i].Type != Text {
		return false
	}
	return i == len(tokens)-1 || tokens[i+1].Type != LeftBracket
}

// Tokenize reads text into a sequence of typed tokens. The "==" operator is
// collapsed to EqualityMarker and a unary minus to UnaryMinusMarker.
// Whitespace-only text yields an empty sequence and no error.
func Tokenize(text string) ([]Token, error) {
	// HCL identifiers may contain dashes, so "b-1" would lex as one name. In an
	// equation a dash is always a minus sign: lex a copy where every dash is a
	// plus of the same width and read token values back from text. The power
	// operator is lexed the same way, as a star.
	lexable := strings.NewReplacer("-", "+", PowerOperator, "*").Replace(text)
	raw, diags := hclsyntax.LexExpression([]byte(lexable), "", hcl.InitialPos)
	if diags.HasErrors() {
		return nil, &ParseError{Text: text, Msg: diags.Error()}
	}

	var tokens []Token
	for i := 0; i < len(raw); i++ {
		t := raw[i]
		start, end := t.Range.Start.Byte, t.Range.End.Byte
		value := text[start:end]
		var typ TokenType
		switch t.Type {
		case hclsyntax.TokenEOF, hclsyntax.TokenNewline:
			continue
		case hclsyntax.TokenComment:
			return nil, &ParseError{
				Text: text,
				Msg:  fmt.Sprintf("comments are not allowed in expressions (byte %d)", start),
			}
		case hclsyntax.TokenIdent:
			if _, ok := reserved[strings.ToLower(value)]; ok {
				return nil, &ParseError{
					Text: text,
					Msg:  fmt.Sprintf("%q is a reserved word and cannot name a variable or function", value),
				}
			}
			typ = Text
		case hclsyntax.TokenNumberLit:
			typ = Number
		case hclsyntax.TokenDot:
			// ".5" is a number without its leading zero.
			if i+1 < len(raw) && raw[i+1].Type == hclsyntax.TokenNumberLit &&
				raw[i+1].Range.Start.Byte == end && !followsOperand(tokens) &&
				!strings.Contains(text[end:raw[i+1].Range.End.Byte], ".") {
				i++
				end = raw[i].Range.End.Byte
				tokens = appendToken(tokens, Token{Type: Number, Value: text[start:end], Start: start, End: end})
				continue
			}
			return nil, &ParseError{
				Text: text,
				Msg:  fmt.Sprintf("unsupported token %q at byte %d", value, start),
			}
		case hclsyntax.TokenOParen:
			typ = LeftBracket
		case hclsyntax.TokenCParen:
			typ = RightBracket
		case hclsyntax.TokenComma:
			typ = ArgumentSeparator
		case hclsyntax.TokenEqualOp:
			typ, value = Operator, EqualityMarker
		case hclsyntax.TokenPlus, hclsyntax.TokenStar, hclsyntax.TokenSlash,
			hclsyntax.TokenPercent, hclsyntax.TokenNotEqual, hclsyntax.TokenLessThan,
			hclsyntax.TokenLessThanEq, hclsyntax.TokenGreaterThan, hclsyntax.TokenGreaterThanEq,
			hclsyntax.TokenAnd, hclsyntax.TokenOr, hclsyntax.TokenBang, hclsyntax.TokenQuestion,
			hclsyntax.TokenColon:
			typ = Operator
		default:
			return nil, &ParseError{
				Text: text,
				Msg:  fmt.Sprintf("unsupported token %q at byte %d", value, start),
			}
		}
		tokens = appendToken(tokens, Token{Type: typ, Value: value, Start: start, End: end})
	}
	return tokens, nil
}

// reserved are words HCL reads as literals.
var reserved = map[string]struct{}{
	"true":  {},
	"false": {},
	"null":  {},
}

// followsOperand reports whether the last token can end an operand.
func followsOperand(tokens []Token) bool {
	if len(tokens) == 0 {
		return false
	}
	switch tokens[len(tokens)-1].Type {
	case Text, Number, RightBracket:
		return true
	}
	return false
}

// appendToken adds t to tokens, turning a minus sign into the unary marker
// when nothing that could be a left operand precedes it.
func appendToken(tokens []Token, t Token) []Token {
	if t.Type == Operator && t.Value == "-" {
		if len(tokens) == 0 {
			t.Value = UnaryMinusMarker
		} else {
			switch tokens[len(tokens)-1].Type {
			case Operator, LeftBracket, ArgumentSeparator:
				t.Value = UnaryMinusMarker
			}
		}
	}
	return append(tokens, t)
}

// Serialize writes tokens back out as expression text. The gaps between
// tokens are copied from src so that untouched text round-trips exactly; the
// equality and unary minus markers are re-expanded to "==" and "-".
func Serialize(src string, tokens []Token) string {
	var sb strings.Builder
	prev := 0
	for _, t := range tokens {
		if t.Start >= prev && t.Start <= len(src) {
			sb.WriteString(src[prev:t.Start])
		}
		sb.WriteString(sourceForm(t))
		if t.End > prev {
			prev = t.End
		}
	}
	if prev < len(src) {
		sb.WriteString(src[prev:])
	}
	return sb.String()
}

// canonical renders tokens as evaluator input: names are lowercased, tokens
// are separated by single spaces and every "a ^ b" becomes "pow(a, b)".
func canonical(tokens []Token) (string, error) {
	parts, err := renderSequence(tokens)
	if err != nil {
		return "", err
	}
	return strings.Join(parts, " "), nil
}

// renderSequence renders tokens that hold no unmatched bracket.
func renderSequence(tokens []Token) ([]string, error) {
	var parts []string
	for i := 0; i < len(tokens); {
		base, next, err := renderOperand(tokens, i)
		if err != nil {
			return nil, err
		}
		if next == i {
			if isPower(tokens[i]) {
				return nil, fmt.Errorf("operator %s at byte %d has no left operand", PowerOperator, tokens[i].Start)
			}
			parts = append(parts, sourceForm(tokens[i]))
			i++
			continue
		}
		i = next

		operands := []string{base}
		for i < len(tokens) && isPower(tokens[i]) {
			op := tokens[i]
			j := i + 1
			var prefix []string
			for j < len(tokens) && tokens[j].Type == Operator &&
				(tokens[j].Value == UnaryMinusMarker || tokens[j].Value == "!") {
				prefix = append(prefix, sourceForm(tokens[j]))
				j++
			}
			exp, next, err := renderOperand(tokens, j)
			if err != nil {
				return nil, err
			}
			if next == j {
				return nil, fmt.Errorf("operator %s at byte %d has no right operand", PowerOperator, op.Start)
			}
			operands = append(operands, strings.Join(append(prefix, exp), " "))
			i = next
		}

		acc := operands[len(operands)-1]
		for k := len(operands) - 2; k >= 0; k-- {
			acc = "pow(" + operands[k] + ", " + acc + ")"
		}
		parts = append(parts, acc)
	}
	return parts, nil
}

// renderOperand renders the number, variable, call or bracketed group
// starting at tokens[i] and returns the index after it. If no operand starts
// there it returns i unchanged.
func renderOperand(tokens []Token, i int) (string, int, error) {
	if i >= len(tokens) {
		return "", i, nil
	}
	t := tokens[i]
	switch t.Type {
	case Number:
		if strings.HasPrefix(t.Value, ".") {
			return "0" + t.Value, i + 1, nil
		}
		return t.Value, i + 1, nil
	case Text:
		name := strings.ToLower(t.Value)
		if !IsVariable(tokens, i) {
			end, err := matchBracket(tokens, i+1)
			if err != nil {
				return "", i, err
			}
			args, err := renderArguments(tokens[i+2 : end])
			if err != nil {
				return "", i, err
			}
			return name + "(" + args + ")", end + 1, nil
		}
		return name, i + 1, nil
	case LeftBracket:
		end, err := matchBracket(tokens, i)
		if err != nil {
			return "", i, err
		}
		inner, err := renderSequence(tokens[i+1 : end])
		if err != nil {
			return "", i, err
		}
		return "(" + strings.Join(inner, " ") + ")", end + 1, nil
	}
	return "", i, nil
}

// renderArguments renders the comma separated arguments of a call.
func renderArguments(tokens []Token) (string, error) {
	if len(tokens) == 0 {
		return "", nil
	}
	var args []string
	depth, start := 0, 0
	for i := 0; i <= len(tokens); i++ {
		if i < len(tokens) {
			switch tokens[i].Type {
			case LeftBracket:
				depth++
				continue
			case RightBracket:
				depth--
				continue
			case ArgumentSeparator:
				if depth > 0 {
					continue
				}
			default:
				continue
			}
		}
		parts, err := renderSequence(tokens[start:i])
		if err != nil {
			return "", err
		}
		args = append(args, strings.Join(parts, " "))
		start = i + 1
	}
	return strings.Join(args, ", "), nil
}

// matchBracket returns the index of the right bracket closing tokens[open].
func matchBracket(tokens []Token, open int) (int, error) {
	depth := 0
	for i := open; i < len(tokens); i++ {
		switch tokens[i].Type {
		case LeftBracket:
			depth++
		case RightBracket:
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("bracket at byte %d is never closed", tokens[open].Start)
}

func isPower(t Token) bool {
	return t.Type == Operator && t.Value == PowerOperator
}

func sourceForm(t Token) string {
	if t.Type != Operator {
		return t.Value
	}
	switch t.Value {
	case EqualityMarker:
		return "=="
	case UnaryMinusMarker:
		return "-"
	default:
		return t.Value
	}
}
