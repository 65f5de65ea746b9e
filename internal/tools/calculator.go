package tools

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"xantus-mcp-go/internal/validate"
)

// CalculatorTool evaluates basic arithmetic expressions with standard
// operator precedence and parenthesization. No variables, no function
// calls.
type CalculatorTool struct {
	logger zerolog.Logger
}

// NewCalculatorTool creates a new calculator tool.
func NewCalculatorTool(logger zerolog.Logger) *CalculatorTool {
	return &CalculatorTool{
		logger: logger.With().Str("component", "calculator_tool").Logger(),
	}
}

// Name returns the name of the tool.
func (t *CalculatorTool) Name() string {
	return "calculator"
}

// Definition returns the tool definition.
func (t *CalculatorTool) Definition() Definition {
	return Definition{
		Name:        t.Name(),
		Description: "Perform basic arithmetic calculations",
		InputSchema: validate.Schema{
			Type: "object",
			Properties: map[string]validate.Property{
				"expression": {
					Type:        "string",
					Description: "Arithmetic expression to evaluate (e.g. '2 + 3 * 4')",
				},
				"precision": {
					Type:        "number",
					Description: "Number of decimal places in the result",
					Default:     float64(2),
				},
			},
			Required: []string{"expression"},
		},
	}
}

// Call evaluates the expression argument and formats the rounded result.
func (t *CalculatorTool) Call(ctx context.Context, tc ToolContext, args map[string]any) (*Response, error) {
	expression, _ := args["expression"].(string)
	precision := int32(2)
	if p, ok := numberArg(args, "precision"); ok {
		precision = int32(p)
	}

	t.logger.Debug().
		Str("request_id", tc.RequestID).
		Str("expression", expression).
		Int32("precision", precision).
		Msg("Evaluating expression")

	if !validExpressionCharset(expression) {
		return ErrorResponse("Invalid characters in expression: only digits, operators (+ - * /) and parentheses are allowed"), nil
	}

	result, err := evalExpression(expression)
	if err != nil {
		return ErrorResponse(err.Error()), nil
	}
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return ErrorResponse("Expression did not evaluate to a finite number"), nil
	}

	formatted := decimal.NewFromFloat(result).Round(precision).String()
	return TextResponse(fmt.Sprintf("Calculation Result: %s = %s", expression, formatted)), nil
}

func numberArg(args map[string]any, key string) (float64, bool) {
	switch v := args[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

func validExpressionCharset(expression string) bool {
	for _, r := range expression {
		switch {
		case r >= '0' && r <= '9':
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
		case r == '.' || r == '+' || r == '-' || r == '*' || r == '/' || r == '(' || r == ')':
		default:
			return false
		}
	}
	return true
}

// exprParser is a recursive-descent parser over the sanitized charset.
// Grammar: expr := term (('+'|'-') term)*
//          term := unary (('*'|'/') unary)*
//          unary := ('-'|'+') unary | '(' expr ')' | number
type exprParser struct {
	input []rune
	pos   int
}

func evalExpression(expression string) (float64, error) {
	p := &exprParser{input: []rune(expression)}
	p.skipSpace()
	if p.pos >= len(p.input) {
		return 0, fmt.Errorf("Expression is empty")
	}
	value, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if p.pos < len(p.input) {
		return 0, fmt.Errorf("Unexpected character %q at position %d", p.input[p.pos], p.pos)
	}
	return value, nil
}

func (p *exprParser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t' ||
		p.input[p.pos] == '\n' || p.input[p.pos] == '\r') {
		p.pos++
	}
}

func (p *exprParser) peek() rune {
	p.skipSpace()
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *exprParser) parseExpr() (float64, error) {
	value, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '+':
			p.pos++
			rhs, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			value += rhs
		case '-':
			p.pos++
			rhs, err := p.parseTerm()
			if err != nil {
				return 0, err
			}
			value -= rhs
		default:
			return value, nil
		}
	}
}

func (p *exprParser) parseTerm() (float64, error) {
	value, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '*':
			p.pos++
			rhs, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			value *= rhs
		case '/':
			p.pos++
			rhs, err := p.parseUnary()
			if err != nil {
				return 0, err
			}
			value /= rhs
		default:
			return value, nil
		}
	}
}

func (p *exprParser) parseUnary() (float64, error) {
	switch p.peek() {
	case '-':
		p.pos++
		value, err := p.parseUnary()
		return -value, err
	case '+':
		p.pos++
		return p.parseUnary()
	case '(':
		p.pos++
		value, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		if p.peek() != ')' {
			return 0, fmt.Errorf("Missing closing parenthesis")
		}
		p.pos++
		return value, nil
	}
	return p.parseNumber()
}

func (p *exprParser) parseNumber() (float64, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.input) && (p.input[p.pos] >= '0' && p.input[p.pos] <= '9' || p.input[p.pos] == '.') {
		p.pos++
	}
	if p.pos == start {
		return 0, fmt.Errorf("Expected a number at position %d", start)
	}
	text := string(p.input[start:p.pos])
	if strings.Count(text, ".") > 1 {
		return 0, fmt.Errorf("Malformed number %q", text)
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("Malformed number %q", text)
	}
	return value, nil
}
