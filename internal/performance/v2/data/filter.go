package data

import (
	"log"
	"regexp"
	"strconv"
	"strings"
)

// filterOp is one of the comparison operators the grammar accepts.
type filterOp string

const (
	opEQ filterOp = "="
	opNE filterOp = "!="
	opGT filterOp = ">"
	opLT filterOp = "<"
	opGE filterOp = ">="
	opLE filterOp = "<="
)

// Filter is the parsed form of a single `column OP literal` comparison
// (§4.1.4). The grammar is intentionally minimal; richer expression
// filtering belongs to a surrounding layer, not to this core.
type Filter struct {
	Column  string
	Op      filterOp
	Literal string
	Numeric bool
	Num     float64
}

// filterPattern mirrors the one-liner regexp style
// engine.parseThresholdExpression already uses for its own small grammar.
var filterPattern = regexp.MustCompile(`^\s*([A-Za-z0-9_.]+)\s*(!=|>=|<=|=|>|<)\s*(.+?)\s*$`)

// parseFilter parses a filter expression. Parse errors downgrade to "no
// filtering" with a logged warning rather than failing load, per §4.1.4.
func parseFilter(expr string) *Filter {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil
	}

	m := filterPattern.FindStringSubmatch(expr)
	if m == nil {
		log.Printf("data: ignoring unparsable filter expression %q", expr)
		return nil
	}

	f := &Filter{Column: m[1], Op: filterOp(m[2]), Literal: m[3]}

	literal := f.Literal
	quoted := len(literal) >= 2 && (literal[0] == '"' && literal[len(literal)-1] == '"' ||
		literal[0] == '\'' && literal[len(literal)-1] == '\'')
	if quoted {
		f.Literal = literal[1 : len(literal)-1]
	} else if n, err := strconv.ParseFloat(literal, 64); err == nil {
		f.Numeric = true
		f.Num = n
	}

	return f
}

// Match reports whether a row satisfies the filter.
func (f *Filter) Match(r *Row) bool {
	v, ok := r.Get(f.Column)
	if !ok {
		return false
	}

	if f.Numeric {
		var actual float64
		switch v.Kind {
		case KindInt:
			actual = float64(v.Int)
		case KindReal:
			actual = v.Real
		default:
			n, err := strconv.ParseFloat(v.Text, 64)
			if err != nil {
				return false
			}
			actual = n
		}
		return compareNumeric(actual, f.Op, f.Num)
	}

	return compareText(v.Text, f.Op, f.Literal)
}

func compareNumeric(a float64, op filterOp, b float64) bool {
	switch op {
	case opEQ:
		return a == b
	case opNE:
		return a != b
	case opGT:
		return a > b
	case opLT:
		return a < b
	case opGE:
		return a >= b
	case opLE:
		return a <= b
	default:
		return false
	}
}

func compareText(a string, op filterOp, b string) bool {
	switch op {
	case opEQ:
		return a == b
	case opNE:
		return a != b
	case opGT:
		return a > b
	case opLT:
		return a < b
	case opGE:
		return a >= b
	case opLE:
		return a <= b
	default:
		return false
	}
}
