// Package inspect renders runtime values the way a console log line shows
// them: `Person1 { name: 'alice' }`, `[Function (anonymous)]`, `{}`.
package inspect

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"newop/construct-go/pkg/runtime"
)

// Options tune rendering.
type Options struct {
	// Depth is how many levels of nesting are expanded before collapsing
	// to `[Object]`.
	Depth int
	// BreakLength is the line width above which entries go on separate lines.
	BreakLength int
	// MaxArrayLength caps the number of array elements shown.
	MaxArrayLength int
}

// DefaultOptions matches the usual console defaults.
var DefaultOptions = Options{Depth: 2, BreakLength: 80, MaxArrayLength: 100}

// Format renders v as a log line would: top-level strings are printed raw.
func Format(v runtime.Value) string {
	if s, ok := v.(runtime.StringValue); ok {
		return s.Val
	}
	return Inspect(v)
}

// Inspect renders v with strings quoted.
func Inspect(v runtime.Value) string {
	return InspectWith(v, DefaultOptions)
}

// InspectWith renders v using opts.
func InspectWith(v runtime.Value, opts Options) string {
	p := &printer{opts: opts, circular: map[*runtime.Object]int{}}
	return p.value(v, 0, 0)
}

type printer struct {
	opts     Options
	stack    []*runtime.Object
	circular map[*runtime.Object]int
}

func (p *printer) value(v runtime.Value, depth, indent int) string {
	switch val := v.(type) {
	case nil, runtime.UndefinedValue:
		return "undefined"
	case runtime.NullValue:
		return "null"
	case runtime.BoolValue:
		return strconv.FormatBool(val.Val)
	case runtime.NumberValue:
		return FormatNumber(val.Val)
	case runtime.StringValue:
		return quote(val.Val)
	case *runtime.SymbolValue:
		return "Symbol(" + val.Description + ")"
	case runtime.BigIntValue:
		if val.Val == nil {
			return "0n"
		}
		return val.Val.String() + "n"
	case *runtime.FunctionValue:
		if val == nil {
			return "undefined"
		}
		return p.reference(val.Object, p.functionHead(val), nil, depth, indent)
	case *runtime.ArrayValue:
		if val == nil {
			return "undefined"
		}
		return p.reference(val.Object, "", val, depth, indent)
	case *runtime.Object:
		if val == nil {
			return "undefined"
		}
		return p.reference(val, "", nil, depth, indent)
	default:
		return fmt.Sprintf("[%s]", v.Kind())
	}
}

func (p *printer) functionHead(fn *runtime.FunctionValue) string {
	if name := fn.DisplayName(); name != "" {
		return "[Function: " + name + "]"
	}
	return "[Function (anonymous)]"
}

// reference renders objects, arrays and functions. head is non-empty for
// functions.
func (p *printer) reference(obj *runtime.Object, head string, arr *runtime.ArrayValue, depth, indent int) string {
	for _, seen := range p.stack {
		if seen == obj {
			idx, ok := p.circular[obj]
			if !ok {
				idx = len(p.circular) + 1
				p.circular[obj] = idx
			}
			return fmt.Sprintf("[Circular *%d]", idx)
		}
	}

	prefix := p.prefix(obj, arr)
	keys := obj.OwnKeys()
	if head != "" && len(keys) == 0 {
		return head
	}
	if arr == nil && head == "" && len(keys) == 0 {
		return prefix + "{}"
	}
	if arr != nil && len(arr.Elements) == 0 && len(keys) == 0 {
		return prefix + "[]"
	}

	if depth > p.opts.Depth {
		switch {
		case head != "":
			return head
		case arr != nil:
			return "[Array]"
		case prefix == "":
			return "[Object]"
		case strings.HasPrefix(prefix, "["):
			return strings.TrimSpace(prefix)
		default:
			return "[" + strings.TrimSpace(strings.SplitN(prefix, " ", 2)[0]) + "]"
		}
	}

	p.stack = append(p.stack, obj)
	entries := make([]string, 0, len(keys)+1)
	if arr != nil {
		limit := len(arr.Elements)
		if p.opts.MaxArrayLength > 0 && limit > p.opts.MaxArrayLength {
			limit = p.opts.MaxArrayLength
		}
		for _, el := range arr.Elements[:limit] {
			entries = append(entries, p.value(el, depth+1, indent+2))
		}
		if rest := len(arr.Elements) - limit; rest > 0 {
			entries = append(entries, fmt.Sprintf("... %d more item%s", rest, plural(rest)))
		}
	}
	for _, key := range keys {
		val, _ := obj.GetOwn(key)
		entries = append(entries, formatKey(key)+": "+p.value(val, depth+1, indent+2))
	}
	p.stack = p.stack[:len(p.stack)-1]

	open, closer := "{", "}"
	if arr != nil {
		open, closer = "[", "]"
	}
	start := prefix
	if head != "" {
		start = head + " "
	}
	out := p.join(start+open, entries, closer, indent)
	if idx, ok := p.circular[obj]; ok {
		out = fmt.Sprintf("<ref *%d> %s", idx, out)
	}
	return out
}

func (p *printer) join(open string, entries []string, closer string, indent int) string {
	total := len(open) + len(closer) + indent
	multiline := false
	for _, e := range entries {
		total += len(e) + 2
		if strings.Contains(e, "\n") {
			multiline = true
		}
	}
	if !multiline && total <= p.opts.BreakLength {
		return open + " " + strings.Join(entries, ", ") + " " + closer
	}
	pad := strings.Repeat(" ", indent+2)
	return open + "\n" + pad + strings.Join(entries, ",\n"+pad) + "\n" + strings.Repeat(" ", indent) + closer
}

// prefix returns the constructor label shown before a brace, e.g.
// "Person1 " or "[Object: null prototype] ".
func (p *printer) prefix(obj *runtime.Object, arr *runtime.ArrayValue) string {
	name, found := ConstructorName(obj)
	switch {
	case !found && arr != nil:
		return fmt.Sprintf("[Array(%d): null prototype] ", len(arr.Elements))
	case !found:
		return "[Object: null prototype] "
	case arr != nil && name != "Array":
		return fmt.Sprintf("%s(%d) ", name, len(arr.Elements))
	case arr == nil && name != "Object":
		return name + " "
	default:
		return ""
	}
}

// ConstructorName walks obj's chain for the first own "constructor" that obj
// is an instance of and returns its name. The boolean is false when the
// chain has none, as for null-prototype objects.
func ConstructorName(obj *runtime.Object) (string, bool) {
	for cur := obj; cur != nil; cur = cur.Prototype() {
		raw, ok := cur.GetOwn("constructor")
		if !ok {
			continue
		}
		fn, ok := raw.(*runtime.FunctionValue)
		if !ok || fn.DisplayName() == "" {
			continue
		}
		proto := runtime.ObjectOf(fn.PrototypeProperty())
		if proto != nil && proto.IsPrototypeOf(obj) {
			return fn.DisplayName(), true
		}
	}
	return "", false
}

// FormatNumber renders a float64 the way the host number-to-string
// conversion does.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0 && math.Signbit(f):
		return "-0"
	}
	abs := math.Abs(f)
	if abs == 0 || (abs >= 1e-6 && abs < 1e21) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	digits := strings.TrimLeft(exp[1:], "0")
	return mant + "e" + sign + digits
}

func formatKey(key string) string {
	if isIdent(key) {
		return key
	}
	return quote(key)
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || r == '$' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

// quote prefers single quotes and switches delimiter to avoid escaping.
func quote(s string) string {
	delim := '\''
	if strings.ContainsRune(s, '\'') {
		switch {
		case !strings.ContainsRune(s, '"'):
			delim = '"'
		case !strings.ContainsRune(s, '`'):
			delim = '`'
		}
	}
	var b strings.Builder
	b.WriteRune(delim)
	for _, r := range s {
		switch r {
		case delim:
			b.WriteRune('\\')
			b.WriteRune(r)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteRune(delim)
	return b.String()
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
