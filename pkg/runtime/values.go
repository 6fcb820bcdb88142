package runtime

import (
	"fmt"
	"math/big"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindUndefined Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindSymbol
	KindBigInt
	KindObject
	KindArray
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSymbol:
		return "symbol"
	case KindBigInt:
		return "bigint"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindFunction:
		return "function"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Primitives
//-----------------------------------------------------------------------------

type UndefinedValue struct{}

func (UndefinedValue) Kind() Kind { return KindUndefined }

type NullValue struct{}

func (NullValue) Kind() Kind { return KindNull }

// Undefined and Null are the shared singletons for the two empty values.
var (
	Undefined = UndefinedValue{}
	Null      = NullValue{}
)

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

type NumberValue struct {
	Val float64
}

func (v NumberValue) Kind() Kind { return KindNumber }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

// SymbolValue is compared by pointer identity; two symbols with the same
// description are distinct.
type SymbolValue struct {
	Description string
}

func (v *SymbolValue) Kind() Kind { return KindSymbol }

// NewSymbol allocates a unique symbol.
func NewSymbol(description string) *SymbolValue {
	return &SymbolValue{Description: description}
}

type BigIntValue struct {
	Val *big.Int
}

func (v BigIntValue) Kind() Kind { return KindBigInt }

// Convenience constructors used by natives and tests.
func Str(s string) StringValue   { return StringValue{Val: s} }
func Num(f float64) NumberValue  { return NumberValue{Val: f} }
func Bool(b bool) BoolValue      { return BoolValue{Val: b} }
func BigInt(i int64) BigIntValue { return BigIntValue{Val: big.NewInt(i)} }

//-----------------------------------------------------------------------------
// Categories
//-----------------------------------------------------------------------------

// Category splits values into primitives and reference values capable of
// holding properties.
type Category int

const (
	CategoryPrimitive Category = iota
	CategoryReference
)

func (c Category) String() string {
	if c == CategoryReference {
		return "reference"
	}
	return "primitive"
}

// CategoryOf classifies v. A nil Value (no result at all) and nil reference
// pointers are primitive.
func CategoryOf(v Value) Category {
	switch val := v.(type) {
	case *Object:
		if val != nil {
			return CategoryReference
		}
	case *ArrayValue:
		if val != nil {
			return CategoryReference
		}
	case *FunctionValue:
		if val != nil {
			return CategoryReference
		}
	}
	return CategoryPrimitive
}

// TypeOf mirrors the host typeof operator.
func TypeOf(v Value) string {
	if v == nil {
		return "undefined"
	}
	switch v.Kind() {
	case KindNull, KindArray:
		return "object"
	default:
		return v.Kind().String()
	}
}

// IsCallable reports whether v can be invoked.
func IsCallable(v Value) bool {
	fn, ok := v.(*FunctionValue)
	return ok && fn != nil && fn.Impl != nil
}

// ObjectOf returns the property storage behind a reference value, or nil for
// primitives.
func ObjectOf(v Value) *Object {
	switch val := v.(type) {
	case *Object:
		return val
	case *ArrayValue:
		if val == nil {
			return nil
		}
		return val.Object
	case *FunctionValue:
		if val == nil {
			return nil
		}
		return val.Object
	default:
		return nil
	}
}

// SameValue compares values the way identity checks do: references by
// pointer, primitives by content. NaN equals NaN.
func SameValue(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if CategoryOf(a) == CategoryReference || CategoryOf(b) == CategoryReference {
		return ObjectOf(a) == ObjectOf(b) && a.Kind() == b.Kind()
	}
	switch av := a.(type) {
	case NumberValue:
		bv, ok := b.(NumberValue)
		if !ok {
			return false
		}
		if av.Val != av.Val && bv.Val != bv.Val {
			return true
		}
		return av.Val == bv.Val
	case BigIntValue:
		bv, ok := b.(BigIntValue)
		return ok && av.Val != nil && bv.Val != nil && av.Val.Cmp(bv.Val) == 0
	case *SymbolValue:
		bv, ok := b.(*SymbolValue)
		return ok && av == bv
	default:
		return a == b
	}
}

//-----------------------------------------------------------------------------
// Errors
//-----------------------------------------------------------------------------

// ThrownError carries a host value raised by a native implementation.
type ThrownError struct {
	Value Value
}

func (e *ThrownError) Error() string {
	if e == nil || e.Value == nil {
		return "uncaught undefined"
	}
	if obj := ObjectOf(e.Value); obj != nil {
		if msg, ok := obj.Get("message").(StringValue); ok {
			if name, ok := obj.Get("name").(StringValue); ok && name.Val != "" {
				return name.Val + ": " + msg.Val
			}
			return msg.Val
		}
	}
	switch v := e.Value.(type) {
	case StringValue:
		return v.Val
	case NumberValue:
		return fmt.Sprintf("uncaught %v", v.Val)
	default:
		return "uncaught " + TypeOf(v)
	}
}

// Throw wraps v so a native implementation can raise it.
func Throw(v Value) error {
	return &ThrownError{Value: v}
}
