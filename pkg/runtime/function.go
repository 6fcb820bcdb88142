package runtime

import "strconv"

// CallContext is handed to a native implementation on every invocation. This
// is the receiver the call was made with; Args are positional.
type CallContext struct {
	This   Value
	Args   []Value
	Callee *FunctionValue
}

// Arg returns the i-th argument, or Undefined when fewer were supplied.
func (c *CallContext) Arg(i int) Value {
	if c == nil || i < 0 || i >= len(c.Args) {
		return Undefined
	}
	if c.Args[i] == nil {
		return Undefined
	}
	return c.Args[i]
}

// ThisObject returns the receiver's property storage, or nil when the
// receiver is a primitive.
func (c *CallContext) ThisObject() *Object {
	if c == nil {
		return nil
	}
	return ObjectOf(c.This)
}

type NativeFunc func(*CallContext) (Value, error)

// FunctionValue is an invocable reference value. Its properties (including
// "prototype") live on the embedded Object, so values must be built with
// NewFunction or Realm.NewFunction rather than as literals.
type FunctionValue struct {
	*Object
	Name  string
	Arity int
	Impl  NativeFunc
}

func (v *FunctionValue) Kind() Kind { return KindFunction }

// NewFunction builds a function object without any intrinsic wiring; proto is
// the function's own delegate. Most callers want Realm.NewFunction.
func NewFunction(proto *Object, name string, arity int, impl NativeFunc) *FunctionValue {
	fn := &FunctionValue{Object: NewObject(proto), Name: name, Arity: arity, Impl: impl}
	fn.DefineHidden("name", Str(name))
	fn.DefineHidden("length", Num(float64(arity)))
	return fn
}

// Call invokes the implementation with receiver this.
func (v *FunctionValue) Call(this Value, args []Value) (Value, error) {
	if this == nil {
		this = Undefined
	}
	out, err := v.Impl(&CallContext{This: this, Args: args, Callee: v})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return Undefined, nil
	}
	return out, nil
}

// PrototypeProperty reads the current "prototype" property.
func (v *FunctionValue) PrototypeProperty() Value {
	return v.Get("prototype")
}

// DisplayName is the name used by renderers; empty for anonymous functions.
func (v *FunctionValue) DisplayName() string {
	if name, ok := v.Get("name").(StringValue); ok {
		return name.Val
	}
	return v.Name
}

//-----------------------------------------------------------------------------
// Arrays
//-----------------------------------------------------------------------------

// ArrayValue is an ordered list of values. Named properties and the
// prototype link live on the embedded Object.
type ArrayValue struct {
	*Object
	Elements []Value
}

func (v *ArrayValue) Kind() Kind { return KindArray }

// NewArray builds an array whose delegate is proto.
func NewArray(proto *Object, elems ...Value) *ArrayValue {
	out := make([]Value, len(elems))
	for i, e := range elems {
		if e == nil {
			e = Undefined
		}
		out[i] = e
	}
	arr := &ArrayValue{Object: NewObject(proto), Elements: out}
	arr.exotic = arr.element
	return arr
}

// element resolves "length" and canonical index keys. It backs own lookups on
// the embedded Object, so objects delegating to an array see its elements.
func (v *ArrayValue) element(key string) (Value, bool) {
	if key == "length" {
		return Num(float64(len(v.Elements))), true
	}
	i, err := strconv.Atoi(key)
	if err != nil || i < 0 || i >= len(v.Elements) || strconv.Itoa(i) != key {
		return nil, false
	}
	return v.Elements[i], true
}

// Index returns the element at i or Undefined.
func (v *ArrayValue) Index(i int) Value {
	if i < 0 || i >= len(v.Elements) {
		return Undefined
	}
	return v.Elements[i]
}
