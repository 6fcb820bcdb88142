package runtime

// Realm holds the intrinsic prototypes that plain objects, arrays and
// functions delegate to. Values from different realms never share
// intrinsics.
type Realm struct {
	ObjectPrototype   *Object
	FunctionPrototype *Object
	ArrayPrototype    *Object

	ObjectConstructor   *FunctionValue
	FunctionConstructor *FunctionValue
	ArrayConstructor    *FunctionValue
}

// NewRealm wires the intrinsic prototypes and their constructors.
func NewRealm() *Realm {
	r := &Realm{}
	r.ObjectPrototype = NewObject(nil)
	r.FunctionPrototype = NewObject(r.ObjectPrototype)
	r.ArrayPrototype = NewObject(r.ObjectPrototype)

	r.ObjectConstructor = r.intrinsic("Object", 1, r.ObjectPrototype, func(call *CallContext) (Value, error) {
		arg := call.Arg(0)
		if CategoryOf(arg) == CategoryReference {
			return arg, nil
		}
		return r.NewObject(), nil
	})
	r.FunctionConstructor = r.intrinsic("Function", 1, r.FunctionPrototype, func(call *CallContext) (Value, error) {
		return r.NewFunction("anonymous", 0, func(*CallContext) (Value, error) { return Undefined, nil }), nil
	})
	r.ArrayConstructor = r.intrinsic("Array", 1, r.ArrayPrototype, func(call *CallContext) (Value, error) {
		return r.NewArray(call.Args...), nil
	})
	return r
}

func (r *Realm) intrinsic(name string, arity int, proto *Object, impl NativeFunc) *FunctionValue {
	fn := NewFunction(r.FunctionPrototype, name, arity, impl)
	fn.DefineHidden("prototype", proto)
	proto.DefineHidden("constructor", fn)
	return fn
}

// NewObject creates a plain object delegating to the realm's Object
// prototype, like an object literal.
func (r *Realm) NewObject() *Object {
	return NewObject(r.ObjectPrototype)
}

// NewObjectFrom creates a plain object with the given enumerable properties
// in order.
func (r *Realm) NewObjectFrom(entries ...Entry) *Object {
	obj := r.NewObject()
	for _, e := range entries {
		obj.Set(e.Key, e.Value)
	}
	return obj
}

// NewArray creates an array delegating to the realm's Array prototype.
func (r *Realm) NewArray(elems ...Value) *ArrayValue {
	return NewArray(r.ArrayPrototype, elems...)
}

// NewFunction creates a function the way a declaration does: it delegates to
// the Function prototype and owns a fresh "prototype" object whose hidden
// "constructor" points back at it.
func (r *Realm) NewFunction(name string, arity int, impl NativeFunc) *FunctionValue {
	fn := NewFunction(r.FunctionPrototype, name, arity, impl)
	proto := r.NewObject()
	proto.DefineHidden("constructor", fn)
	fn.DefineHidden("prototype", proto)
	return fn
}

// NewError creates an error-like object carrying name and message.
func (r *Realm) NewError(name, message string) *Object {
	obj := r.NewObject()
	obj.DefineHidden("name", Str(name))
	obj.DefineHidden("message", Str(message))
	return obj
}
