package scenario

import (
	"errors"
	"strconv"

	"newop/construct-go/pkg/construct"
	"newop/construct-go/pkg/inspect"
	"newop/construct-go/pkg/runtime"
)

var builtins = []Scenario{
	{
		Name:        "non-object-return",
		Description: "constructor assigns to its receiver and returns nothing",
		run:         runNonObjectReturn,
	},
	{
		Name:        "object-return",
		Description: "constructor returns a plain object literal",
		run:         runObjectReturn,
	},
	{
		Name:        "function-return",
		Description: "constructor returns a function",
		run:         runFunctionReturn,
	},
	{
		Name:        "primitive-return",
		Description: "constructor returns a number, which is ignored",
		run:         runPrimitiveReturn,
	},
	{
		Name:        "argument-forwarding",
		Description: "arguments reach the constructor positionally",
		run:         runArgumentForwarding,
	},
	{
		Name:        "prototype-reassigned",
		Description: "prototype property replaced right before construction",
		run:         runPrototypeReassigned,
	},
	{
		Name:        "null-prototype",
		Description: "prototype property set to null",
		run:         runNullPrototype,
	},
	{
		Name:        "prototype-chain",
		Description: "instance of a constructor whose prototype delegates to another's",
		run:         runPrototypeChain,
	},
	{
		Name:        "array-prototype",
		Description: "prototype property set to an array",
		run:         runArrayPrototype,
	},
	{
		Name:        "intrinsic-constructors",
		Description: "constructing with the Object, Function and Array intrinsics",
		run:         runIntrinsicConstructors,
	},
	{
		Name:        "throwing-constructor",
		Description: "constructor throws; the thrown value propagates",
		run:         runThrowingConstructor,
	},
	{
		Name:        "invalid-callable",
		Description: "constructing with the number 42",
		run:         runInvalidCallable,
	},
}

func runNonObjectReturn(env *Env, rec *Recorder) {
	person := env.Realm.NewFunction("Person1", 1, func(call *runtime.CallContext) (runtime.Value, error) {
		call.ThisObject().Set("name", call.Arg(0))
		return nil, nil
	})
	outcome, err := rec.Construct(env, person, runtime.Str("alice"))
	if err != nil {
		rec.Check("constructs", false, "%v", err)
		return
	}
	obj := runtime.ObjectOf(outcome.Value)
	rec.Check("returns fresh instance", outcome.Tag == construct.OutcomeFresh, "got %s", outcome.Tag)
	rec.Same("own name", runtime.Str("alice"), obj.Get("name"))
	rec.Check("only own property is name", len(obj.OwnKeys()) == 1 && obj.HasOwn("name"), "own keys %v", obj.OwnKeys())
	rec.Same("prototype is Person1.prototype", person.PrototypeProperty(), construct.PrototypeOf(outcome.Value))
	isInstance, _ := construct.InstanceOf(outcome.Value, person)
	rec.Check("instance of Person1", isInstance, "")
	rec.Check("renders as Person1 instance", inspect.Inspect(outcome.Value) == "Person1 { name: 'alice' }", "got %s", inspect.Inspect(outcome.Value))
}

func runObjectReturn(env *Env, rec *Recorder) {
	var returned *runtime.Object
	person := env.Realm.NewFunction("Person2", 1, func(call *runtime.CallContext) (runtime.Value, error) {
		name := inspect.Format(call.Arg(0))
		returned = env.Realm.NewObjectFrom(runtime.Entry{Key: "name", Value: runtime.Str("hello, " + name)})
		return returned, nil
	})
	outcome, err := rec.Construct(env, person, runtime.Str("bob"))
	if err != nil {
		rec.Check("constructs", false, "%v", err)
		return
	}
	rec.Check("returns invocation result", outcome.Tag == construct.OutcomeResult, "got %s", outcome.Tag)
	rec.Same("identity with returned object", returned, outcome.Value)
	rec.Same("name", runtime.Str("hello, bob"), runtime.ObjectOf(outcome.Value).Get("name"))
	rec.Same("prototype is Object.prototype", env.Realm.ObjectPrototype, construct.PrototypeOf(outcome.Value))
	isInstance, _ := construct.InstanceOf(outcome.Value, person)
	rec.Check("not an instance of Person2", !isInstance, "")
}

func runFunctionReturn(env *Env, rec *Recorder) {
	var inner *runtime.FunctionValue
	ctor := env.Realm.NewFunction("FunctionTest", 0, func(*runtime.CallContext) (runtime.Value, error) {
		inner = env.Realm.NewFunction("", 0, func(*runtime.CallContext) (runtime.Value, error) { return nil, nil })
		return inner, nil
	})
	outcome, err := rec.Construct(env, ctor)
	if err != nil {
		rec.Check("constructs", false, "%v", err)
		return
	}
	rec.Check("returns invocation result", outcome.Tag == construct.OutcomeResult, "got %s", outcome.Tag)
	rec.Same("identity with returned function", inner, outcome.Value)
	rec.Check("typeof is function", runtime.TypeOf(outcome.Value) == "function", "got %s", runtime.TypeOf(outcome.Value))
	rec.Same("prototype is Function.prototype", env.Realm.FunctionPrototype, construct.PrototypeOf(outcome.Value))
}

func runPrimitiveReturn(env *Env, rec *Recorder) {
	ctor := env.Realm.NewFunction("Counter", 0, func(call *runtime.CallContext) (runtime.Value, error) {
		call.ThisObject().Set("count", runtime.Num(1))
		return runtime.Num(7), nil
	})
	outcome, err := rec.Construct(env, ctor)
	if err != nil {
		rec.Check("constructs", false, "%v", err)
		return
	}
	rec.Check("returns fresh instance", outcome.Tag == construct.OutcomeFresh, "got %s", outcome.Tag)
	rec.Same("receiver assignments kept", runtime.Num(1), runtime.ObjectOf(outcome.Value).Get("count"))
	rec.Same("prototype is Counter.prototype", ctor.PrototypeProperty(), construct.PrototypeOf(outcome.Value))
}

func runArgumentForwarding(env *Env, rec *Recorder) {
	args := []runtime.Value{runtime.Str("a"), runtime.Num(2), runtime.Null, runtime.Bool(true)}
	var seen []runtime.Value
	var receiver runtime.Value
	ctor := env.Realm.NewFunction("Recorder", len(args), func(call *runtime.CallContext) (runtime.Value, error) {
		receiver = call.This
		seen = append([]runtime.Value(nil), call.Args...)
		call.ThisObject().Set("args", env.Realm.NewArray(call.Args...))
		return nil, nil
	})
	outcome, err := rec.Construct(env, ctor, args...)
	if err != nil {
		rec.Check("constructs", false, "%v", err)
		return
	}
	rec.Check("argument count", len(seen) == len(args), "want %d, got %d", len(args), len(seen))
	for i := range args {
		if i < len(seen) {
			rec.Same("argument "+strconv.Itoa(i), args[i], seen[i])
		}
	}
	rec.Same("receiver is the returned instance", outcome.Value, receiver)
}

func runPrototypeReassigned(env *Env, rec *Recorder) {
	animal := env.Realm.NewFunction("Animal", 0, func(call *runtime.CallContext) (runtime.Value, error) {
		call.ThisObject().Set("legs", runtime.Num(4))
		return nil, nil
	})
	stale := animal.PrototypeProperty()
	replacement := env.Realm.NewObject()
	replacement.Set("kind", runtime.Str("replaced"))
	animal.Set("prototype", replacement)

	outcome, err := rec.Construct(env, animal)
	if err != nil {
		rec.Check("constructs", false, "%v", err)
		return
	}
	proto := construct.PrototypeOf(outcome.Value)
	rec.Same("prototype is the replacement", replacement, proto)
	rec.Check("prototype is not the original", !runtime.SameValue(stale, proto), "")
	rec.Same("inherits from replacement", runtime.Str("replaced"), runtime.ObjectOf(outcome.Value).Get("kind"))
}

func runNullPrototype(env *Env, rec *Recorder) {
	ctor := env.Realm.NewFunction("Bare", 0, func(call *runtime.CallContext) (runtime.Value, error) {
		call.ThisObject().Set("ok", runtime.Bool(true))
		return nil, nil
	})
	ctor.Set("prototype", runtime.Null)

	outcome, err := rec.Construct(env, ctor)
	if err != nil {
		rec.Check("constructs", false, "%v", err)
		return
	}
	rec.Same("no prototype", runtime.Null, construct.PrototypeOf(outcome.Value))
	rec.Same("receiver assignments kept", runtime.Bool(true), runtime.ObjectOf(outcome.Value).Get("ok"))
}

func runPrototypeChain(env *Env, rec *Recorder) {
	animal := env.Realm.NewFunction("Animal", 0, func(call *runtime.CallContext) (runtime.Value, error) {
		call.ThisObject().Set("legs", runtime.Num(4))
		return nil, nil
	})
	animalProto := runtime.ObjectOf(animal.PrototypeProperty())
	animalProto.Set("speaks", runtime.Bool(true))

	dog := env.Realm.NewFunction("Dog", 1, func(call *runtime.CallContext) (runtime.Value, error) {
		call.ThisObject().Set("name", call.Arg(0))
		return nil, nil
	})
	dogProto := runtime.ObjectOf(dog.PrototypeProperty())
	if err := dogProto.SetPrototype(animalProto); err != nil {
		rec.Check("links Dog.prototype to Animal.prototype", false, "%v", err)
		return
	}
	err := animalProto.SetPrototype(dogProto)
	rec.Check("cyclic relink refused", errors.Is(err, runtime.ErrPrototypeCycle), "got %v", err)

	outcome, err := rec.Construct(env, dog, runtime.Str("rex"))
	if err != nil {
		rec.Check("constructs", false, "%v", err)
		return
	}
	for _, ctor := range []*runtime.FunctionValue{dog, animal, env.Realm.ObjectConstructor} {
		isInstance, err := construct.InstanceOf(outcome.Value, ctor)
		rec.Check("instance of "+ctor.DisplayName(), isInstance && err == nil, "got %t, %v", isInstance, err)
	}
	isInstance, _ := construct.InstanceOf(outcome.Value, env.Realm.ArrayConstructor)
	rec.Check("not an instance of Array", !isInstance, "")

	obj := runtime.ObjectOf(outcome.Value)
	rec.Check("inherits speaks", obj.Has("speaks") && !obj.HasOwn("speaks"), "")
	rec.Check("Animal constructor did not run", !obj.Has("legs"), "")

	obj.Set("speaks", runtime.Bool(false))
	rec.Same("own property shadows", runtime.Bool(false), obj.Get("speaks"))
	rec.Check("delete removes own property", obj.Delete("speaks"), "")
	rec.Same("inherited value visible again", runtime.Bool(true), obj.Get("speaks"))

	entries := obj.OwnEntries()
	rec.Check("own entries are name only", len(entries) == 1 && entries[0].Key == "name" && runtime.SameValue(entries[0].Value, runtime.Str("rex")), "got %v", entries)
}

func runArrayPrototype(env *Env, rec *Recorder) {
	ctor := env.Realm.NewFunction("Pair", 0, func(call *runtime.CallContext) (runtime.Value, error) {
		call.ThisObject().Set("tag", runtime.Str("pair"))
		return nil, nil
	})
	elems := env.Realm.NewArray(runtime.Num(1), runtime.Num(2))
	ctor.Set("prototype", elems)

	outcome, err := rec.Construct(env, ctor)
	if err != nil {
		rec.Check("constructs", false, "%v", err)
		return
	}
	obj := runtime.ObjectOf(outcome.Value)
	rec.Check("returns fresh instance", outcome.Tag == construct.OutcomeFresh, "got %s", outcome.Tag)
	rec.Same("prototype is the array", elems, construct.PrototypeOf(outcome.Value))
	rec.Same("inherits element 0", runtime.Num(1), obj.Get("0"))
	rec.Same("inherits element 1", runtime.Num(2), obj.Get("1"))
	rec.Same("inherits length", runtime.Num(2), obj.Get("length"))
	rec.Check("elements are not own", !obj.HasOwn("0") && !obj.HasOwn("length"), "")
}

func runIntrinsicConstructors(env *Env, rec *Recorder) {
	outcome, err := rec.Construct(env, env.Realm.ObjectConstructor)
	if err != nil {
		rec.Check("constructs Object", false, "%v", err)
		return
	}
	rec.Check("Object returns its own result", outcome.Tag == construct.OutcomeResult, "got %s", outcome.Tag)
	rec.Same("Object result delegates to Object.prototype", env.Realm.ObjectPrototype, construct.PrototypeOf(outcome.Value))

	existing := env.Realm.NewObjectFrom(runtime.Entry{Key: "kept", Value: runtime.Bool(true)})
	outcome, err = rec.Construct(env, env.Realm.ObjectConstructor, existing)
	if err == nil {
		rec.Same("Object passes a reference argument through", existing, outcome.Value)
	}

	outcome, err = rec.Construct(env, env.Realm.FunctionConstructor)
	if err != nil {
		rec.Check("constructs Function", false, "%v", err)
		return
	}
	rec.Check("Function yields a callable", runtime.IsCallable(outcome.Value), "got %s", runtime.TypeOf(outcome.Value))
	rec.Same("Function result delegates to Function.prototype", env.Realm.FunctionPrototype, construct.PrototypeOf(outcome.Value))

	outcome, err = rec.Construct(env, env.Realm.ArrayConstructor, runtime.Num(1), runtime.Num(2))
	if err != nil {
		rec.Check("constructs Array", false, "%v", err)
		return
	}
	rec.Check("Array yields an array", outcome.Value.Kind() == runtime.KindArray, "got %s", outcome.Value.Kind())
	rec.Same("Array length", runtime.Num(2), runtime.ObjectOf(outcome.Value).Get("length"))
	rec.Same("Array result delegates to Array.prototype", env.Realm.ArrayPrototype, construct.PrototypeOf(outcome.Value))
}

func runThrowingConstructor(env *Env, rec *Recorder) {
	thrownValue := env.Realm.NewError("TypeError", "name is required")
	var receiver runtime.Value
	ctor := env.Realm.NewFunction("Strict", 1, func(call *runtime.CallContext) (runtime.Value, error) {
		receiver = call.This
		return nil, runtime.Throw(thrownValue)
	})
	_, err := rec.Construct(env, ctor)
	rec.Check("fails", err != nil, "expected an error")

	var thrown *runtime.ThrownError
	rec.Check("error is the thrown value", errors.As(err, &thrown) && thrown.Value == runtime.Value(thrownValue), "got %v", err)
	rec.Check("not reported as invalid callable", !errors.Is(err, construct.ErrInvalidCallable), "")
	rec.Check("constructor ran", receiver != nil, "")
}

func runInvalidCallable(env *Env, rec *Recorder) {
	_, err := rec.Construct(env, runtime.Num(42))
	rec.Check("fails with invalid callable", errors.Is(err, construct.ErrInvalidCallable), "got %v", err)
}
