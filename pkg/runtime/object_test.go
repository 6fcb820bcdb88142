package runtime

import (
	"errors"
	"reflect"
	"sync"
	"testing"
)

func TestObjectDelegatesMissesToPrototype(t *testing.T) {
	parent := NewObject(nil)
	parent.Set("greeting", Str("hi"))
	child := NewObject(parent)
	child.Set("name", Str("alice"))

	if got := child.Get("greeting"); got != Str("hi") {
		t.Fatalf("expected inherited greeting, got %#v", got)
	}
	if child.HasOwn("greeting") || !child.Has("greeting") {
		t.Fatalf("greeting must be inherited, not own")
	}
	if got := child.Get("missing"); got != Undefined {
		t.Fatalf("expected Undefined on miss, got %#v", got)
	}

	child.Set("greeting", Str("hello"))
	if got := child.Get("greeting"); got != Str("hello") {
		t.Fatalf("own property must shadow prototype, got %#v", got)
	}
	if got := parent.Get("greeting"); got != Str("hi") {
		t.Fatalf("prototype must be untouched, got %#v", got)
	}
}

func TestObjectKeyOrderAndHidden(t *testing.T) {
	obj := NewObject(nil)
	obj.Set("b", Num(1))
	obj.Set("a", Num(2))
	obj.DefineHidden("secret", Num(3))
	obj.Set("b", Num(4))

	if got := obj.OwnKeys(); !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Fatalf("unexpected keys %v", got)
	}
	if v, ok := obj.GetOwn("secret"); !ok || v != Num(3) {
		t.Fatalf("hidden property must still be readable")
	}
	if !obj.Delete("b") || obj.Delete("b") {
		t.Fatalf("delete should report existence once")
	}
	entries := obj.OwnEntries()
	if len(entries) != 1 || entries[0].Key != "a" || entries[0].Value != Num(2) {
		t.Fatalf("unexpected entries %#v", entries)
	}
}

func TestObjectSetPrototypeRejectsCycles(t *testing.T) {
	a := NewObject(nil)
	b := NewObject(a)
	if err := a.SetPrototype(b); !errors.Is(err, ErrPrototypeCycle) {
		t.Fatalf("expected cycle error, got %v", err)
	}
	if err := a.SetPrototype(a); !errors.Is(err, ErrPrototypeCycle) {
		t.Fatalf("expected self-cycle error, got %v", err)
	}
	c := NewObject(nil)
	if err := b.SetPrototype(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Prototype() != c || !c.IsPrototypeOf(b) || a.IsPrototypeOf(b) {
		t.Fatalf("prototype link not updated")
	}
}

func TestObjectConcurrentAccess(t *testing.T) {
	proto := NewObject(nil)
	proto.Set("shared", Num(1))
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			obj := NewObject(proto)
			obj.Set("own", Num(2))
			if obj.Get("shared") != Num(1) {
				t.Errorf("shared lookup failed")
			}
		}()
	}
	wg.Wait()
}

func TestRealmFunctionsOwnPrototypeWithConstructor(t *testing.T) {
	realm := NewRealm()
	fn := realm.NewFunction("Person", 1, func(*CallContext) (Value, error) { return Undefined, nil })

	proto, ok := fn.PrototypeProperty().(*Object)
	if !ok {
		t.Fatalf("expected prototype object, got %#v", fn.PrototypeProperty())
	}
	if proto.Prototype() != realm.ObjectPrototype {
		t.Fatalf("function prototype must delegate to Object.prototype")
	}
	if ctor, _ := proto.GetOwn("constructor"); ctor != Value(fn) {
		t.Fatalf("constructor must point back at the function")
	}
	if len(proto.OwnKeys()) != 0 || len(fn.OwnKeys()) != 0 {
		t.Fatalf("intrinsic wiring must be non-enumerable")
	}
	if fn.Prototype() != realm.FunctionPrototype {
		t.Fatalf("function must delegate to Function.prototype")
	}
	if fn.DisplayName() != "Person" || fn.Get("length") != Num(1) {
		t.Fatalf("unexpected name/length")
	}
}

func TestArrayIndexing(t *testing.T) {
	realm := NewRealm()
	arr := realm.NewArray(Num(1), nil, Str("x"))
	if arr.Get("length") != Num(3) {
		t.Fatalf("unexpected length %#v", arr.Get("length"))
	}
	if arr.Get("1") != Undefined || arr.Get("2") != Str("x") || arr.Get("7") != Undefined {
		t.Fatalf("unexpected indexing")
	}
	if arr.Prototype() != realm.ArrayPrototype {
		t.Fatalf("array must delegate to Array.prototype")
	}
	ctor := arr.Get("constructor")
	if ctor != Value(realm.ArrayConstructor) {
		t.Fatalf("expected Array constructor via chain, got %#v", ctor)
	}
}

func TestCallContextArgs(t *testing.T) {
	realm := NewRealm()
	var seen []Value
	fn := realm.NewFunction("capture", 2, func(call *CallContext) (Value, error) {
		seen = []Value{call.Arg(0), call.Arg(1), call.Arg(2)}
		return nil, nil
	})
	out, err := fn.Call(nil, []Value{Str("a"), Num(2)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != Undefined {
		t.Fatalf("nil result should normalise to Undefined, got %#v", out)
	}
	if !reflect.DeepEqual(seen, []Value{Str("a"), Num(2), Undefined}) {
		t.Fatalf("unexpected args %#v", seen)
	}
}

func TestObjectDelegatingToArraySeesElements(t *testing.T) {
	realm := NewRealm()
	arr := realm.NewArray(Num(1), Num(2))
	child := NewObject(arr.Object)

	if got := child.Get("0"); got != Num(1) {
		t.Fatalf("expected inherited element, got %#v", got)
	}
	if got := child.Get("length"); got != Num(2) {
		t.Fatalf("expected inherited length, got %#v", got)
	}
	if child.HasOwn("0") || !child.Has("1") || child.Has("2") {
		t.Fatalf("elements must be inherited, not own")
	}
	if arr.Object.Get("length") != arr.Get("length") {
		t.Fatalf("backing object and array disagree on length")
	}
	if !arr.HasOwn("1") || arr.HasOwn("01") || arr.HasOwn("-1") {
		t.Fatalf("only canonical indices are own keys")
	}
	if len(arr.OwnKeys()) != 0 {
		t.Fatalf("elements must not appear among named keys, got %v", arr.OwnKeys())
	}
}

func TestObjectZeroValueIsUsable(t *testing.T) {
	var obj Object
	obj.Set("a", Num(1))
	obj.DefineHidden("b", Num(2))
	if obj.Get("a") != Num(1) || obj.Prototype() != nil {
		t.Fatalf("zero object must accept writes")
	}
	if got := obj.OwnKeys(); !reflect.DeepEqual(got, []string{"a"}) {
		t.Fatalf("unexpected keys %v", got)
	}

	var empty Object
	if empty.Delete("a") || empty.Has("a") {
		t.Fatalf("empty object has no properties")
	}
}

func TestObjectConcurrentRelinksNeverCycle(t *testing.T) {
	for i := 0; i < 200; i++ {
		a := NewObject(nil)
		b := NewObject(nil)
		var wg sync.WaitGroup
		errs := make([]error, 2)
		wg.Add(2)
		go func() { defer wg.Done(); errs[0] = a.SetPrototype(b) }()
		go func() { defer wg.Done(); errs[1] = b.SetPrototype(a) }()
		wg.Wait()

		failed := 0
		for _, err := range errs {
			if errors.Is(err, ErrPrototypeCycle) {
				failed++
			}
		}
		if failed != 1 {
			t.Fatalf("exactly one relink must be refused, got errors %v", errs)
		}
		if a.Prototype() == b && b.Prototype() == a {
			t.Fatalf("relinks formed a cycle")
		}
	}
}
