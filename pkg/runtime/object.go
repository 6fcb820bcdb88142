package runtime

import (
	"errors"
	"sync"
)

// ErrPrototypeCycle is returned when a prototype assignment would make an
// object its own ancestor.
var ErrPrototypeCycle = errors.New("cyclic prototype value")

type property struct {
	value      Value
	enumerable bool
}

// relink serialises prototype writes so a cycle check and the write it
// guards cannot interleave with another relink.
var relink sync.Mutex

// Object is a property bag with an optional delegate consulted when a lookup
// misses its own properties. The zero value is an empty object with no
// delegate.
type Object struct {
	mu    sync.RWMutex
	props map[string]*property
	keys  []string
	proto *Object

	// exotic serves own keys that are not stored in props, such as array
	// indices and length. It is consulted before props.
	exotic func(key string) (Value, bool)
}

func (o *Object) Kind() Kind { return KindObject }

// NewObject creates an empty object whose prototype link is proto. A nil
// proto yields a bare object with no delegate.
func NewObject(proto *Object) *Object {
	return &Object{props: make(map[string]*property), proto: proto}
}

// Prototype returns the delegate, or nil.
func (o *Object) Prototype() *Object {
	if o == nil {
		return nil
	}
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.proto
}

// SetPrototype relinks o. It refuses links that would form a cycle.
func (o *Object) SetPrototype(proto *Object) error {
	relink.Lock()
	defer relink.Unlock()
	for p := proto; p != nil; p = p.Prototype() {
		if p == o {
			return ErrPrototypeCycle
		}
	}
	o.mu.Lock()
	o.proto = proto
	o.mu.Unlock()
	return nil
}

// GetOwn returns an own property.
func (o *Object) GetOwn(key string) (Value, bool) {
	if o == nil {
		return nil, false
	}
	if o.exotic != nil {
		if v, ok := o.exotic(key); ok {
			return v, true
		}
	}
	o.mu.RLock()
	defer o.mu.RUnlock()
	p, ok := o.props[key]
	if !ok {
		return nil, false
	}
	return p.value, true
}

// Get resolves key on o and then along its prototype chain. Misses yield
// Undefined.
func (o *Object) Get(key string) Value {
	for cur := o; cur != nil; cur = cur.Prototype() {
		if v, ok := cur.GetOwn(key); ok {
			return v
		}
	}
	return Undefined
}

// Has reports whether key resolves anywhere on the chain.
func (o *Object) Has(key string) bool {
	for cur := o; cur != nil; cur = cur.Prototype() {
		if cur.HasOwn(key) {
			return true
		}
	}
	return false
}

// HasOwn reports whether key is an own property.
func (o *Object) HasOwn(key string) bool {
	_, ok := o.GetOwn(key)
	return ok
}

// Set writes an enumerable own property. Existing properties keep their
// position and enumerability.
func (o *Object) Set(key string, v Value) {
	o.define(key, v, true, false)
}

// DefineHidden writes a non-enumerable own property.
func (o *Object) DefineHidden(key string, v Value) {
	o.define(key, v, false, true)
}

func (o *Object) define(key string, v Value, enumerable, force bool) {
	if v == nil {
		v = Undefined
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.props == nil {
		o.props = make(map[string]*property)
	}
	if p, ok := o.props[key]; ok {
		p.value = v
		if force {
			p.enumerable = enumerable
		}
		return
	}
	o.props[key] = &property{value: v, enumerable: enumerable}
	o.keys = append(o.keys, key)
}

// Delete removes an own property and reports whether it existed.
func (o *Object) Delete(key string) bool {
	if o == nil {
		return false
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.props[key]; !ok {
		return false
	}
	delete(o.props, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return true
}

// OwnKeys lists enumerable own keys in insertion order.
func (o *Object) OwnKeys() []string {
	if o == nil {
		return nil
	}
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]string, 0, len(o.keys))
	for _, k := range o.keys {
		if o.props[k].enumerable {
			out = append(out, k)
		}
	}
	return out
}

// OwnEntries returns the enumerable own properties in insertion order.
func (o *Object) OwnEntries() []Entry {
	keys := o.OwnKeys()
	out := make([]Entry, 0, len(keys))
	for _, k := range keys {
		v, ok := o.GetOwn(k)
		if ok {
			out = append(out, Entry{Key: k, Value: v})
		}
	}
	return out
}

// Entry is a key/value pair of an own property.
type Entry struct {
	Key   string
	Value Value
}

// IsPrototypeOf reports whether o appears on v's prototype chain.
func (o *Object) IsPrototypeOf(v Value) bool {
	target := ObjectOf(v)
	if o == nil || target == nil {
		return false
	}
	for p := target.Prototype(); p != nil; p = p.Prototype() {
		if p == o {
			return true
		}
	}
	return false
}
