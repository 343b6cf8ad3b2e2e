package bus

import "reflect"

// Key identifies the registry bucket for one concrete message type.
// Keys are comparable values; two keys built for the same type are equal
// no matter where or when they were constructed.
type Key struct {
	name string
	rt   reflect.Type
}

// KeyOf returns the key for the message type M.
//
// Example:
//
//	key := bus.KeyOf[UserCreated]()
func KeyOf[M any]() Key {
	return keyForType(reflect.TypeOf((*M)(nil)).Elem())
}

// KeyFor returns the key for the dynamic type of msg.
// A nil message yields the zero Key, which matches nothing.
func KeyFor(msg any) Key {
	t := reflect.TypeOf(msg)
	if t == nil {
		return Key{}
	}
	return keyForType(t)
}

// Name returns the stable, package-qualified name of the keyed type.
// Bucket identity is by name; the matching predicate is not part of equality.
func (k Key) Name() string {
	return k.name
}

// Matches reports whether msg belongs to this key, i.e. whether the dynamic
// type of msg is exactly the keyed type. Pointer and value types are distinct
// keys: *UserCreated does not match the UserCreated bucket.
func (k Key) Matches(msg any) bool {
	if k.rt == nil || msg == nil {
		return false
	}
	return reflect.TypeOf(msg) == k.rt
}

// keyForType derives the bucket name from the type's package path and name,
// so same-named types in different packages never collide. Unnamed types
// (maps, slices, primitives) fall back to their type string.
func keyForType(t reflect.Type) Key {
	name := t.String()
	if pkg := t.PkgPath(); pkg != "" {
		name = pkg + "." + t.Name()
	}
	return Key{name: name, rt: t}
}
