// Package statepath implements immutable, path-addressed updates over a
// typed state tree. An update returns a new tree in which only the nodes
// along the path have been replaced; every subtree off the path is shared
// by reference with the input. A path that crosses a missing node is a
// programming error and panics.
package statepath

import (
	"fmt"
	"reflect"
	"strings"
)

// Set returns a copy of tree with the node at path replaced by value.
// Ancestors along the path are shallow-copied, siblings keep identity.
func Set[T any](tree T, path Path, value any) T {
	out := setValue(reflect.ValueOf(tree), path, value)
	return out.Interface().(T)
}

// Push returns a copy of tree with value appended to the slice at path.
func Push[T any](tree T, path Path, value any) T {
	seq := lookup(reflect.ValueOf(tree), path)
	if seq.Kind() != reflect.Slice {
		panic(fmt.Sprintf("statepath: push target %q is %s, not a slice", path, seq.Kind()))
	}
	next := reflect.MakeSlice(seq.Type(), seq.Len(), seq.Len()+1)
	reflect.Copy(next, seq)
	next = reflect.Append(next, coerce(value, seq.Type().Elem()))
	return Set(tree, path, next.Interface())
}

// Remove returns a copy of tree with one element removed from the slice
// at path. An int selector removes by position (out of range panics);
// any other selector removes the first element equal to it, and leaves
// the tree untouched when nothing matches.
func Remove[T any](tree T, path Path, selector any) T {
	seq := lookup(reflect.ValueOf(tree), path)
	if seq.Kind() != reflect.Slice {
		panic(fmt.Sprintf("statepath: remove target %q is %s, not a slice", path, seq.Kind()))
	}

	idx := -1
	if i, ok := selector.(int); ok {
		if i < 0 || i >= seq.Len() {
			panic(fmt.Sprintf("statepath: remove index %d out of range at %q (len %d)", i, path, seq.Len()))
		}
		idx = i
	} else {
		for i := 0; i < seq.Len(); i++ {
			if reflect.DeepEqual(seq.Index(i).Interface(), selector) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return tree
		}
	}

	next := reflect.MakeSlice(seq.Type(), 0, seq.Len()-1)
	next = reflect.AppendSlice(next, seq.Slice(0, idx))
	next = reflect.AppendSlice(next, seq.Slice(idx+1, seq.Len()))
	return Set(tree, path, next.Interface())
}

// Insert returns a copy of tree with value spliced into the slice at path
// at the given position. Out-of-range positions panic.
func Insert[T any](tree T, path Path, index int, value any) T {
	seq := lookup(reflect.ValueOf(tree), path)
	if seq.Kind() != reflect.Slice {
		panic(fmt.Sprintf("statepath: insert target %q is %s, not a slice", path, seq.Kind()))
	}
	if index < 0 || index > seq.Len() {
		panic(fmt.Sprintf("statepath: insert index %d out of range at %q (len %d)", index, path, seq.Len()))
	}
	next := reflect.MakeSlice(seq.Type(), 0, seq.Len()+1)
	next = reflect.AppendSlice(next, seq.Slice(0, index))
	next = reflect.Append(next, coerce(value, seq.Type().Elem()))
	next = reflect.AppendSlice(next, seq.Slice(index, seq.Len()))
	return Set(tree, path, next.Interface())
}

// Get reads the node at path. Same resolution rules as Set, including
// the panic on a path through a missing node.
func Get(tree any, path Path) any {
	return lookup(reflect.ValueOf(tree), path).Interface()
}

func setValue(v reflect.Value, path Path, value any) reflect.Value {
	if len(path) == 0 {
		return coerce(value, v.Type())
	}

	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			panic(fmt.Sprintf("statepath: nil pointer at %q", path))
		}
		cp := reflect.New(v.Type().Elem())
		cp.Elem().Set(setValue(v.Elem(), path, value))
		return cp

	case reflect.Interface:
		if v.IsNil() {
			panic(fmt.Sprintf("statepath: nil value at %q", path))
		}
		out := reflect.New(v.Type()).Elem()
		out.Set(setValue(v.Elem(), path, value))
		return out

	case reflect.Struct:
		key := stringKey(path[0], v)
		i := fieldIndex(v.Type(), key)
		cp := reflect.New(v.Type()).Elem()
		cp.Set(v)
		cp.Field(i).Set(setValue(v.Field(i), path[1:], value))
		return cp

	case reflect.Map:
		key := reflect.ValueOf(stringKey(path[0], v))
		elem := v.MapIndex(key)
		if !elem.IsValid() {
			panic(fmt.Sprintf("statepath: missing key %v in map", path[0]))
		}
		cp := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			cp.SetMapIndex(iter.Key(), iter.Value())
		}
		cp.SetMapIndex(key, setValue(elem, path[1:], value))
		return cp

	case reflect.Slice:
		i, ok := path[0].(int)
		if !ok {
			panic(fmt.Sprintf("statepath: slice index must be int, got %T", path[0]))
		}
		if i < 0 || i >= v.Len() {
			panic(fmt.Sprintf("statepath: index %d out of range (len %d)", i, v.Len()))
		}
		cp := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		reflect.Copy(cp, v)
		cp.Index(i).Set(setValue(v.Index(i), path[1:], value))
		return cp
	}

	panic(fmt.Sprintf("statepath: cannot descend into %s at %q", v.Kind(), path))
}

func lookup(v reflect.Value, path Path) reflect.Value {
	for _, elem := range path {
		for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
			if v.IsNil() {
				panic(fmt.Sprintf("statepath: nil node at %v", elem))
			}
			v = v.Elem()
		}
		switch v.Kind() {
		case reflect.Struct:
			v = v.Field(fieldIndex(v.Type(), stringKey(elem, v)))
		case reflect.Map:
			v = v.MapIndex(reflect.ValueOf(stringKey(elem, v)))
			if !v.IsValid() {
				panic(fmt.Sprintf("statepath: missing key %v in map", elem))
			}
		case reflect.Slice:
			i, ok := elem.(int)
			if !ok {
				panic(fmt.Sprintf("statepath: slice index must be int, got %T", elem))
			}
			if i < 0 || i >= v.Len() {
				panic(fmt.Sprintf("statepath: index %d out of range (len %d)", i, v.Len()))
			}
			v = v.Index(i)
		default:
			panic(fmt.Sprintf("statepath: cannot descend into %s at %v", v.Kind(), elem))
		}
	}
	return v
}

func stringKey(elem any, v reflect.Value) string {
	s, ok := elem.(string)
	if !ok {
		panic(fmt.Sprintf("statepath: %s key must be string, got %T", v.Kind(), elem))
	}
	return s
}

// fieldIndex resolves key against a struct type: json tag name first,
// then exact field name.
func fieldIndex(t reflect.Type, key string) int {
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		if name, _, _ := strings.Cut(tag, ","); name == key {
			return i
		}
	}
	if f, ok := t.FieldByName(key); ok && len(f.Index) == 1 {
		return f.Index[0]
	}
	panic(fmt.Sprintf("statepath: no field %q on %s", key, t))
}

func coerce(value any, t reflect.Type) reflect.Value {
	if value == nil {
		return reflect.Zero(t)
	}
	v := reflect.ValueOf(value)
	if v.Type().AssignableTo(t) {
		return v
	}
	if v.Type().ConvertibleTo(t) {
		return v.Convert(t)
	}
	panic(fmt.Sprintf("statepath: cannot assign %s to %s", v.Type(), t))
}
