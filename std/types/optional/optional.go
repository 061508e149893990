package optional

// Optional holds a value of type T or nothing.
// The zero Optional is empty, which lets a queue sentinel exist
// without inventing a placeholder T.
type Optional[T any] struct {
	value T
	isSet bool
}

// Some creates an optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, isSet: true}
}

// None creates an empty optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// IsSet returns true if a value is present.
func (o Optional[T]) IsSet() bool {
	return o.isSet
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.isSet
}

// GetOr returns the value or def if absent.
func (o Optional[T]) GetOr(def T) T {
	if o.isSet {
		return o.value
	}
	return def
}

// Unwrap returns the value or panics if absent.
func (o Optional[T]) Unwrap() T {
	if !o.isSet {
		panic("optional: value is not set")
	}
	return o.value
}

// Set stores v.
func (o *Optional[T]) Set(v T) {
	o.value = v
	o.isSet = true
}

// Take returns the value and leaves the optional empty.
// The stored T is zeroed so it no longer pins anything for the GC.
func (o *Optional[T]) Take() (v T, ok bool) {
	v, ok = o.value, o.isSet
	var zero T
	o.value = zero
	o.isSet = false
	return v, ok
}

// Unset empties the optional.
func (o *Optional[T]) Unset() {
	o.Take()
}
