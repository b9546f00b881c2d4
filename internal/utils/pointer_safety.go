package utils

// Value dereferences v, giving the zero value for nil
func Value[T any](v *T) T {
	if v == nil {
		return *new(T)
	}
	return *v
}

func Ptr[T any](v T) *T {
	return &v
}

// Convert maps an optional value to another type, keeping nil as nil
func Convert[T, U any](v *T, f func(T) U) *U {
	if v == nil {
		return nil
	}
	return Ptr(f(*v))
}

// NilIfZero treats a pointer to the zero value as absent
func NilIfZero[T comparable](v *T) *T {
	var zero T
	if v == nil || *v == zero {
		return nil
	}
	return v
}
