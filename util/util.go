package util

// CopySlice returns a shallow copy of the given slice.  A nil slice stays nil.
func CopySlice[T any](slice []T) []T {
	if slice == nil {
		return nil
	}

	c := make([]T, len(slice))
	copy(c, slice)
	return c
}
