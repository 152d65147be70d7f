package reducers

// insert returns a new slice with item placed at index.
func insert[T any](list []T, index int, items ...T) []T {
	out := make([]T, 0, len(list)+len(items))
	out = append(out, list[:index]...)
	out = append(out, items...)
	out = append(out, list[index:]...)
	return out
}

// remove returns a new slice without the element at index.
func remove[T any](list []T, index int) []T {
	out := make([]T, 0, len(list)-1)
	out = append(out, list[:index]...)
	out = append(out, list[index+1:]...)
	return out
}

// reorder extracts the element at start and reinserts it at end.
// The end index is taken against the list after extraction.
func reorder[T any](list []T, start, end int) ([]T, bool) {
	if start < 0 || start >= len(list) || end < 0 || end >= len(list) {
		return nil, false
	}
	item := list[start]
	out := remove(list, start)
	return insert(out, end, item), true
}
