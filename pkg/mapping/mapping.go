package mapping

// MapViewModels converts a slice of entities with the given mapper.
func MapViewModels[T, V any](entities []T, mapper func(T) V) []V {
	out := make([]V, 0, len(entities))
	for _, e := range entities {
		out = append(out, mapper(e))
	}
	return out
}
