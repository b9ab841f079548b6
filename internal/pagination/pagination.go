package pagination

// Page returns items[(number-1)*size : number*size], clamped to the list. A
// page past the end, or a non-positive size or number, yields an empty slice.
func Page[T any](items []T, size, number int) []T {
	if size <= 0 || number <= 0 {
		return []T{}
	}

	start := (number - 1) * size
	if start >= len(items) {
		return []T{}
	}

	end := start + size
	if end > len(items) {
		end = len(items)
	}

	return items[start:end:end]
}

// Count is ceil(total/size), never less than one so that an empty list still
// renders a single page control.
func Count(total, size int) int {
	if size <= 0 || total <= 0 {
		return 1
	}

	return (total + size - 1) / size
}

func Numbers(total, size int) []int {
	n := Count(total, size)
	numbers := make([]int, n)
	for i := range numbers {
		numbers[i] = i + 1
	}

	return numbers
}
