package crawler

// Partition splits keys into contiguous chunks, one per worker. Every chunk
// holds len(keys)/workers keys except the last, which also takes the
// remainder. The worker count is clamped to [1, len(keys)].
func Partition(keys []string, workers int) [][]string {
	n := len(keys)
	if n == 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	size := n / workers
	parts := make([][]string, 0, workers)
	for i := 0; i < workers-1; i++ {
		parts = append(parts, keys[i*size:(i+1)*size:(i+1)*size])
	}
	parts = append(parts, keys[(workers-1)*size:])

	return parts
}
