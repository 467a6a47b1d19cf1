package core

// BlockCapacity is the fixed capacity, in samples, of every device buffer.
// Device calls return at most this many samples.
const BlockCapacity = 256

// MinLen returns the smallest of lengths and BlockCapacity. It is the number
// of samples a device call processes.
func MinLen(lengths ...int) int {
	n := BlockCapacity
	for _, l := range lengths {
		if l < n {
			n = l
		}
	}
	if n < 0 {
		return 0
	}
	return n
}

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen[T any](buf []T, n int) []T {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]T, n)
}

// Fill sets every element of buf to v.
func Fill[T any](buf []T, v T) {
	for i := range buf {
		buf[i] = v
	}
}

// Zero sets all values in buf to the zero value.
func Zero[T any](buf []T) {
	var zero T
	Fill(buf, zero)
}

// CopyInto copies src into dst and returns the number of copied elements.
func CopyInto[T any](dst, src []T) int {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	copy(dst[:n], src[:n])
	return n
}
