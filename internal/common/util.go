package common

// WipeByteArray overwrites b with zeros. Used for password buffers read from
// the terminal once they have been handed to the login exchange.
//
// If the slice is nil, the function does nothing.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
