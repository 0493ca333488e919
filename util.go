//go:build !safe

package jwt

import "unsafe"

// BytesToString converts a byte slice to a string without memory
// allocation. The string shares the slice's backing array, so the
// caller must not modify the bytes afterwards. Build with the "safe"
// tag to get the copying conversions instead.
func BytesToString(b []byte) string {
	return unsafe.String(unsafe.SliceData(b), len(b))
}

// StringToBytes converts a string to a byte slice without memory
// allocation. The result must be treated as read-only.
func StringToBytes(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
