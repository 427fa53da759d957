// Package utils provides loose type conversion helpers.
//
// Lore records arrive as decoded JSON (float64, string, []any) while SQL drivers return
// []byte, int64 or time values. The helpers here collapse those shapes into the handful of
// Go types the property codecs work with.
package utils
