//go:build !debug

package matrix

func debugLog(string, ...any) {}
