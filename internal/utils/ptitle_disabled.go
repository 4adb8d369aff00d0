//go:build amd64

package utils

// SetProcTitle is a no-op on amd64, where gspt is not built.
func SetProcTitle(string) {}
