//go:build !amd64

package utils

import "github.com/erikdubbelboer/gspt"

// SetProcTitle sets the ps and top title through gspt, built everywhere but
// amd64. An empty title keeps the current one.
func SetProcTitle(title string) {
	if title == "" {
		return
	}
	gspt.SetProcTitle(title)
}
