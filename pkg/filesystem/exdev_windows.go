//go:build windows

package filesystem

import (
	"errors"
	"os"

	"golang.org/x/sys/windows"
)

func isEXDEV(err error) bool {
	if errors.Is(err, windows.ERROR_NOT_SAME_DEVICE) {
		return true
	}
	var le *os.LinkError
	if errors.As(err, &le) && errors.Is(le.Err, windows.ERROR_NOT_SAME_DEVICE) {
		return true
	}
	return false
}
