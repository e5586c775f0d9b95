package tool

import (
	"os"

	"github.com/go-errors/errors"
)

// IsFileExists reports whether filename exists. Errors other than "not
// found" are returned.
func IsFileExists(filename string) (bool, error) {
	_, err := os.Stat(filename)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Wrap(err, 0)
}
