//go:build !darwin && !linux

package interaction

import "errors"

type termState struct{}

func (kr *KeyboardReader) enableRawMode() error {
	return errors.New("keyboard input is not supported on this platform")
}

func (kr *KeyboardReader) disableRawMode() error {
	return nil
}
