package ui

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
)

// Confirm asks a yes/no question on the terminal. Ctrl+C or "n" both
// count as a decline.
func Confirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}

	_, err := prompt.Run()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, promptui.ErrAbort), errors.Is(err, promptui.ErrInterrupt):
		return false, nil
	default:
		return false, fmt.Errorf("prompt: %w", err)
	}
}
