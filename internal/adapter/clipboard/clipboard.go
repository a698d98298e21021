package clipboard

import (
	"fmt"

	"github.com/atotto/clipboard"

	"galaxy/internal/domain"
)

// System writes to the operating system clipboard.
type System struct{}

func New() *System {
	return &System{}
}

func (*System) Copy(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("%w: no clipboard utility found (install xclip, xsel or wl-clipboard)", domain.ErrClipboard)
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrClipboard, err)
	}
	return nil
}
