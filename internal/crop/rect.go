package crop

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalid is returned for text that is not four non-negative integers.
var ErrInvalid = errors.New("invalid crop rectangle")

// Rect is a crop area. Its text form follows the crop filter argument order,
// width:height:x:y, which is also what cropdetect prints.
type Rect struct {
	Width  int
	Height int
	X      int
	Y      int
}

// Parse validates a crop candidate such as "720:528:0:16".
func Parse(text string) (Rect, error) {
	parts := strings.Split(strings.TrimSpace(text), ":")
	if len(parts) != 4 {
		return Rect{}, fmt.Errorf("%w: %q needs 4 fields, got %d", ErrInvalid, text, len(parts))
	}
	var values [4]int
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return Rect{}, fmt.Errorf("%w: %q field %d is not an integer", ErrInvalid, text, i+1)
		}
		if n < 0 {
			return Rect{}, fmt.Errorf("%w: %q field %d is negative", ErrInvalid, text, i+1)
		}
		values[i] = n
	}
	return Rect{Width: values[0], Height: values[1], X: values[2], Y: values[3]}, nil
}

// String renders the rectangle in filter argument order.
func (r Rect) String() string {
	return fmt.Sprintf("%d:%d:%d:%d", r.Width, r.Height, r.X, r.Y)
}

// IsZero reports whether the rectangle covers no area.
func (r Rect) IsZero() bool {
	return r.Width == 0 || r.Height == 0
}
