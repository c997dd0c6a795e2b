package cli

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"askstream/pkg/cardstack"
)

// ErrInvalidEvent reports an --event value that cannot be parsed.
var ErrInvalidEvent = errors.New("invalid event")

// ParseEvent parses click:N, drag:Y (or drag:X,Y) and key:NAME.
func ParseEvent(value string) (cardstack.Event, error) {
	kind, arg, ok := strings.Cut(strings.TrimSpace(value), ":")
	if !ok || arg == "" {
		return nil, fmt.Errorf("%w %q: want kind:value", ErrInvalidEvent, value)
	}
	switch kind {
	case "click":
		pos, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("%w %q: position: %v", ErrInvalidEvent, value, err)
		}
		return cardstack.Click{Position: pos}, nil
	case "drag":
		var x, y float64
		var err error
		if xs, ys, pair := strings.Cut(arg, ","); pair {
			if x, err = strconv.ParseFloat(xs, 64); err != nil {
				return nil, fmt.Errorf("%w %q: offset x: %v", ErrInvalidEvent, value, err)
			}
			arg = ys
		}
		if y, err = strconv.ParseFloat(arg, 64); err != nil {
			return nil, fmt.Errorf("%w %q: offset y: %v", ErrInvalidEvent, value, err)
		}
		if !finite(x) || !finite(y) {
			return nil, fmt.Errorf("%w %q: offsets must be finite", ErrInvalidEvent, value)
		}
		return cardstack.DragRelease{OffsetX: x, OffsetY: y}, nil
	case "key":
		return cardstack.KeyPress{Key: arg}, nil
	default:
		return nil, fmt.Errorf("%w %q: unknown kind %q", ErrInvalidEvent, value, kind)
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
