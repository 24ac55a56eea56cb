package config

import (
	"fmt"
	"math"
)

// normalizeLegacy folds the positional compatibility form into cfg:
//
//	header = ["block", "Copyright 2015, My Company", 2]
//
// The first element is the comment kind or a template file path, middle
// strings are header lines, an optional integer tail is the trailing break
// count.
func normalizeLegacy(arr []any, cfg *Config) error {
	if len(arr) == 0 {
		return fmt.Errorf("empty header array: %w", ErrInvalidValue)
	}

	if n, ok, err := intTail(arr[len(arr)-1]); err != nil {
		return err
	} else if ok {
		cfg.Trailing = n
		arr = arr[:len(arr)-1]
	}
	if len(arr) == 0 {
		return fmt.Errorf("header array needs a kind or a template path: %w", ErrInvalidValue)
	}

	first, ok := arr[0].(string)
	if !ok {
		return fmt.Errorf("header array must start with a string, got %T: %w", arr[0], ErrInvalidValue)
	}
	rest := arr[1:]
	switch first {
	case "block", "line":
		cfg.Comment = first
	default:
		// первый элемент задаёт путь к файлу-шаблону
		if len(rest) > 0 {
			return fmt.Errorf("template file form takes no header lines: %w", ErrInvalidValue)
		}
		cfg.File = first
		return nil
	}

	for i, elem := range rest {
		s, ok := elem.(string)
		if !ok {
			return fmt.Errorf("header[%d] must be a string, got %T: %w", i+1, elem, ErrInvalidValue)
		}
		// строки позиционной формы не режутся: вложенные переводы
		// строк сопоставляются склейкой серии комментариев
		cfg.Rules = append(cfg.Rules, Rule{Text: s})
	}
	return nil
}

// intTail interprets the value as the optional trailing count. The
// decoders disagree on the concrete number type, hence the switch.
func intTail(v any) (int, bool, error) {
	switch n := v.(type) {
	case int:
		return n, true, nil
	case int64:
		return int(n), true, nil
	case float64:
		if n != math.Trunc(n) {
			return 0, false, fmt.Errorf("trailing must be an integer, got %v: %w", n, ErrInvalidValue)
		}
		return int(n), true, nil
	default:
		return 0, false, nil
	}
}
