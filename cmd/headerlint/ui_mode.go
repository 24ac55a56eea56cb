package main

import (
	"fmt"
	"os"
	"strings"
)

// uiMode управляет прогресс-интерфейсом: auto включает его только в
// настоящем терминале.
type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	norm := strings.TrimSpace(strings.ToLower(value))
	if norm == "" {
		return uiModeAuto, nil
	}
	switch mode := uiMode(norm); mode {
	case uiModeAuto, uiModeOn, uiModeOff:
		return mode, nil
	}
	return "", fmt.Errorf("invalid --ui value %q (expected auto, on or off)", value)
}

// shouldUseTUI решает, запускать ли прогресс-интерфейс. Машинные форматы
// несовместимы с ним: их вывод уходит в пайп и не должен мешаться с
// рисованием терминала.
func shouldUseTUI(mode uiMode, format string) bool {
	if format != "pretty" || mode == uiModeOff {
		return false
	}
	return mode == uiModeOn || isTerminal(os.Stdout)
}
