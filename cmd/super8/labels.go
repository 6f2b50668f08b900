package main

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"super8/internal/player"
)

// operationLabel renders "crop-detect" as "Crop Detect".
func operationLabel(op player.Operation) string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(op), "-", " "))
}
