package cli

import "fmt"

// ANSI color codes for consistent styling across all CLI commands
const (
	Reset = "\033[0m"

	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[37m"
	Gray    = "\033[90m"

	Bold = "\033[1m"
	Dim  = "\033[2m"
)

// Predefined color combinations for consistency
var (
	HeaderStyle  = Cyan + Bold
	SuccessStyle = Green + Bold
	ErrorStyle   = Red + Bold
	WarningStyle = Yellow + Bold
	InfoStyle    = Blue + Bold

	LabelStyle = Cyan
	ValueStyle = White + Bold
	DimStyle   = Dim
	CountStyle = Yellow + Bold

	SecondaryStyle = Blue
	MetaStyle      = Gray
)

func FormatHeader(text string) string {
	return HeaderStyle + text + Reset
}

func FormatSuccess(text string) string {
	return SuccessStyle + text + Reset
}

func FormatError(text string) string {
	return ErrorStyle + text + Reset
}

func FormatLabel(text string) string {
	return LabelStyle + text + Reset
}

func FormatValue(text string) string {
	return ValueStyle + text + Reset
}

func FormatCount(count int) string {
	return CountStyle + fmt.Sprintf("%d", count) + Reset
}

func FormatSecondary(text string) string {
	return SecondaryStyle + text + Reset
}

func FormatMeta(text string) string {
	return MetaStyle + text + Reset
}
