// Package colors provides centralized color output with TTY-aware defaults.
//
// Colors are automatically disabled when stdout is not a terminal (piped or
// redirected to a file). This behavior is provided by the underlying fatih/color
// library and respected by default. Use Init() to override based on CLI flags.
package colors

import "github.com/fatih/color"

// Init allows overriding the auto-detected color setting.
//   - forceColor == nil: keep auto-detected value (recommended default)
//   - forceColor == true: force colors on (e.g., --color flag)
//   - forceColor == false: force colors off (e.g., --no-color flag)
func Init(forceColor *bool) {
	if forceColor != nil {
		color.NoColor = !*forceColor
	}
}

// Active returns true if colors are currently enabled.
func Active() bool {
	return !color.NoColor
}

// -----------------------------------------------------------------------------
// Object graph styles
// -----------------------------------------------------------------------------

// Class styles class names.
func Class() *color.Color { return color.New(color.Bold, color.FgHiMagenta) }

// Protocol styles protocol names.
func Protocol() *color.Color { return color.New(color.FgHiCyan) }

// Selector styles selector names.
func Selector() *color.Color { return color.New(color.FgHiBlue) }

// Address styles raw pointers.
func Address() *color.Color { return color.New(color.Faint, color.FgWhite) }

// -----------------------------------------------------------------------------
// Audit styles
// -----------------------------------------------------------------------------

func Header() *color.Color   { return color.New(color.Bold, color.FgHiWhite) }
func Balanced() *color.Color { return color.New(color.FgHiGreen) }
func Leaked() *color.Color   { return color.New(color.Bold, color.FgHiRed) }
func Static() *color.Color   { return color.New(color.Italic, color.FgHiYellow) }
func Muted() *color.Color    { return color.New(color.Italic, color.Faint) }
