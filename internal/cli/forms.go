package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/DripjobsJeremy/workorders/internal/cli/formatter"
	"github.com/DripjobsJeremy/workorders/internal/domain"
)

// woeditHuhTheme returns a custom huh theme using the existing Gruvbox palette.
func woeditHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func validateHours(s string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("enter hours as a number")
	}
	if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(24)) {
		return fmt.Errorf("hours must be between 0 and 24")
	}
	return nil
}

func validateCoats(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("enter a whole number")
	}
	if n < 0 || n > 100 {
		return fmt.Errorf("coats must be between 0 and 100")
	}
	return nil
}

func validateAreaName(s string) error {
	if _, err := domain.ValidateAreaName(s); err != nil {
		return fmt.Errorf("name must be 1 to %d characters", domain.MaxAreaNameLen)
	}
	return nil
}

// fieldForm builds the single-input form for one line item field. The
// input starts from the current value so Escape leaves it untouched.
func fieldForm(field domain.Field, itemName string, value *string) *huh.Form {
	input := huh.NewInput().Value(value)
	switch field {
	case domain.FieldPrepHours:
		input = input.Title(fmt.Sprintf("Prep hours: %s", itemName)).Validate(validateHours)
	case domain.FieldWorkingHours:
		input = input.Title(fmt.Sprintf("Working hours: %s", itemName)).Validate(validateHours)
	case domain.FieldCoats:
		input = input.Title(fmt.Sprintf("Coats: %s", itemName)).Validate(validateCoats)
	default:
		input = input.Title(fmt.Sprintf("Unit: %s", itemName))
	}
	return huh.NewForm(huh.NewGroup(input)).
		WithTheme(woeditHuhTheme()).WithShowHelp(false)
}

// areaNameForm builds the rename form for an area.
func areaNameForm(current string, value *string) *huh.Form {
	*value = current
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Area name").
				Value(value).
				Validate(validateAreaName),
		),
	).WithTheme(woeditHuhTheme()).WithShowHelp(false)
}

// confirmForm builds a yes/no confirmation.
func confirmForm(title string, value *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(value),
		),
	).WithTheme(woeditHuhTheme()).WithShowHelp(false)
}
