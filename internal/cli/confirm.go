package cli

import (
	"github.com/alexanderramin/intake/internal/cli/formatter"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

func intakeHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	return t
}

func confirmForm(title string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Evet").
				Negative("Hayır").
				Value(result),
		),
	).WithTheme(intakeHuhTheme()).WithShowHelp(false)
}

func (a *App) confirm(title string) (bool, error) {
	if a.Confirm != nil {
		return a.Confirm(title)
	}
	var ok bool
	form := confirmForm(title, &ok).WithInput(a.input())
	if a.Out != nil {
		form = form.WithOutput(a.Out)
	}
	if err := form.Run(); err != nil {
		return false, err
	}
	return ok, nil
}
