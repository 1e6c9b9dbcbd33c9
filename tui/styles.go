package tui

import (
	"github.com/charmbracelet/lipgloss"

	"taskboard/domain"
)

var (
	LightBackground = lipgloss.Color("#f4f5f6")
	LightForeground = lipgloss.Color("#101F38")
	LightPrimary    = lipgloss.Color("#101F38")
	LightMuted      = lipgloss.Color("#8a94a6")
	LightBorder     = lipgloss.Color("#dce0e5")
	LightCard       = lipgloss.Color("#ffffff")

	DarkBackground = lipgloss.Color("#141d2b")
	DarkForeground = lipgloss.Color("#f2f2f2")
	DarkPrimary    = lipgloss.Color("#8BC34A")
	DarkMuted      = lipgloss.Color("#6b7a93")
	DarkBorder     = lipgloss.Color("#2a3850")
	DarkCard       = lipgloss.Color("#1a2536")

	// Column accents, same in both modes.
	TodoColor       = lipgloss.Color("#2196F3")
	InProgressColor = lipgloss.Color("#FFC107")
	CompletedColor  = lipgloss.Color("#8BC34A")
	Destructive     = lipgloss.Color("#e53935")
)

// Theme holds the current color scheme
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Card       lipgloss.Color
	IsDark     bool
}

func LightTheme() Theme {
	return Theme{
		Background: LightBackground,
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Muted:      LightMuted,
		Border:     LightBorder,
		Card:       LightCard,
	}
}

func DarkTheme() Theme {
	return Theme{
		Background: DarkBackground,
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		Card:       DarkCard,
		IsDark:     true,
	}
}

// ThemeFor maps a configured theme name to a Theme. Unknown names get the
// dark theme.
func ThemeFor(name string) Theme {
	if name == "light" {
		return LightTheme()
	}
	return DarkTheme()
}

// Styles holds all the styled components
type Styles struct {
	Theme Theme

	Header   lipgloss.Style
	Subtitle lipgloss.Style
	Status   lipgloss.Style
	Error    lipgloss.Style

	ColumnTitle lipgloss.Style
	Badge       lipgloss.Style
	Placeholder lipgloss.Style

	Card         lipgloss.Style
	CardTitle    lipgloss.Style
	CardBody     lipgloss.Style
	Avatar       lipgloss.Style
	Deadline     lipgloss.Style
	Overdue      lipgloss.Style
	MoveArrow    lipgloss.Style
	SelectedCard lipgloss.Color
	DraggedCard  lipgloss.Style

	Form      lipgloss.Style
	FormTitle lipgloss.Style
	Label     lipgloss.Style
	Focused   lipgloss.Style
}

func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Subtitle: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Status: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),

		ColumnTitle: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		Badge: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Placeholder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Foreground(theme.Muted).
			Width(columnWidth-2).
			Height(cardHeight-2).
			Align(lipgloss.Center).
			AlignVertical(lipgloss.Center),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1).
			Width(columnWidth-2).
			Height(cardHeight-2),

		CardTitle: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		CardBody: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Avatar: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Deadline: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Overdue: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),

		MoveArrow: lipgloss.NewStyle().
			Foreground(theme.Primary),

		SelectedCard: theme.Primary,

		DraggedCard: lipgloss.NewStyle().
			Faint(true),

		Form: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Primary).
			Padding(1, 2),

		FormTitle: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Label: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Focused: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),
	}
}

// StatusColor is the card accent for a column.
func StatusColor(st domain.Status) lipgloss.Color {
	switch st {
	case domain.StatusInProgress:
		return InProgressColor
	case domain.StatusCompleted:
		return CompletedColor
	default:
		return TodoColor
	}
}
