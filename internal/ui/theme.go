package ui

import (
	lipgloss "charm.land/lipgloss/v2"

	"github.com/Rust-Frog/Rust-Progress-sub000/internal/syntax"
)

type Theme struct {
	Header      lipgloss.Style
	Status      lipgloss.Style
	ModeNormal  lipgloss.Style
	ModeInsert  lipgloss.Style
	ModeVisual  lipgloss.Style
	ModeCommand lipgloss.Style
	PanelTitle  lipgloss.Style
	PanelBorder lipgloss.Style
	LineNumber  lipgloss.Style
	CursorCell  lipgloss.Style
	Selection   lipgloss.Style
	Overlay     lipgloss.Style
	Accent      lipgloss.Style
	Pass        lipgloss.Style
	Fail        lipgloss.Style
	Pending     lipgloss.Style
	Muted       lipgloss.Style

	Keyword lipgloss.Style
	Builtin lipgloss.Style
	String  lipgloss.Style
	Comment lipgloss.Style
	Number  lipgloss.Style
	Punct   lipgloss.Style
	Plain   lipgloss.Style
}

// SyntaxStyle maps a highlighter class onto its render style.
func (t Theme) SyntaxStyle(class syntax.Class) lipgloss.Style {
	switch class {
	case syntax.ClassKeyword:
		return t.Keyword
	case syntax.ClassBuiltin:
		return t.Builtin
	case syntax.ClassString:
		return t.String
	case syntax.ClassComment:
		return t.Comment
	case syntax.ClassNumber:
		return t.Number
	case syntax.ClassPunct:
		return t.Punct
	default:
		return t.Plain
	}
}

func DefaultTheme() Theme {
	return ThemeForVariant("midnight")
}

func ThemeForVariant(variant string) Theme {
	switch variant {
	case "paper":
		return paperTheme()
	case "phosphor":
		return phosphorTheme()
	default:
		return midnightTheme()
	}
}

func midnightTheme() Theme {
	ink := lipgloss.Color("#0E1420")
	slate := lipgloss.Color("#1B2740")
	powder := lipgloss.Color("#EAF2FF")
	blue := lipgloss.Color("#5EEBFF")
	mint := lipgloss.Color("#67F0A8")
	brick := lipgloss.Color("#FF6F91")
	amber := lipgloss.Color("#FFC857")
	violet := lipgloss.Color("#C792EA")
	border := lipgloss.Color("#4B5F8A")
	gutter := lipgloss.Color("#5A6B8C")

	return Theme{
		Header:      lipgloss.NewStyle().Background(ink).Foreground(powder).Padding(0, 1),
		Status:      lipgloss.NewStyle().Background(slate).Foreground(powder).Padding(0, 1),
		ModeNormal:  lipgloss.NewStyle().Background(blue).Foreground(ink).Bold(true).Padding(0, 1),
		ModeInsert:  lipgloss.NewStyle().Background(mint).Foreground(ink).Bold(true).Padding(0, 1),
		ModeVisual:  lipgloss.NewStyle().Background(violet).Foreground(ink).Bold(true).Padding(0, 1),
		ModeCommand: lipgloss.NewStyle().Background(amber).Foreground(ink).Bold(true).Padding(0, 1),
		PanelTitle:  lipgloss.NewStyle().Foreground(blue).Bold(true),
		PanelBorder: lipgloss.NewStyle().Foreground(border),
		LineNumber:  lipgloss.NewStyle().Foreground(gutter),
		CursorCell:  lipgloss.NewStyle().Reverse(true),
		Selection:   lipgloss.NewStyle().Background(slate),
		Overlay: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(blue).
			Background(ink).
			Foreground(powder).
			Padding(1, 2),
		Accent:  lipgloss.NewStyle().Foreground(blue).Bold(true),
		Pass:    lipgloss.NewStyle().Foreground(mint).Bold(true),
		Fail:    lipgloss.NewStyle().Foreground(brick).Bold(true),
		Pending: lipgloss.NewStyle().Foreground(amber),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#9CAAC6")),

		Keyword: lipgloss.NewStyle().Foreground(violet).Bold(true),
		Builtin: lipgloss.NewStyle().Foreground(blue),
		String:  lipgloss.NewStyle().Foreground(mint),
		Comment: lipgloss.NewStyle().Foreground(gutter).Italic(true),
		Number:  lipgloss.NewStyle().Foreground(amber),
		Punct:   lipgloss.NewStyle().Foreground(powder),
		Plain:   lipgloss.NewStyle().Foreground(powder),
	}
}

func paperTheme() Theme {
	paper := lipgloss.Color("#F4F6FA")
	night := lipgloss.Color("#1E2430")
	slate := lipgloss.Color("#30394A")
	honey := lipgloss.Color("#F2B872")
	sage := lipgloss.Color("#80C4A3")
	rose := lipgloss.Color("#D17A86")
	sky := lipgloss.Color("#86B6F6")
	plum := lipgloss.Color("#B187C9")

	return Theme{
		Header:      lipgloss.NewStyle().Background(night).Foreground(paper).Padding(0, 1),
		Status:      lipgloss.NewStyle().Background(slate).Foreground(paper).Padding(0, 1),
		ModeNormal:  lipgloss.NewStyle().Background(sky).Foreground(night).Bold(true).Padding(0, 1),
		ModeInsert:  lipgloss.NewStyle().Background(sage).Foreground(night).Bold(true).Padding(0, 1),
		ModeVisual:  lipgloss.NewStyle().Background(plum).Foreground(night).Bold(true).Padding(0, 1),
		ModeCommand: lipgloss.NewStyle().Background(honey).Foreground(night).Bold(true).Padding(0, 1),
		PanelTitle:  lipgloss.NewStyle().Foreground(honey).Bold(true),
		PanelBorder: lipgloss.NewStyle().Foreground(slate),
		LineNumber:  lipgloss.NewStyle().Foreground(lipgloss.Color("#77829B")),
		CursorCell:  lipgloss.NewStyle().Reverse(true),
		Selection:   lipgloss.NewStyle().Background(slate),
		Overlay: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(honey).
			Background(night).
			Foreground(paper).
			Padding(1, 2),
		Accent:  lipgloss.NewStyle().Foreground(sky).Bold(true),
		Pass:    lipgloss.NewStyle().Foreground(sage).Bold(true),
		Fail:    lipgloss.NewStyle().Foreground(rose).Bold(true),
		Pending: lipgloss.NewStyle().Foreground(honey),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#A3ACC2")),

		Keyword: lipgloss.NewStyle().Foreground(plum).Bold(true),
		Builtin: lipgloss.NewStyle().Foreground(sky),
		String:  lipgloss.NewStyle().Foreground(sage),
		Comment: lipgloss.NewStyle().Foreground(lipgloss.Color("#77829B")).Italic(true),
		Number:  lipgloss.NewStyle().Foreground(honey),
		Punct:   lipgloss.NewStyle().Foreground(paper),
		Plain:   lipgloss.NewStyle().Foreground(paper),
	}
}

func phosphorTheme() Theme {
	deep := lipgloss.Color("#07150A")
	forest := lipgloss.Color("#12301A")
	glow := lipgloss.Color("#C5F7C4")
	lime := lipgloss.Color("#9CF5A2")
	amber := lipgloss.Color("#E5D47A")
	red := lipgloss.Color("#FF6B6B")

	return Theme{
		Header:      lipgloss.NewStyle().Background(deep).Foreground(glow).Padding(0, 1),
		Status:      lipgloss.NewStyle().Background(forest).Foreground(glow).Padding(0, 1),
		ModeNormal:  lipgloss.NewStyle().Background(lime).Foreground(deep).Bold(true).Padding(0, 1),
		ModeInsert:  lipgloss.NewStyle().Background(glow).Foreground(deep).Bold(true).Padding(0, 1),
		ModeVisual:  lipgloss.NewStyle().Background(amber).Foreground(deep).Bold(true).Padding(0, 1),
		ModeCommand: lipgloss.NewStyle().Background(amber).Foreground(deep).Bold(true).Padding(0, 1),
		PanelTitle:  lipgloss.NewStyle().Foreground(amber).Bold(true),
		PanelBorder: lipgloss.NewStyle().Foreground(forest),
		LineNumber:  lipgloss.NewStyle().Foreground(lipgloss.Color("#73A17A")),
		CursorCell:  lipgloss.NewStyle().Reverse(true),
		Selection:   lipgloss.NewStyle().Background(forest),
		Overlay: lipgloss.NewStyle().
			BorderStyle(lipgloss.DoubleBorder()).
			BorderForeground(amber).
			Background(deep).
			Foreground(glow).
			Padding(1, 2),
		Accent:  lipgloss.NewStyle().Foreground(lime).Bold(true),
		Pass:    lipgloss.NewStyle().Foreground(lime).Bold(true),
		Fail:    lipgloss.NewStyle().Foreground(red).Bold(true),
		Pending: lipgloss.NewStyle().Foreground(amber),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#73A17A")),

		Keyword: lipgloss.NewStyle().Foreground(lime).Bold(true),
		Builtin: lipgloss.NewStyle().Foreground(amber),
		String:  lipgloss.NewStyle().Foreground(glow),
		Comment: lipgloss.NewStyle().Foreground(lipgloss.Color("#73A17A")).Italic(true),
		Number:  lipgloss.NewStyle().Foreground(amber),
		Punct:   lipgloss.NewStyle().Foreground(glow),
		Plain:   lipgloss.NewStyle().Foreground(glow),
	}
}
