package windows

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// CustomTheme is the schema editor's theme: the default theme with a muted
// slate palette that keeps the relationship legend colors readable.
type CustomTheme struct{}

var _ fyne.Theme = (*CustomTheme)(nil)

var (
	lightPalette = map[fyne.ThemeColorName]color.Color{
		theme.ColorNameBackground:       color.NRGBA{R: 0xf2, G: 0xf3, B: 0xf5, A: 0xff},
		theme.ColorNameButton:           color.NRGBA{R: 0xdf, G: 0xe3, B: 0xe8, A: 0xff},
		theme.ColorNamePrimary:          color.NRGBA{R: 0x46, G: 0x5a, B: 0x7e, A: 0xff},
		theme.ColorNameHover:            color.NRGBA{R: 0xc9, G: 0xd1, B: 0xdc, A: 0xff},
		theme.ColorNameFocus:            color.NRGBA{R: 0x34, G: 0x47, B: 0x68, A: 0xff},
		theme.ColorNameForeground:       color.NRGBA{R: 0x1f, G: 0x23, B: 0x2b, A: 0xff},
		theme.ColorNameInputBackground:  color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		theme.ColorNameSelection:        color.NRGBA{R: 0xc5, G: 0xd3, B: 0xea, A: 0xff},
		theme.ColorNameHeaderBackground: color.NRGBA{R: 0xe4, G: 0xe8, B: 0xee, A: 0xff},
	}
	darkPalette = map[fyne.ThemeColorName]color.Color{
		theme.ColorNameBackground:       color.NRGBA{R: 0x1c, G: 0x1f, B: 0x24, A: 0xff},
		theme.ColorNameButton:           color.NRGBA{R: 0x33, G: 0x39, B: 0x43, A: 0xff},
		theme.ColorNamePrimary:          color.NRGBA{R: 0x8c, G: 0xa6, B: 0xd3, A: 0xff},
		theme.ColorNameHover:            color.NRGBA{R: 0x3d, G: 0x45, B: 0x52, A: 0xff},
		theme.ColorNameFocus:            color.NRGBA{R: 0xa9, G: 0xbf, B: 0xe3, A: 0xff},
		theme.ColorNameForeground:       color.NRGBA{R: 0xe3, G: 0xe6, B: 0xea, A: 0xff},
		theme.ColorNameInputBackground:  color.NRGBA{R: 0x28, G: 0x2d, B: 0x35, A: 0xff},
		theme.ColorNameSelection:        color.NRGBA{R: 0x3b, G: 0x4f, B: 0x73, A: 0xff},
		theme.ColorNameHeaderBackground: color.NRGBA{R: 0x26, G: 0x2b, B: 0x33, A: 0xff},
	}
)

func (m CustomTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	palette := darkPalette
	if variant == theme.VariantLight {
		palette = lightPalette
	}
	if c, ok := palette[name]; ok {
		return c
	}
	return theme.DefaultTheme().Color(name, variant)
}

func (m CustomTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (m CustomTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (m CustomTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 6
	case theme.SizeNameScrollBar:
		return 10
	case theme.SizeNameSeparatorThickness:
		return 1
	}
	return theme.DefaultTheme().Size(name)
}
