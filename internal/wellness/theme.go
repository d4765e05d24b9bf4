package wellness

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Toggle flips between the two themes. Unknown values toggle to dark.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

type Palette struct {
	Bg         string
	Primary    string
	Secondary  string
	Accent     string
	Surface    string
	SurfaceAlt string
	Text       string
	TextDim    string
	Border     string
	NavBg      string
}

var Palettes = map[Theme]Palette{
	ThemeLight: {
		Bg:         "#F8F7F4",
		Primary:    "#5E6B5A",
		Secondary:  "#8B7D6B",
		Accent:     "#E6DED5",
		Surface:    "#FFFFFF",
		SurfaceAlt: "#F8F7F4",
		Text:       "#2C2C2C",
		TextDim:    "#8B7D6B",
		Border:     "#F3F4F6",
		NavBg:      "rgba(255, 255, 255, 0.8)",
	},
	ThemeDark: {
		Bg:         "#000000",
		Primary:    "#007AFF",
		Secondary:  "#FFFFFF",
		Accent:     "#1A1A1A",
		Surface:    "#121212",
		SurfaceAlt: "#0A0A0A",
		Text:       "#FFFFFF",
		TextDim:    "#A0A0A0",
		Border:     "#2A2A2A",
		NavBg:      "rgba(18, 18, 18, 0.9)",
	},
}

func (t Theme) Palette() Palette {
	if p, ok := Palettes[t]; ok {
		return p
	}
	return Palettes[ThemeLight]
}
