package domain

// Theme is the fixed palette used for budget and pot display colors.
type Theme string

const (
	ThemeGreen     Theme = "green"
	ThemeYellow    Theme = "yellow"
	ThemeCyan      Theme = "cyan"
	ThemeNavy      Theme = "navy"
	ThemeRed       Theme = "red"
	ThemePurple    Theme = "purple"
	ThemeTurquoise Theme = "turquoise"
	ThemeBrown     Theme = "brown"
	ThemeMagenta   Theme = "magenta"
	ThemeBlue      Theme = "blue"
	ThemeGrey      Theme = "grey"
	ThemeArmy      Theme = "army"
	ThemePink      Theme = "pink"
	ThemeGold      Theme = "gold"
	ThemeOrange    Theme = "orange"
)

// ThemeHex maps each theme to its display hex code.
var ThemeHex = map[Theme]string{
	ThemeGreen:     "#277C78",
	ThemeYellow:    "#F2CDAC",
	ThemeCyan:      "#82C9D7",
	ThemeNavy:      "#626070",
	ThemeRed:       "#C94736",
	ThemePurple:    "#826CB0",
	ThemeTurquoise: "#597C7C",
	ThemeBrown:     "#93674F",
	ThemeMagenta:   "#934F6F",
	ThemeBlue:      "#3F82B2",
	ThemeGrey:      "#97A0AC",
	ThemeArmy:      "#7F9161",
	ThemePink:      "#AF81BA",
	ThemeGold:      "#CAB361",
	ThemeOrange:    "#BE6C49",
}

// IsValid reports whether t is a member of the fixed palette.
func (t Theme) IsValid() bool {
	_, ok := ThemeHex[t]
	return ok
}
