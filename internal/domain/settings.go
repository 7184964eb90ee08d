package domain

import "fmt"

// Theme selects the client color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// IsValid returns true if the theme is known.
func (t Theme) IsValid() bool {
	return t == ThemeLight || t == ThemeDark
}

// FontSize selects the client text size.
type FontSize string

const (
	FontSizeSmall  FontSize = "small"
	FontSizeMedium FontSize = "medium"
	FontSizeLarge  FontSize = "large"
)

// IsValid returns true if the font size is known.
func (f FontSize) IsValid() bool {
	switch f {
	case FontSizeSmall, FontSizeMedium, FontSizeLarge:
		return true
	}
	return false
}

// ParseTheme parses a theme ignoring case.
func ParseTheme(raw string) (Theme, error) {
	t := Theme(normalize(raw))
	if !t.IsValid() {
		return "", fmt.Errorf("invalid theme %q (valid: light, dark)", raw)
	}
	return t, nil
}

// ParseFontSize parses a font size ignoring case.
func ParseFontSize(raw string) (FontSize, error) {
	f := FontSize(normalize(raw))
	if !f.IsValid() {
		return "", fmt.Errorf("invalid font size %q (valid: small, medium, large)", raw)
	}
	return f, nil
}

// Settings holds per-user client preferences.
type Settings struct {
	Theme           Theme           `json:"theme"`
	FontSize        FontSize        `json:"fontSize"`
	DefaultPriority TicketPriority  `json:"defaultPriority"`
	Notifications   map[string]bool `json:"notifications"`
}

// DefaultSettings returns the preferences of a user who never saved any.
func DefaultSettings() Settings {
	return Settings{
		Theme:           ThemeLight,
		FontSize:        FontSizeMedium,
		DefaultPriority: TicketPriorityMedium,
		Notifications:   map[string]bool{},
	}
}
