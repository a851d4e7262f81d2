package ffmpeg

import "strings"

// Subtitle colors in ASS &HAABBGGRR& notation.
const (
	ColorWhite  = "&H00FFFFFF&"
	ColorYellow = "&H0000FFFF&"
	ColorBlack  = "&H00000000&"
	ColorTomato = "&H000066FF&"
)

var palette = map[string]string{
	"white":  ColorWhite,
	"yellow": ColorYellow,
	"black":  ColorBlack,
	"tomato": ColorTomato,
}

// ColorNames returns the supported color names in menu order.
func ColorNames() []string {
	return []string{"white", "yellow", "black", "tomato"}
}

// ResolveColor maps a color name to its ASS value. Unknown names fall back
// to white.
func ResolveColor(name string) string {
	if value, ok := palette[strings.ToLower(strings.TrimSpace(name))]; ok {
		return value
	}
	return ColorWhite
}

// ValidColor reports whether name is a supported subtitle color.
func ValidColor(name string) bool {
	_, ok := palette[strings.ToLower(strings.TrimSpace(name))]
	return ok
}
