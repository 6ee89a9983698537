package editor

// Swatch is one entry of a colour palette.
type Swatch struct {
	Name  string
	Color string
}

// TextColors is the fixed text colour palette.
var TextColors = []Swatch{
	{"Black", "#000000"},
	{"Gray", "#6b7280"},
	{"Red", "#dc2626"},
	{"Orange", "#ea580c"},
	{"Yellow", "#ca8a04"},
	{"Green", "#16a34a"},
	{"Teal", "#0d9488"},
	{"Blue", "#2563eb"},
	{"Purple", "#7c3aed"},
	{"Pink", "#db2777"},
}

// HighlightColors is the fixed highlight palette.
var HighlightColors = []Swatch{
	{"Yellow", "#fef08a"},
	{"Green", "#bbf7d0"},
	{"Blue", "#bfdbfe"},
	{"Pink", "#fbcfe8"},
	{"Purple", "#e9d5ff"},
	{"Orange", "#fed7aa"},
}

func inPalette(palette []Swatch, color string) bool {
	for _, s := range palette {
		if s.Color == color {
			return true
		}
	}
	return false
}
