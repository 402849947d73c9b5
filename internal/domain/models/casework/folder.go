package casework

import (
	"time"
)

// Color is a folder tag colour from the fixed palette.
type Color string

const (
	ColorGray   Color = "gray"
	ColorRed    Color = "red"
	ColorOrange Color = "orange"
	ColorYellow Color = "yellow"
	ColorGreen  Color = "green"
	ColorTeal   Color = "teal"
	ColorBlue   Color = "blue"
	ColorIndigo Color = "indigo"
	ColorPurple Color = "purple"
	ColorPink   Color = "pink"
)

// Palette is the closed set of folder colours.
var Palette = []Color{
	ColorGray, ColorRed, ColorOrange, ColorYellow, ColorGreen,
	ColorTeal, ColorBlue, ColorIndigo, ColorPurple, ColorPink,
}

func (c Color) Valid() bool {
	for _, p := range Palette {
		if c == p {
			return true
		}
	}
	return false
}

// Folder is a case-scoped label shared by case documents and task attachments.
type Folder struct {
	ID        string    `json:"id" db:"id"`
	CaseID    string    `json:"case_id" db:"case_id"`
	Name      string    `json:"name" db:"name"`
	Color     Color     `json:"color" db:"color"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
