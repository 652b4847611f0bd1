package core

// BigFontHeight is the number of rows every big glyph occupies.
const BigFontHeight = 5

// bigGlyphs is a 3x5 block font for the cabinet's numeric readout.
var bigGlyphs = map[rune][BigFontHeight]string{
	'0': {"███", "█ █", "█ █", "█ █", "███"},
	'1': {" █ ", "██ ", " █ ", " █ ", "███"},
	'2': {"███", "  █", "███", "█  ", "███"},
	'3': {"███", "  █", "███", "  █", "███"},
	'4': {"█ █", "█ █", "███", "  █", "  █"},
	'5': {"███", "█  ", "███", "  █", "███"},
	'6': {"███", "█  ", "███", "█ █", "███"},
	'7': {"███", "  █", "  █", "  █", "  █"},
	'8': {"███", "█ █", "███", "█ █", "███"},
	'9': {"███", "█ █", "███", "  █", "███"},
	'.': {" ", " ", " ", " ", "█"},
}

// BigText lays out text in the block font, one string per row.
// Returns false if any rune has no glyph.
func BigText(text string) ([]string, bool) {
	if text == "" {
		return nil, false
	}
	rows := make([]string, BigFontHeight)
	first := true
	for _, r := range text {
		g, ok := bigGlyphs[r]
		if !ok {
			return nil, false
		}
		for i := range rows {
			if !first {
				rows[i] += " "
			}
			rows[i] += g[i]
		}
		first = false
	}
	return rows, true
}
