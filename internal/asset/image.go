package asset

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/tomz197/coffeerun/internal/draw"
)

// DecodeImage reads an ASCII-art image.
//
// The document starts with optional legend lines of the form "c=#rrggbb",
// followed by a blank line and the pixel rows. Spaces and '.' are
// transparent; any other rune must appear in the legend. Short rows are
// padded with transparent pixels.
func DecodeImage(r io.Reader) (*draw.Image, error) {
	legend := map[rune]draw.Color{}
	var rows []string

	sc := bufio.NewScanner(r)
	inLegend := true
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r")
		if inLegend {
			if text == "" {
				inLegend = false
				continue
			}
			if sym, hex, ok := legendLine(text); ok {
				col, err := draw.ParseColor(hex)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", line, err)
				}
				legend[sym] = col
				continue
			}
			inLegend = false
		}
		rows = append(rows, text)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	for len(rows) > 0 && strings.TrimSpace(rows[len(rows)-1]) == "" {
		rows = rows[:len(rows)-1]
	}
	width := 0
	for _, row := range rows {
		width = max(width, utf8.RuneCountInString(row))
	}
	if width == 0 {
		return nil, fmt.Errorf("image has no pixels")
	}

	img := draw.NewImage(width, len(rows))
	for y, row := range rows {
		x := 0
		for _, sym := range row {
			if sym != ' ' && sym != '.' {
				col, ok := legend[sym]
				if !ok {
					return nil, fmt.Errorf("row %d: symbol %q not in legend", y+1, sym)
				}
				img.Set(x, y, col)
			}
			x++
		}
	}
	return img, nil
}

func legendLine(text string) (rune, string, bool) {
	sym, size := utf8.DecodeRuneInString(text)
	rest := text[size:]
	if !strings.HasPrefix(rest, "=#") {
		return 0, "", false
	}
	return sym, rest[1:], true
}
