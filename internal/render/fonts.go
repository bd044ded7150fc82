package render

import (
	"log"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

var (
	parseOnce  sync.Once
	parsedFont *opentype.Font
	parseErr   error
)

// NewFace returns a Go Regular face at size points. Faces are not safe for
// concurrent use, so each drawing surface creates its own. Falls back to
// the fixed 7x13 bitmap face if the embedded font cannot be loaded.
func NewFace(size float64) font.Face {
	parseOnce.Do(func() {
		parsedFont, parseErr = opentype.Parse(goregular.TTF)
		if parseErr != nil {
			log.Printf("⚠️ Failed to parse font, using bitmap face: %v", parseErr)
		}
	})
	if parseErr != nil {
		return basicfont.Face7x13
	}

	face, err := opentype.NewFace(parsedFont, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		log.Printf("⚠️ Failed to create font face: %v", err)
		return basicfont.Face7x13
	}
	return face
}
