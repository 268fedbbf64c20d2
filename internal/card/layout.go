// Package card renders the two-sided Entrust card for a member. Both faces
// come from a single parameterized renderer; the front face is exported as
// PNG and both faces as a two-page PDF sized to the card's aspect ratio.
package card

import (
	"fmt"
	"image/color"

	"github.com/dmitrijs2005/entrust/internal/members"
)

// Face selects which side of the card to draw.
type Face int

const (
	Front Face = iota
	Back
)

func (f Face) String() string {
	switch f {
	case Front:
		return "front"
	case Back:
		return "back"
	default:
		return fmt.Sprintf("face(%d)", int(f))
	}
}

// Raster size of one face: the 320x520 layout drawn at 2x.
const (
	Width  = 640
	Height = 1040
)

// Physical page size of one PDF page in millimetres (same aspect as the raster).
const (
	PageWidthMM  = 54.0
	PageHeightMM = PageWidthMM * Height / Width
)

const (
	MinistryName   = "CITY OF TRUTH MINISTRIES"
	CardTitle      = "ENTRUST CARD"
	Motto          = "“Faith • Truth • Love”"
	FooterLine     = "WALKING IN DIVINE LIGHT"
	CovenantTitle  = "Ministry Covenant"
	CovenantVerse  = "“But my servant Moses is not so; he is faithful in all mine house. With him will I speak mouth to mouth.”"
	CovenantCite   = "- NUMBERS 12:7-8"
	ContactPhone   = "+91 80561 25478"
	ContactEmail   = "faithfulfellowship8@gmail.com"
	ContactYouTube = "@cotministries"
	AuthorizedNote = "Authorized for spiritual community access only."
	PendingLabel   = "PENDING VERIFICATION"
	emptyValue     = "—"
)

var (
	brand900  = color.RGBA{0x2c, 0x29, 0x8c, 0xff}
	brand950  = color.RGBA{0x1b, 0x19, 0x5c, 0xff}
	brand50   = color.RGBA{0xee, 0xee, 0xfb, 0xff}
	indigo100 = color.RGBA{0xe0, 0xe7, 0xff, 0xff}
	accent300 = color.RGBA{0xfc, 0xd3, 0x4d, 0xff}
	accent400 = color.RGBA{0xfb, 0xbf, 0x24, 0xff}
	accent50  = color.RGBA{0xff, 0xfb, 0xeb, 0xff}
	accent700 = color.RGBA{0xb4, 0x53, 0x09, 0xff}
	slate50   = color.RGBA{0xf8, 0xfa, 0xfc, 0xff}
	slate200  = color.RGBA{0xe2, 0xe8, 0xf0, 0xff}
	slate400  = color.RGBA{0x94, 0xa3, 0xb8, 0xff}
	slate700  = color.RGBA{0x33, 0x41, 0x55, 0xff}
	white     = color.RGBA{0xff, 0xff, 0xff, 0xff}
	veil      = color.NRGBA{0xff, 0xff, 0xff, 0x8c}
)

// QRPayload is the text encoded in the front-face QR code.
func QRPayload(m *members.Member) string {
	return fmt.Sprintf("%s\nID: %s\nName: %s\nRole: %s", MinistryName, m.ID, m.Name, m.Role)
}

// FileName is the download name of an artifact, e.g. ENTRUST-CARD-COT-1234.pdf.
func FileName(id string, f Format) string {
	return fmt.Sprintf("ENTRUST-CARD-%s.%s", id, f)
}

func orDash(s string) string {
	if s == "" {
		return emptyValue
	}
	return s
}
