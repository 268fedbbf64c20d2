package card

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"strings"

	"github.com/dmitrijs2005/entrust/internal/members"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var ErrInvalidPhoto = errors.New("invalid member photo")

// Format is an artifact encoding.
type Format string

const (
	FormatPNG Format = "png"
	FormatPDF Format = "pdf"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatPNG:
		return FormatPNG, nil
	case FormatPDF:
		return FormatPDF, nil
	}
	return "", fmt.Errorf("unknown card format %q", s)
}

// ContentType is the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "image/png"
}

// Options tweak a render.
type Options struct {
	// PendingOverlay veils the face and stamps PENDING VERIFICATION on it.
	PendingOverlay bool
}

// OptionsFor returns the options the dashboard uses for m: the overlay is on
// for everyone who is not Active.
func OptionsFor(m *members.Member) Options {
	return Options{PendingOverlay: !m.IsActive()}
}

// Renderer draws card faces. Parsed fonts are shared; faces are created per
// render, so a Renderer is safe for concurrent use.
type Renderer struct {
	regular *opentype.Font
	bold    *opentype.Font
	italic  *opentype.Font
}

func NewRenderer() (*Renderer, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	italic, err := opentype.Parse(goitalic.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse italic font: %w", err)
	}
	return &Renderer{regular: regular, bold: bold, italic: italic}, nil
}

// Render rasterizes one face of the card for m.
func (r *Renderer) Render(m *members.Member, face Face, opts Options) (*image.RGBA, error) {
	c := &canvas{img: image.NewRGBA(image.Rect(0, 0, Width, Height)), r: r}

	var err error
	switch face {
	case Front:
		err = c.front(m)
	case Back:
		err = c.back()
	default:
		err = fmt.Errorf("unknown card face %v", face)
	}
	if err != nil {
		return nil, err
	}

	if opts.PendingOverlay {
		if err := c.pending(); err != nil {
			return nil, err
		}
	}
	return c.img, nil
}

// PNG renders the front face and encodes it.
func (r *Renderer) PNG(m *members.Member, opts Options) ([]byte, error) {
	img, err := r.Render(m, Front, opts)
	if err != nil {
		return nil, err
	}
	return encodePNG(img)
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

type canvas struct {
	img *image.RGBA
	r   *Renderer
}

func (c *canvas) face(f *opentype.Font, size float64) (font.Face, error) {
	return opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
}

func (c *canvas) fill(rect image.Rectangle, col color.Color) {
	draw.Draw(c.img, rect, image.NewUniform(col), image.Point{}, draw.Over)
}

func (c *canvas) text(f font.Face, x, y int, s string, col color.Color) {
	d := &font.Drawer{Dst: c.img, Src: image.NewUniform(col), Face: f, Dot: fixed.P(x, y)}
	d.DrawString(s)
}

func (c *canvas) centered(f font.Face, y int, s string, col color.Color) {
	w := font.MeasureString(f, s).Ceil()
	c.text(f, (Width-w)/2, y, s, col)
}

// wrap splits s into lines no wider than max pixels.
func wrap(f font.Face, s string, max int) []string {
	var lines []string
	var line string
	for _, word := range strings.Fields(s) {
		candidate := word
		if line != "" {
			candidate = line + " " + word
		}
		if line != "" && font.MeasureString(f, candidate).Ceil() > max {
			lines = append(lines, line)
			line = word
			continue
		}
		line = candidate
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

type faces struct {
	title, label, value, valueBold, small, italic font.Face
}

func (c *canvas) faces() (*faces, error) {
	var fs faces
	var err error
	mk := func(dst *font.Face, f *opentype.Font, size float64) {
		if err != nil {
			return
		}
		*dst, err = c.face(f, size)
	}
	mk(&fs.title, c.r.bold, 26)
	mk(&fs.label, c.r.bold, 17)
	mk(&fs.value, c.r.regular, 26)
	mk(&fs.valueBold, c.r.bold, 30)
	mk(&fs.small, c.r.bold, 16)
	mk(&fs.italic, c.r.italic, 20)
	if err != nil {
		return nil, fmt.Errorf("font face: %w", err)
	}
	return &fs, nil
}

func (c *canvas) front(m *members.Member) error {
	fs, err := c.faces()
	if err != nil {
		return err
	}

	c.fill(c.img.Bounds(), white)

	// header
	c.fill(image.Rect(0, 0, Width, 130), brand900)
	c.text(fs.title, 40, 62, MinistryName, white)
	c.text(fs.small, 40, 98, "Valparai • Tamil Nadu", accent300)

	// title band
	c.fill(image.Rect(0, 130, Width, 178), accent50)
	c.fill(image.Rect(0, 176, Width, 178), accent300)
	c.centered(fs.label, 162, CardTitle, accent700)

	// identifier chip and photo
	c.fill(image.Rect(40, 214, 250, 256), brand50)
	c.text(fs.label, 52, 242, "ID: "+orDash(m.ID), brand900)

	photoRect := image.Rect(Width-200, 210, Width-40, 402)
	if err := c.photo(photoRect, m); err != nil {
		return err
	}

	y := 470
	c.text(fs.label, 40, y, "FULL MEMBER NAME", slate400)
	c.text(fs.valueBold, 40, y+40, strings.ToUpper(orDash(m.Name)), brand900)

	y += 100
	c.text(fs.label, 40, y, "BIRTH DATE", slate400)
	c.text(fs.label, 340, y, "BLOOD GROUP", slate400)
	c.text(fs.value, 40, y+36, orDash(m.DOB), slate700)
	c.text(fs.value, 340, y+36, orDash(m.BloodGroup), slate700)

	y += 96
	c.text(fs.label, 40, y, "LOCATION", slate400)
	c.text(fs.value, 40, y+36, orDash(m.Location), slate700)

	y += 96
	c.text(fs.label, 40, y, "ROLE", slate400)
	c.text(fs.value, 40, y+36, orDash(string(m.Role)), slate700)

	// motto and QR
	c.fill(image.Rect(40, 820, Width-40, 822), slate50)
	c.text(fs.italic, 40, 930, Motto, slate400)
	if err := c.qr(image.Rect(Width-180, 836, Width-40, 976), QRPayload(m)); err != nil {
		return err
	}

	// footer
	c.fill(image.Rect(0, Height-50, Width, Height), brand950)
	c.fill(image.Rect(0, Height-54, Width, Height-50), accent400)
	c.centered(fs.small, Height-19, FooterLine, accent300)
	return nil
}

func (c *canvas) back() error {
	fs, err := c.faces()
	if err != nil {
		return err
	}

	c.fill(c.img.Bounds(), brand900)

	c.centered(fs.title, 250, MinistryName, accent300)
	c.centered(fs.valueBold, 320, CovenantTitle, white)

	y := 400
	for _, line := range wrap(fs.italic, CovenantVerse, Width-120) {
		c.centered(fs.italic, y, line, indigo100)
		y += 32
	}
	c.centered(fs.small, y+20, CovenantCite, accent400)

	box := image.Rect(60, y+70, Width-60, y+250)
	c.fill(box, brand950)
	lines := []string{"Phone:   " + ContactPhone, "Email:   " + ContactEmail, "YouTube: " + ContactYouTube}
	ly := box.Min.Y + 50
	for _, l := range lines {
		c.text(fs.label, box.Min.X+30, ly, l, indigo100)
		ly += 50
	}

	c.centered(fs.small, Height-60, AuthorizedNote, slate400)
	return nil
}

func (c *canvas) pending() error {
	f, err := c.face(c.r.bold, 40)
	if err != nil {
		return fmt.Errorf("font face: %w", err)
	}
	c.fill(c.img.Bounds(), veil)
	c.fill(image.Rect(0, Height/2-50, Width, Height/2+30), accent50)
	c.centered(f, Height/2, PendingLabel, accent700)
	return nil
}

func (c *canvas) qr(rect image.Rectangle, payload string) error {
	q, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return fmt.Errorf("qr code: %w", err)
	}
	q.DisableBorder = true
	q.ForegroundColor = brand900
	q.BackgroundColor = white
	src := q.Image(rect.Dx())
	draw.NearestNeighbor.Scale(c.img, rect, src, src.Bounds(), draw.Src, nil)
	return nil
}

func (c *canvas) photo(rect image.Rectangle, m *members.Member) error {
	c.fill(rect, slate200)
	if m.Photo == "" {
		inner := rect.Inset(4)
		c.fill(inner, slate50)
		f, err := c.face(c.r.bold, 56)
		if err != nil {
			return fmt.Errorf("font face: %w", err)
		}
		initial := "?"
		if name := strings.TrimSpace(m.Name); name != "" {
			initial = strings.ToUpper(string([]rune(name)[0]))
		}
		w := font.MeasureString(f, initial).Ceil()
		c.text(f, rect.Min.X+(rect.Dx()-w)/2, rect.Min.Y+rect.Dy()/2+20, initial, slate400)
		return nil
	}

	src, err := DecodePhoto(m.Photo)
	if err != nil {
		return err
	}
	draw.CatmullRom.Scale(c.img, rect.Inset(4), src, src.Bounds(), draw.Src, nil)
	return nil
}

// DecodePhoto decodes a data URL ("data:image/png;base64,...") or bare
// base64 payload holding a PNG or JPEG image.
func DecodePhoto(s string) (image.Image, error) {
	payload := s
	if strings.HasPrefix(s, "data:") {
		_, after, ok := strings.Cut(s, ",")
		if !ok {
			return nil, fmt.Errorf("%w: malformed data url", ErrInvalidPhoto)
		}
		payload = after
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPhoto, err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPhoto, err)
	}
	return img, nil
}
