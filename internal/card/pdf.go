package card

import (
	"bytes"
	"fmt"

	"github.com/dmitrijs2005/entrust/internal/members"
	"github.com/go-pdf/fpdf"
)

// PDF renders both faces and lays them out as a two-page document, one face
// per page, each page PageWidthMM x PageHeightMM.
func (r *Renderer) PDF(m *members.Member, opts Options) ([]byte, error) {
	pages := make([][]byte, 0, 2)
	for _, face := range []Face{Front, Back} {
		img, err := r.Render(m, face, opts)
		if err != nil {
			return nil, err
		}
		b, err := encodePNG(img)
		if err != nil {
			return nil, err
		}
		pages = append(pages, b)
	}

	doc, err := buildPDF(pages)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func buildPDF(pages [][]byte) (*fpdf.Fpdf, error) {
	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: PageWidthMM, Ht: PageHeightMM},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)

	opt := fpdf.ImageOptions{ImageType: "PNG"}
	for i, page := range pages {
		name := fmt.Sprintf("face-%d", i)
		doc.AddPage()
		doc.RegisterImageOptionsReader(name, opt, bytes.NewReader(page))
		doc.ImageOptions(name, 0, 0, PageWidthMM, PageHeightMM, false, opt, 0, "")
	}
	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("build pdf: %w", err)
	}
	return doc, nil
}
