// Package catalogxml lee el catálogo de ítems y recetas exportado por el sistema de planta
// (XML, usualmente en ISO-8859-1 o Windows-1252).
package catalogxml

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/prodsys-ledger/internal/application/dto"
	"github.com/jhoicas/prodsys-ledger/internal/application/usecase"
)

type catalogo struct {
	Items   []itemXML   `xml:"item"`
	Recetas []recetaXML `xml:"receta"`
}

type itemXML struct {
	Codigo      string `xml:"codigo,attr"`
	Nombre      string `xml:"nombre,attr"`
	Descripcion string `xml:"descripcion,attr"`
	Categoria   string `xml:"categoria,attr"`
	Unidad      string `xml:"unidad,attr"`
	Ancho       string `xml:"ancho,attr"`
	Largo       string `xml:"largo,attr"`
	Espesor     string `xml:"espesor,attr"`
	Peso        string `xml:"peso,attr"`
	Reorden     string `xml:"reorden,attr"`
	Saldo       string `xml:"saldo,attr"`
}

type recetaXML struct {
	Terminado string `xml:"terminado,attr"`
	Materia   string `xml:"materia,attr"`
	Cantidad  string `xml:"cantidad,attr"`
}

// Parse decodifica el XML y lo convierte en una importación de catálogo.
// Los atributos numéricos vacíos valen 0.
func Parse(r io.Reader) (*usecase.CatalogImport, error) {
	var c catalogo
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decodificar XML: %w", err)
	}

	out := &usecase.CatalogImport{
		Items: make([]usecase.ImportItem, 0, len(c.Items)),
		BOM:   make([]usecase.ImportBOMLine, 0, len(c.Recetas)),
	}
	for i, it := range c.Items {
		p := numParser{line: fmt.Sprintf("item %d (%s)", i+1, it.Codigo)}
		item := usecase.ImportItem{
			CreateItemRequest: dto.CreateItemRequest{
				Code:          strings.TrimSpace(it.Codigo),
				Name:          strings.TrimSpace(it.Nombre),
				Description:   strings.TrimSpace(it.Descripcion),
				Category:      strings.ToUpper(strings.TrimSpace(it.Categoria)),
				UnitOfMeasure: strings.TrimSpace(it.Unidad),
				Width:         p.parse("ancho", it.Ancho),
				Length:        p.parse("largo", it.Largo),
				Thickness:     p.parse("espesor", it.Espesor),
				Weight:        p.parse("peso", it.Peso),
				ReorderLevel:  p.parse("reorden", it.Reorden),
			},
			OpeningBalance: p.parse("saldo", it.Saldo),
		}
		if p.err != nil {
			return nil, p.err
		}
		out.Items = append(out.Items, item)
	}
	for i, r := range c.Recetas {
		p := numParser{line: fmt.Sprintf("receta %d (%s/%s)", i+1, r.Terminado, r.Materia)}
		line := usecase.ImportBOMLine{
			FinishedCode:     strings.TrimSpace(r.Terminado),
			RawCode:          strings.TrimSpace(r.Materia),
			QuantityRequired: p.parse("cantidad", r.Cantidad),
		}
		if p.err != nil {
			return nil, p.err
		}
		out.BOM = append(out.BOM, line)
	}
	return out, nil
}

func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	switch strings.ToUpper(charset) {
	case "ISO-8859-1", "ISO8859-1", "LATIN1":
		return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
	case "WINDOWS-1252", "CP1252":
		return transform.NewReader(input, charmap.Windows1252.NewDecoder()), nil
	case "UTF-8", "":
		return input, nil
	}
	return nil, fmt.Errorf("codificación no soportada: %s", charset)
}

// numParser acumula el primer error de conversión de una línea.
type numParser struct {
	line string
	err  error
}

func (p *numParser) parse(field, s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" || p.err != nil {
		return decimal.Zero
	}
	// exportes con coma decimal
	v, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		p.err = fmt.Errorf("%s: %s inválido %q", p.line, field, s)
		return decimal.Zero
	}
	return v
}
