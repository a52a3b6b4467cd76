package infra

import (
	"fmt"
	"time"

	"github.com/Martin-Comito/alambrados/internal/ledger"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// PresupuestoDoc is a fence quote ready to print.
type PresupuestoDoc struct {
	Numero      string
	Cliente     string
	Fecha       time.Time
	Descripcion string // e.g. "120 m x 1.8 m (perímetro)"
	Presupuesto ledger.Presupuesto
}

// GenerarPresupuestoPDF renders a quote with maroto and returns the PDF bytes.
func GenerarPresupuestoPDF(doc PresupuestoDoc, emp Empresa) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Página {current} de {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(20,
		text.NewCol(8, emp.Nombre, props.Text{Size: 18, Style: fontstyle.Bold, Align: align.Left}),
		text.NewCol(4, "PRESUPUESTO", props.Text{Size: 12, Style: fontstyle.Bold, Align: align.Right, Top: 3}),
	)

	m.AddRow(22,
		col.New(6).Add(
			text.New("Cliente: "+clienteOConsumidor(doc.Cliente), props.Text{Top: 0}),
			text.New("Obra: "+doc.Descripcion, props.Text{Top: 5}),
			text.New("Tel.: "+emp.Telefono, props.Text{Top: 10}),
		),
		col.New(6).Add(
			text.New("N° "+doc.Numero, props.Text{Align: align.Right}),
			text.New("Fecha: "+doc.Fecha.Format("02/01/2006"), props.Text{Top: 5, Align: align.Right}),
			text.New("Validez: 7 días", props.Text{Top: 10, Align: align.Right}),
		),
	)

	mat := doc.Presupuesto.Materiales
	m.AddRow(18,
		col.New(12).Add(
			text.New("Materiales calculados", props.Text{Style: fontstyle.Bold, Size: 10}),
			text.New(fmt.Sprintf("%d postes intermedios · %d postes de refuerzo · %s m de tejido · %d hilos (%s m de alambre)",
				mat.PostesIntermedios, mat.PostesRefuerzo, mat.MetrosTejido.String(), mat.Hilos, mat.MetrosAlambre.String()),
				props.Text{Top: 6, Size: 9}),
		),
	)

	m.AddRow(10,
		text.NewCol(5, "Material", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Cantidad", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "P. Unit.", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(3, "Subtotal", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	for _, l := range doc.Presupuesto.Lineas {
		nombre := l.Material
		if l.Nombre != "" {
			nombre = l.Nombre
		}
		m.AddRow(8,
			text.NewCol(5, nombre, props.Text{Size: 9}),
			text.NewCol(2, l.Cantidad.String()+" "+l.Unidad, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, Pesos(l.PrecioUnitario), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(3, Pesos(l.Subtotal), props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(12,
		col.New(7),
		text.NewCol(2, "TOTAL", props.Text{Size: 11, Style: fontstyle.Bold, Top: 3}),
		text.NewCol(3, Pesos(doc.Presupuesto.Total), props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Right, Top: 3}),
	)
	m.AddRow(10,
		text.NewCol(12, "Precios sujetos a disponibilidad de stock al momento de la compra.",
			props.Text{Size: 8, Style: fontstyle.Italic, Top: 4}),
	)

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: render presupuesto: %w", err)
	}
	return out.GetBytes(), nil
}
