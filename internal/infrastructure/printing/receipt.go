package printing

import (
	"bytes"
	"context"
	"html/template"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	appsales "github.com/retailcore/backend/internal/application/sales"
	"github.com/retailcore/backend/internal/domain/sales"
	"go.uber.org/zap"
)

// receiptTemplate is the built-in HTML template for 80mm thermal receipts.
const receiptTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<style>
  body { font-family: "Courier New", monospace; font-size: 11px; margin: 0; }
  .center { text-align: center; }
  .right { text-align: right; }
  .rule { border-top: 1px dashed #000; margin: 4px 0; }
  table { width: 100%; border-collapse: collapse; }
  td { padding: 1px 0; vertical-align: top; }
  .qty { width: 14%; }
  .amount { width: 24%; text-align: right; }
</style>
</head>
<body>
<div class="center">
  <strong>{{.StoreName}}</strong><br>
  Receipt {{.Sale.SaleNumber}}<br>
  {{.Sale.SoldAt.Format "2006-01-02 15:04:05"}}{{if .Sale.TillNumber}} · Till {{.Sale.TillNumber}}{{end}}
</div>
<div class="rule"></div>
<table>
{{range .Sale.Items}}
  <tr>
    <td colspan="3">{{.ProductName}} ({{.ProductSKU}})</td>
  </tr>
  <tr>
    <td class="qty">{{.QuantitySold}} x</td>
    <td>{{.UnitPrice.StringFixed 2}}</td>
    <td class="amount">{{.LineTotal.StringFixed 2}}</td>
  </tr>
{{end}}
</table>
<div class="rule"></div>
<table>
  <tr><td>Subtotal</td><td class="amount">{{.Sale.Subtotal.StringFixed 2}}</td></tr>
  {{if not .Sale.Discount.IsZero}}<tr><td>Discount</td><td class="amount">-{{.Sale.Discount.StringFixed 2}}</td></tr>{{end}}
  <tr><td>Tax</td><td class="amount">{{.Sale.Tax.StringFixed 2}}</td></tr>
  <tr><td><strong>Total</strong></td><td class="amount"><strong>{{.Sale.TotalAmount.StringFixed 2}}</strong></td></tr>
  <tr><td>Paid ({{label .Sale.PaymentMethod}})</td><td class="amount">{{.Sale.AmountPaid.StringFixed 2}}</td></tr>
  {{if not .Sale.ChangeGiven.IsZero}}<tr><td>Change</td><td class="amount">{{.Sale.ChangeGiven.StringFixed 2}}</td></tr>{{end}}
</table>
<div class="rule"></div>
<div class="center">Thank you for your purchase</div>
</body>
</html>`

// paymentLabel turns an enum value like BANK_TRANSFER into a printable
// "Bank Transfer".
func paymentLabel(m sales.PaymentMethod) string {
	spaced := strings.ReplaceAll(strings.ToLower(string(m)), "_", " ")
	return cases.Title(language.English).String(spaced)
}

// ReceiptPrinterConfig contains configuration for the receipt printer
type ReceiptPrinterConfig struct {
	// StoreName printed in the receipt header
	StoreName string
	// PaperSize for the receipt, defaults to 80mm thermal
	PaperSize PaperSize
}

// ReceiptPrinter renders completed sales into printable PDF receipts.
// It satisfies the sale service's ReceiptRenderer port.
type ReceiptPrinter struct {
	renderer PDFRenderer
	tmpl     *template.Template
	config   ReceiptPrinterConfig
	logger   *zap.Logger
}

// NewReceiptPrinter creates a receipt printer backed by the given PDF renderer
func NewReceiptPrinter(renderer PDFRenderer, config ReceiptPrinterConfig, logger *zap.Logger) (*ReceiptPrinter, error) {
	if config.PaperSize == "" {
		config.PaperSize = PaperSizeReceipt80MM
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	tmpl, err := template.New("receipt").
		Funcs(template.FuncMap{"label": paymentLabel}).
		Parse(receiptTemplate)
	if err != nil {
		return nil, err
	}

	return &ReceiptPrinter{
		renderer: renderer,
		tmpl:     tmpl,
		config:   config,
		logger:   logger,
	}, nil
}

// Render renders the sale into a PDF receipt
func (p *ReceiptPrinter) Render(ctx context.Context, sale *sales.Sale) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		StoreName string
		Sale      *sales.Sale
	}{
		StoreName: p.config.StoreName,
		Sale:      sale,
	}

	if err := p.tmpl.Execute(&buf, data); err != nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "failed to render receipt template", err)
	}

	result, err := p.renderer.Render(ctx, &RenderRequest{
		HTML:        buf.String(),
		PaperSize:   p.config.PaperSize,
		Orientation: OrientationPortrait,
		Margins:     ReceiptMargins(),
		Title:       "Receipt " + sale.SaleNumber,
	})
	if err != nil {
		return nil, err
	}

	p.logger.Debug("receipt rendered",
		zap.String("sale_number", sale.SaleNumber),
		zap.Int("bytes", len(result.PDFData)),
	)

	return result.PDFData, nil
}

// Ensure ReceiptPrinter implements the sale service renderer port
var _ appsales.ReceiptRenderer = (*ReceiptPrinter)(nil)
