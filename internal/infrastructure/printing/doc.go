// Package printing provides PDF generation for printable documents.
//
// This package contains:
// - PDFRenderer interface for rendering HTML to PDF
// - ChromedpRenderer implementation using the Chrome DevTools Protocol
// - WkhtmltopdfRenderer implementation using the wkhtmltopdf command-line tool
// - ReceiptPrinter which renders completed sales into thermal receipt PDFs
//
// Example usage:
//
//	renderer, err := NewChromedpRenderer(&ChromedpConfig{NoSandbox: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer renderer.Close()
//
//	result, err := renderer.Render(ctx, &RenderRequest{
//	    HTML:        "<html>...</html>",
//	    PaperSize:   PaperSizeA4,
//	    Orientation: OrientationPortrait,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("Generated PDF: %d bytes\n", len(result.PDFData))
package printing
