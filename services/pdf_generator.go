package services

import (
	"context"
	"fmt"
	"html"
	"strings"

	"courtflow_go/config"
	"courtflow_go/models"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// PDFOptions contains options for PDF generation
type PDFOptions struct {
	PageOrientation string // portrait, landscape
	PageSize        string // letter, legal, A4
	MarginTop       int    // points (72 = 1 inch)
	MarginBottom    int
	MarginLeft      int
	MarginRight     int
}

// DefaultPDFOptions returns default options for legal documents
func DefaultPDFOptions() PDFOptions {
	return PDFOptions{
		PageOrientation: "portrait",
		PageSize:        "letter",
		MarginTop:       72,
		MarginBottom:    72,
		MarginLeft:      72,
		MarginRight:     72,
	}
}

// GeneratePDF renders HTML content to PDF using headless Chrome
func GeneratePDF(cfg *config.Config, htmlContent string, options PDFOptions) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	)

	// Check for custom Chrome path (for headless-shell in Docker)
	if cfg.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ChromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	defer allocCancel()

	ctx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	// Page dimensions in inches
	var paperWidth, paperHeight float64
	switch options.PageSize {
	case "legal":
		paperWidth = 8.5
		paperHeight = 14.0
	case "A4":
		paperWidth = 8.27
		paperHeight = 11.69
	default: // letter
		paperWidth = 8.5
		paperHeight = 11.0
	}

	if options.PageOrientation == "landscape" {
		paperWidth, paperHeight = paperHeight, paperWidth
	}

	// Convert points to inches for margins
	marginTop := float64(options.MarginTop) / 72.0
	marginBottom := float64(options.MarginBottom) / 72.0
	marginLeft := float64(options.MarginLeft) / 72.0
	marginRight := float64(options.MarginRight) / 72.0

	var pdfBuf []byte

	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		// Wait for content to render
		chromedp.Sleep(100),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPaperWidth(paperWidth).
				WithPaperHeight(paperHeight).
				WithMarginTop(marginTop).
				WithMarginBottom(marginBottom).
				WithMarginLeft(marginLeft).
				WithMarginRight(marginRight).
				WithPrintBackground(true).
				WithDisplayHeaderFooter(false).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfBuf = buf
			return nil
		}),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return pdfBuf, nil
}

// BuildCaseSummaryHTML renders a printable summary of a case for PDF export.
// All user-supplied fields are escaped.
func BuildCaseSummaryHTML(kase *models.Case, hearings []models.Hearing) string {
	var b strings.Builder

	b.WriteString(`<!DOCTYPE html><html><head><meta charset="utf-8"><style>
body { font-family: Georgia, 'Times New Roman', serif; color: #1a1a1a; font-size: 12pt; }
h1 { font-size: 16pt; border-bottom: 2px solid #1a1a1a; padding-bottom: 8px; }
h2 { font-size: 13pt; margin-top: 24px; }
table { border-collapse: collapse; width: 100%; margin-top: 8px; }
td, th { border: 1px solid #999; padding: 6px 10px; text-align: left; font-size: 10.5pt; }
.meta { color: #555; font-size: 10pt; }
</style></head><body>`)

	fmt.Fprintf(&b, "<h1>Case Summary: %s</h1>", html.EscapeString(kase.CaseNumber))
	fmt.Fprintf(&b, `<p class="meta">Filed %s · Status: %s</p>`,
		kase.FiledAt.Format("January 2, 2006"), html.EscapeString(kase.DisplayStatus()))

	fmt.Fprintf(&b, "<h2>%s</h2><p>%s</p>",
		html.EscapeString(kase.Title), html.EscapeString(kase.Description))

	b.WriteString("<h2>Details</h2><table>")
	writeRow := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "<tr><th>%s</th><td>%s</td></tr>", label, html.EscapeString(value))
		}
	}
	writeRow("Case Type", kase.CaseType)
	writeRow("Client", kase.Client.Name)
	if kase.Judge != nil {
		writeRow("Assigned Judge", kase.Judge.Name)
	}
	if kase.Court != nil {
		writeRow("Court", kase.Court.Name)
	}
	writeRow("Defendant", kase.Defendant.Name)
	if kase.Plaintiff.IsSet() {
		writeRow("Plaintiff", kase.Plaintiff.Name)
	}
	if kase.ClosedAt != nil {
		writeRow("Closed At", kase.ClosedAt.Format("January 2, 2006"))
	}
	b.WriteString("</table>")

	if len(hearings) > 0 {
		b.WriteString("<h2>Hearings</h2><table><tr><th>Date</th><th>Location</th><th>Purpose</th><th>Status</th></tr>")
		for _, hearing := range hearings {
			fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>",
				hearing.ScheduledAt.Format("2006-01-02 15:04"),
				html.EscapeString(hearing.Location),
				html.EscapeString(hearing.Purpose),
				html.EscapeString(hearing.Status))
		}
		b.WriteString("</table>")
	}

	b.WriteString("</body></html>")
	return b.String()
}
