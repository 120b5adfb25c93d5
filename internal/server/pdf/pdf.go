// Package pdf prints HTML documents to PDF with headless Chrome.
package pdf

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/dmitrijs2005/notetake/internal/logging"
)

// Renderer turns a complete HTML document into PDF bytes.
type Renderer interface {
	Render(ctx context.Context, html string) ([]byte, error)
}

// Letter paper in inches.
const (
	paperWidth  = 8.5
	paperHeight = 11
	margin      = 0.5
)

// loadedScript is true once the document and every image on it finished
// loading.
const loadedScript = `document.readyState === "complete" && Array.from(document.images).every(i => i.complete)`

// ChromeRenderer starts a fresh browser per request and closes it afterwards.
type ChromeRenderer struct {
	execPath string
	logger   logging.Logger
}

// NewChromeRenderer uses execPath when set, otherwise chromedp looks for a
// Chrome or Chromium binary on PATH.
func NewChromeRenderer(execPath string, l logging.Logger) *ChromeRenderer {
	return &ChromeRenderer{execPath: execPath, logger: l.With("module", "pdf")}
}

func (r *ChromeRenderer) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.NoSandbox,
		chromedp.Flag("disable-setuid-sandbox", true),
	)
	if r.execPath != "" {
		opts = append(opts, chromedp.ExecPath(r.execPath))
	}
	return opts
}

func printParams() *page.PrintToPDFParams {
	return page.PrintToPDF().
		WithPaperWidth(paperWidth).
		WithPaperHeight(paperHeight).
		WithMarginTop(margin).
		WithMarginBottom(margin).
		WithMarginLeft(margin).
		WithMarginRight(margin).
		WithPrintBackground(true)
}

func (r *ChromeRenderer) Render(ctx context.Context, html string) ([]byte, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, r.allocatorOptions()...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var buf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.Poll(loadedScript, nil),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, _, err = printParams().Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}

	r.logger.Debug(ctx, "pdf rendered", "bytes", len(buf))
	return buf, nil
}
