package service

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/ZaneerahEssop/QUANTIX-sub001/model"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// ExportResult holds download links for an exported contract
type ExportResult struct {
	ContractID  string    `json:"contractId"`
	MarkdownKey string    `json:"markdownKey"`
	HTMLKey     string    `json:"htmlKey"`
	MarkdownURL string    `json:"markdownUrl"`
	HTMLURL     string    `json:"htmlUrl"`
	ExportedAt  time.Time `json:"exportedAt"`
}

// Exporter renders a contract with its signature block and uploads the
// markdown source and the HTML rendering side by side.
type Exporter struct {
	storage ObjectStorage
	md      goldmark.Markdown
	now     func() time.Time
}

func NewExporter(storage ObjectStorage) *Exporter {
	return &Exporter{
		storage: storage,
		md:      goldmark.New(goldmark.WithExtensions(extension.Table)),
		now:     time.Now,
	}
}

// Export uploads contracts/<id>/<timestamp>/contract.{md,html}
func (x *Exporter) Export(ctx context.Context, c *model.Contract) (*ExportResult, error) {
	if c == nil || c.ID == "" {
		return nil, fmt.Errorf("export: contract has no id")
	}

	source := RenderMarkdown(c)
	page, err := x.RenderHTML(c, source)
	if err != nil {
		return nil, err
	}

	at := x.now().UTC()
	prefix := fmt.Sprintf("contracts/%s/%s", c.ID, at.Format("20060102T150405Z"))
	res := &ExportResult{
		ContractID:  c.ID,
		MarkdownKey: prefix + "/contract.md",
		HTMLKey:     prefix + "/contract.html",
		ExportedAt:  at,
	}

	if err := x.storage.PutObject(ctx, res.MarkdownKey, []byte(source), "text/markdown; charset=utf-8"); err != nil {
		return nil, fmt.Errorf("export markdown: %w", err)
	}
	if err := x.storage.PutObject(ctx, res.HTMLKey, page, "text/html; charset=utf-8"); err != nil {
		return nil, fmt.Errorf("export html: %w", err)
	}

	if res.MarkdownURL, err = x.storage.PresignedURL(ctx, res.MarkdownKey); err != nil {
		return nil, err
	}
	if res.HTMLURL, err = x.storage.PresignedURL(ctx, res.HTMLKey); err != nil {
		return nil, err
	}
	return res, nil
}

// RenderMarkdown appends the signature block to the contract content
func RenderMarkdown(c *model.Contract) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(c.Content, "\n"))
	b.WriteString("\n\n---\n\n")
	b.WriteString("## Signature Record\n\n")
	b.WriteString(signatureLine("Planner", c.PlannerSignature, c.PlannerSignedAt))
	b.WriteString(signatureLine("Vendor", c.VendorSignature, c.VendorSignedAt))
	fmt.Fprintf(&b, "\n**Status:** %s\n", c.Status)
	return b.String()
}

func signatureLine(party string, name *string, at *time.Time) string {
	if name == nil || strings.TrimSpace(*name) == "" {
		return fmt.Sprintf("- **%s:** pending\n", party)
	}
	line := fmt.Sprintf("- **%s:** %s", party, *name)
	if at != nil {
		line += " (" + at.UTC().Format(time.RFC3339) + ")"
	}
	return line + "\n"
}

// RenderHTML converts markdown to a standalone HTML page
func (x *Exporter) RenderHTML(c *model.Contract, source string) ([]byte, error) {
	var body bytes.Buffer
	if err := x.md.Convert([]byte(source), &body); err != nil {
		return nil, fmt.Errorf("render contract: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&page, "<title>Contract %s</title>\n", html.EscapeString(c.ID))
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}
