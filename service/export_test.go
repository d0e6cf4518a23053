package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ZaneerahEssop/QUANTIX-sub001/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	putErr  error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeStorage) PutObject(_ context.Context, name string, data []byte, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return f.putErr
	}
	f.objects[name] = append([]byte(nil), data...)
	f.types[name] = contentType
	return nil
}

func (f *fakeStorage) PresignedURL(_ context.Context, name string) (string, error) {
	return "https://storage.test/" + name, nil
}

func signedContract() *model.Contract {
	planner, vendor := "Jane Doe", "Acme Owner"
	at := time.Date(2025, 5, 20, 9, 30, 0, 0, time.UTC)
	return &model.Contract{
		ID:               "contract-1",
		Content:          "# Event Services Agreement\n\n## Payment Terms\n- **Total Fee:** R15000\n",
		Status:           model.StatusActive,
		PlannerSignature: &planner,
		PlannerSignedAt:  &at,
		VendorSignature:  &vendor,
		VendorSignedAt:   &at,
	}
}

func TestRenderMarkdownSignatureBlock(t *testing.T) {
	out := RenderMarkdown(signedContract())

	assert.True(t, strings.HasPrefix(out, "# Event Services Agreement"))
	assert.Contains(t, out, "- **Planner:** Jane Doe (2025-05-20T09:30:00Z)")
	assert.Contains(t, out, "- **Vendor:** Acme Owner (2025-05-20T09:30:00Z)")
	assert.Contains(t, out, "**Status:** active")
}

func TestRenderMarkdownPendingSignatures(t *testing.T) {
	c := &model.Contract{ID: "c", Content: "body", Status: model.StatusPendingPlannerSignature}
	out := RenderMarkdown(c)

	assert.Contains(t, out, "- **Planner:** pending")
	assert.Contains(t, out, "- **Vendor:** pending")
}

func TestExporterUploadsMarkdownAndHTML(t *testing.T) {
	storage := newFakeStorage()
	x := NewExporter(storage)
	x.now = func() time.Time { return time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC) }

	res, err := x.Export(context.Background(), signedContract())
	require.NoError(t, err)

	assert.Equal(t, "contracts/contract-1/20250602T080000Z/contract.md", res.MarkdownKey)
	assert.Equal(t, "contracts/contract-1/20250602T080000Z/contract.html", res.HTMLKey)
	assert.Equal(t, "https://storage.test/"+res.HTMLKey, res.HTMLURL)
	assert.Equal(t, "https://storage.test/"+res.MarkdownKey, res.MarkdownURL)

	page := string(storage.objects[res.HTMLKey])
	assert.Contains(t, page, "<h1>Event Services Agreement</h1>")
	assert.Contains(t, page, "<h2>Payment Terms</h2>")
	assert.Contains(t, page, "<strong>Total Fee:</strong> R15000")
	assert.Contains(t, page, "<title>Contract contract-1</title>")
	assert.Equal(t, "text/html; charset=utf-8", storage.types[res.HTMLKey])

	assert.Contains(t, string(storage.objects[res.MarkdownKey]), "## Signature Record")
}

func TestExporterDropsRawHTML(t *testing.T) {
	x := NewExporter(newFakeStorage())
	c := &model.Contract{ID: "c", Content: "<script>alert(1)</script>\n"}

	page, err := x.RenderHTML(c, RenderMarkdown(c))
	require.NoError(t, err)
	assert.NotContains(t, string(page), "<script>")
}

func TestExporterErrors(t *testing.T) {
	storage := newFakeStorage()
	storage.putErr = errors.New("bucket gone")
	x := NewExporter(storage)

	_, err := x.Export(context.Background(), signedContract())
	assert.ErrorIs(t, err, storage.putErr)

	_, err = x.Export(context.Background(), &model.Contract{})
	assert.Error(t, err)
}
