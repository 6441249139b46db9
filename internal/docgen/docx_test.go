package docgen

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fly24/backoffice/internal/model"
	"github.com/fly24/backoffice/pkg/logger"
)

// buildDocx assembles a minimal docx zip whose document part is the
// given XML body.
func buildDocx(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// documentXML extracts word/document.xml from a generated docx.
func documentXML(t *testing.T, docx []byte) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(docx), int64(len(docx)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(content)
	}
	t.Fatal("no word/document.xml in output")
	return ""
}

const manifestXML = `<doc><h>{FlightNumber} {Date} {route}</h>` +
	`{#passengers}<row>{_index} {name} {type} {agency}</row>{/passengers}</doc>`

func TestFillTemplateExpandsRegionPerRow(t *testing.T) {
	template := buildDocx(t, manifestXML)
	rows := []map[string]string{
		{"name": "Amina", "type": "Adult", "agency": "Us"},
		{"name": "Karim", "type": "Child", "agency": "Sun Travel"},
	}
	global := map[string]string{"FlightNumber": "F24-301", "Date": "01/09/2026", "route": "CDD-MUQ"}

	out, err := FillTemplate(template, rows, global)
	require.NoError(t, err)

	doc := documentXML(t, out)
	assert.Equal(t, 2, strings.Count(doc, "<row>"))
	assert.Contains(t, doc, "1 Amina Adult Us")
	assert.Contains(t, doc, "2 Karim Child Sun Travel")
	assert.Contains(t, doc, "F24-301 01/09/2026 CDD-MUQ")
	assert.NotContains(t, doc, "{#passengers}")
	assert.NotContains(t, doc, "{/passengers}")
}

func TestFillTemplateEscapesXML(t *testing.T) {
	template := buildDocx(t, `<doc>{#passengers}<c>{name}</c>{/passengers}</doc>`)
	out, err := FillTemplate(template, []map[string]string{{"name": "A&B <Tours>"}}, nil)
	require.NoError(t, err)
	doc := documentXML(t, out)
	assert.Contains(t, doc, "A&amp;B &lt;Tours&gt;")
}

func TestFillTemplateMissingRegion(t *testing.T) {
	template := buildDocx(t, `<doc>{name}</doc>`)
	_, err := FillTemplate(template, []map[string]string{{"name": "x"}}, nil)
	assert.ErrorIs(t, err, ErrNoRegion)
}

// ---- generator -------------------------------------------------------------

func templateServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	docx := buildDocx(t, body)
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(docx)
	}))
}

func testFlight() model.Flight {
	return model.Flight{
		ID:           1,
		UUID:         "11111111-2222-3333-4444-555555555555",
		Airline:      "Blue Bird",
		FlightNumber: "F24-301",
		Date:         time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		Route:        "CDD-MUQ",
	}
}

func testPassengers() []model.Passenger {
	return []model.Passenger{
		{ID: 1, Name: "Amina", Type: model.PassengerAdult, Agency: "Us",
			Infants: []model.Infant{{Name: "Sara"}}},
		{ID: 2, Name: "Karim", Type: model.PassengerChild, Agency: "Sun Travel"},
	}
}

func TestGenerateBatchProducesOneArtifactWithAllSections(t *testing.T) {
	srv := templateServer(t, manifestXML)
	defer srv.Close()

	g := NewGenerator(NewFetcher(srv.Client(), nil), 0, logger.NewNop(), nil)
	res, err := g.Generate(context.Background(), Request{
		Kind:        KindManifest,
		Mode:        ModeBatch,
		TemplateURL: srv.URL,
		Flight:      testFlight(),
		Passengers:  testPassengers(),
		Pricing:     model.DefaultPricing(),
	})
	require.NoError(t, err)
	require.Len(t, res.Artifacts, 1)
	assert.Equal(t, 2, res.SuccessCount)
	assert.Equal(t, "F24-301-manifest.docx", res.Artifacts[0].Name)

	doc := documentXML(t, res.Artifacts[0].Content)
	assert.Equal(t, 2, strings.Count(doc, "<row>"))
	assert.Contains(t, doc, "Amina")
	assert.Contains(t, doc, "Karim")
}

func TestGenerateSingleProducesOneArtifactPerPassenger(t *testing.T) {
	srv := templateServer(t, `<doc>{#passengers}<t>{name} {TotalPrice} {IFNT1}</t>{/passengers}</doc>`)
	defer srv.Close()

	g := NewGenerator(NewFetcher(srv.Client(), nil), time.Millisecond, logger.NewNop(), nil)
	res, err := g.Generate(context.Background(), Request{
		Kind:        KindTicket,
		Mode:        ModeSingle,
		TemplateURL: srv.URL,
		Flight:      testFlight(),
		Passengers:  testPassengers(),
		Pricing:     model.DefaultPricing(),
	})
	require.NoError(t, err)
	require.Len(t, res.Artifacts, 2)
	assert.Equal(t, 2, res.SuccessCount)

	// Adult 130 + 1 infant 20 + tax 10 + surcharge 10.
	first := documentXML(t, res.Artifacts[0].Content)
	assert.Contains(t, first, "Amina 170 Sara")

	// Child 90 + tax 10 + surcharge 10, empty infant slot.
	second := documentXML(t, res.Artifacts[1].Content)
	assert.Contains(t, second, "Karim 110 ")
}

func TestGenerateFailsWithoutTemplateURL(t *testing.T) {
	g := NewGenerator(nil, 0, logger.NewNop(), nil)
	_, err := g.Generate(context.Background(), Request{
		Kind:       KindTicket,
		Mode:       ModeBatch,
		Flight:     testFlight(),
		Passengers: testPassengers(),
	})
	assert.Error(t, err)
}
