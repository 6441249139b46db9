package handler

import (
	"encoding/base64"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fly24/backoffice/internal/docgen"
	"github.com/fly24/backoffice/internal/model"
	"github.com/fly24/backoffice/internal/permission"
	"github.com/fly24/backoffice/internal/store"
)

const docxMIME = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// GenerateHandler produces ticket and manifest documents for a flight.
type GenerateHandler struct {
	Registry  *store.Registry
	Generator *docgen.Generator
}

func NewGenerateHandler(reg *store.Registry, gen *docgen.Generator) *GenerateHandler {
	return &GenerateHandler{Registry: reg, Generator: gen}
}

type generateReq struct {
	Kind         string   `json:"kind"`    // ticket | manifest
	Mode         string   `json:"mode"`    // batch | single
	Variant      string   `json:"variant"` // manifests: office | airport
	PassengerIDs []uint64 `json:"passenger_ids"`
}

type artifactPart struct {
	Name    string `json:"name"`
	Content string `json:"content"` // base64 docx
}

// Documents generates documents for the flight in the path. One
// artifact is streamed back as a docx download; several come back as a
// JSON list of base64 files with the success count.
func (h *GenerateHandler) Documents(c echo.Context) error {
	var req generateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Kind != docgen.KindTicket && req.Kind != docgen.KindManifest {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "kind must be ticket or manifest"})
	}
	if req.Mode != docgen.ModeBatch && req.Mode != docgen.ModeSingle {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "mode must be batch or single"})
	}

	st, werr := viewerStore(c, h.Registry)
	if st == nil {
		return werr
	}
	eval := st.Evaluator()
	if eval == nil {
		return writeStoreErr(c, store.ErrNotLoaded)
	}
	if !eval.Has(permission.ResGenerating, req.Kind) ||
		!eval.Has(permission.ResGenerating, "download") ||
		(req.Mode == docgen.ModeBatch && !eval.Has(permission.ResGenerating, "batch")) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	flight, ok := st.FindFlight(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}

	passengers := selectPassengers(flight.Passengers, req.PassengerIDs)
	if len(passengers) == 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "no passengers selected"})
	}

	templateURL, ok := templateFor(st.Airlines(), flight.Airline, req.Kind, req.Variant)
	if !ok {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "no template configured for this airline"})
	}

	res, err := h.Generator.Generate(c.Request().Context(), docgen.Request{
		Kind:        req.Kind,
		Mode:        req.Mode,
		TemplateURL: templateURL,
		Flight:      flight,
		Passengers:  passengers,
		Pricing:     st.Pricing(),
	})
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": err.Error()})
	}

	if len(res.Artifacts) == 1 {
		a := res.Artifacts[0]
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+a.Name+`"`)
		return c.Blob(http.StatusOK, docxMIME, a.Content)
	}

	parts := make([]artifactPart, 0, len(res.Artifacts))
	for _, a := range res.Artifacts {
		parts = append(parts, artifactPart{
			Name:    a.Name,
			Content: base64.StdEncoding.EncodeToString(a.Content),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success_count": res.SuccessCount,
		"artifacts":     parts,
	})
}

// selectPassengers keeps the passengers matching ids, or all of them
// when no ids are given.
func selectPassengers(all []model.Passenger, ids []uint64) []model.Passenger {
	if len(ids) == 0 {
		return all
	}
	want := make(map[uint64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []model.Passenger
	for _, p := range all {
		if want[p.ID] {
			out = append(out, p)
		}
	}
	return out
}

// templateFor resolves the template link for a flight's airline.
// Manifests come in office and airport variants; office is the default.
func templateFor(airlines []model.Airline, airlineName, kind, variant string) (string, bool) {
	for _, a := range airlines {
		if a.Name != airlineName {
			continue
		}
		url := a.TicketTemplate
		if kind == docgen.KindManifest {
			if variant == "airport" {
				url = a.ManifestAirport
			} else {
				url = a.ManifestOffice
			}
		}
		return url, url != ""
	}
	return "", false
}
