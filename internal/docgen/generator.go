package docgen

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fly24/backoffice/internal/model"
	"github.com/fly24/backoffice/pkg/logger"
	"github.com/fly24/backoffice/pkg/metrics"
)

// Document kinds and generation modes.
const (
	KindTicket   = "ticket"
	KindManifest = "manifest"

	ModeBatch  = "batch"
	ModeSingle = "single"
)

// Artifact is one generated document ready for download.
type Artifact struct {
	Name    string `json:"name"`
	Content []byte `json:"-"`
}

// Request describes one generation run. Passengers is the subset the
// caller selected; Pricing feeds the fare tokens on ticket templates.
type Request struct {
	Kind        string
	Mode        string
	TemplateURL string
	Flight      model.Flight
	Passengers  []model.Passenger
	Pricing     model.Pricing
}

// Result reports what a run produced. In single mode failed items are
// skipped rather than aborting the run, so SuccessCount may be lower
// than the passenger count.
type Result struct {
	Artifacts    []Artifact
	SuccessCount int
}

// Generator produces filled ticket and manifest documents.
type Generator struct {
	fetcher *Fetcher
	delay   time.Duration
	log     logger.Logger
	metrics *metrics.Metrics
}

// NewGenerator builds a Generator. delay is the pause between items in
// single mode, keeping sequential runs gentle on the template host.
func NewGenerator(fetcher *Fetcher, delay time.Duration, log logger.Logger, m *metrics.Metrics) *Generator {
	if fetcher == nil {
		fetcher = NewFetcher(nil, nil)
	}
	return &Generator{fetcher: fetcher, delay: delay, log: log, metrics: m}
}

// Generate fetches the template once and fills it. Batch mode produces
// a single artifact whose passenger region repeats once per passenger;
// single mode produces one artifact per passenger, waiting the
// configured delay between items.
func (g *Generator) Generate(ctx context.Context, req Request) (Result, error) {
	if len(req.Passengers) == 0 {
		return Result{}, fmt.Errorf("no passengers selected")
	}
	if req.TemplateURL == "" {
		return Result{}, fmt.Errorf("no %s template configured for airline %q", req.Kind, req.Flight.Airline)
	}

	start := time.Now()
	template, err := g.fetcher.Fetch(ctx, NormalizeShareURL(req.TemplateURL))
	if err != nil {
		g.countError("template_fetch")
		return Result{}, err
	}

	global := flightTokens(req.Flight)

	var res Result
	switch req.Mode {
	case ModeSingle:
		res, err = g.generateSequential(ctx, req, template, global)
	default:
		res, err = g.generateBatch(req, template, global)
	}
	if err != nil {
		return Result{}, err
	}

	if g.metrics != nil {
		g.metrics.DocumentsGenerated.WithLabelValues(req.Kind).Add(float64(len(res.Artifacts)))
		g.metrics.GenerationTime.Observe(time.Since(start).Seconds())
	}
	if g.log != nil {
		g.log.Info("documents generated",
			"kind", req.Kind, "mode", req.Mode, "flight", req.Flight.FlightNumber,
			"passengers", len(req.Passengers), "artifacts", len(res.Artifacts))
	}
	return res, nil
}

func (g *Generator) generateBatch(req Request, template []byte, global map[string]string) (Result, error) {
	rows := make([]map[string]string, 0, len(req.Passengers))
	for i, p := range req.Passengers {
		rows = append(rows, passengerTokens(p, req.Flight, req.Pricing, i+1))
	}
	content, err := FillTemplate(template, rows, global)
	if err != nil {
		g.countError("template_fill")
		return Result{}, fmt.Errorf("fill %s template: %w", req.Kind, err)
	}
	name := fmt.Sprintf("%s-%s.docx", safeFileName(req.Flight.FlightNumber), req.Kind)
	return Result{
		Artifacts:    []Artifact{{Name: name, Content: content}},
		SuccessCount: len(req.Passengers),
	}, nil
}

func (g *Generator) generateSequential(ctx context.Context, req Request, template []byte, global map[string]string) (Result, error) {
	var res Result
	for i, p := range req.Passengers {
		if i > 0 && g.delay > 0 {
			select {
			case <-ctx.Done():
				return res, ctx.Err()
			case <-time.After(g.delay):
			}
		}

		rows := []map[string]string{passengerTokens(p, req.Flight, req.Pricing, i+1)}
		content, err := FillTemplate(template, rows, global)
		if err != nil {
			g.countError("template_fill")
			if g.log != nil {
				g.log.Error("skipping passenger document", "passenger", p.Name, "error", err)
			}
			continue
		}
		name := fmt.Sprintf("%s-%s-%s.docx",
			safeFileName(req.Flight.FlightNumber), req.Kind, safeFileName(p.Name))
		res.Artifacts = append(res.Artifacts, Artifact{Name: name, Content: content})
		res.SuccessCount++
	}
	if res.SuccessCount == 0 {
		return Result{}, fmt.Errorf("no documents could be generated")
	}
	return res, nil
}

// flightTokens are the placeholders valid anywhere in a template.
func flightTokens(f model.Flight) map[string]string {
	date := f.Date.Format("02/01/2006")
	return map[string]string{
		"FlightNumber": f.FlightNumber,
		"Date":         date,
		"flightDate":   date,
		"route":        f.Route,
	}
}

// passengerTokens are the placeholders valid inside the repeated
// passenger region. Infant slots beyond the filled ones resolve to
// empty strings so unused template cells come out blank.
func passengerTokens(p model.Passenger, f model.Flight, pricing model.Pricing, index int) map[string]string {
	names := make([]string, 0, len(p.Infants))
	for _, inf := range p.Infants {
		if inf.Name != "" {
			names = append(names, inf.Name)
		}
	}

	t := map[string]string{
		"name":            p.Name,
		"type":            p.Type,
		"gender":          p.Gender,
		"phoneNumber":     p.PhoneNumber,
		"agency":          p.Agency,
		"infants":         strings.Join(names, ", "),
		"price":           fmt.Sprintf("%d", basePrice(p.Type, pricing)),
		"Tax":             fmt.Sprintf("%d", pricing.Tax),
		"Surcharge":       fmt.Sprintf("%d", pricing.Surcharge),
		"TotalPrice":      fmt.Sprintf("%d", pricing.Total(p.Type, len(names))),
		"bookingrefrence": bookingReference(f, p, index),
	}
	for i := 0; i < 5; i++ {
		key := fmt.Sprintf("IFNT%d", i+1)
		if i < len(names) {
			t[key] = names[i]
		} else {
			t[key] = ""
		}
	}
	return t
}

func basePrice(passengerType string, pricing model.Pricing) int {
	if passengerType == model.PassengerChild {
		return pricing.Child
	}
	return pricing.Adult
}

// bookingReference derives a stable human-readable reference from the
// flight number, departure day and passenger sequence.
func bookingReference(f model.Flight, p model.Passenger, index int) string {
	num := strings.ToUpper(strings.ReplaceAll(f.FlightNumber, " ", ""))
	return fmt.Sprintf("%s-%s-%03d", num, f.Date.Format("0201"), index)
}

func safeFileName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "document"
	}
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

func (g *Generator) countError(op string) {
	if g.metrics != nil {
		g.metrics.ErrorsTotal.WithLabelValues(op).Inc()
	}
}
