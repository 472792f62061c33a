package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/sells-group/bloominghealth/internal/dashboard"
	"github.com/sells-group/bloominghealth/internal/forecast"
	"github.com/sells-group/bloominghealth/internal/intensity"
	"github.com/sells-group/bloominghealth/internal/layout"
	"github.com/sells-group/bloominghealth/internal/model"
)

const helloMessage = "Hola desde el backend!"

// requestError is a client mistake reported as 400.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &requestError{msg: fmt.Sprintf(format, args...)}
}

// rendered is a response value and the tiers classified to build it.
type rendered struct {
	value any
	tiers []intensity.Tier
}

// viewFunc builds the value encoded for a request.
type viewFunc func(r *http.Request) (rendered, error)

// serveJSON encodes the value built by view. Cacheable views are keyed by
// path and normalized query. Tiers are counted on hits as well as misses.
func (s *Server) serveJSON(view viewFunc, cacheable bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cache := s.cache
		if !cacheable {
			cache = nil
		}
		key := keyFor(r)

		if cache != nil {
			if hit, ok := cache.Get(key); ok {
				s.observeTiers(hit.tiers)
				w.Header().Set("X-Cache", "hit")
				writeBody(w, http.StatusOK, hit.body)
				return
			}
		}

		v, err := view(r)
		if err != nil {
			var reqErr *requestError
			if errors.As(err, &reqErr) {
				writeError(w, http.StatusBadRequest, reqErr.msg)
				return
			}
			zap.L().Error("server: build response", zap.String("path", r.URL.Path), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		body, err := json.Marshal(v.value)
		if err != nil {
			zap.L().Error("server: encode response", zap.String("path", r.URL.Path), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		s.observeTiers(v.tiers)

		if cache != nil {
			cache.Put(key, cachedView{body: body, tiers: v.tiers})
			w.Header().Set("X-Cache", "miss")
		}
		writeBody(w, http.StatusOK, body)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleHello(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": helloMessage})
}

func (s *Server) handleNotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, "not found")
}

func (s *Server) handleFallback(w http.ResponseWriter, r *http.Request) {
	if s.frontend == nil {
		s.handleNotFound(w, r)
		return
	}
	s.frontend.ServeHTTP(w, r)
}

// year reads the year query parameter, defaulting to the latest year.
func (s *Server) year(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		y, _ := s.data.LatestYear()
		return y, nil
	}
	y, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest("invalid year %q", raw)
	}
	return y, nil
}

func (s *Server) paletteFor(r *http.Request) intensity.Palette {
	if name := r.URL.Query().Get("palette"); name != "" {
		return intensity.PaletteByName(name)
	}
	return s.palette
}

// engineFor copies the configured engine with the request's palette.
func (s *Server) engineFor(r *http.Request) *layout.Engine {
	e := *s.engine
	e.Palette = s.paletteFor(r)
	return &e
}

func (s *Server) zonesFor(r *http.Request) ([]model.ZoneRecord, error) {
	year, err := s.year(r)
	if err != nil {
		return nil, err
	}
	return s.data.ListZones(year), nil
}

func (s *Server) years(_ *http.Request) (rendered, error) {
	return rendered{value: s.data.ListYears()}, nil
}

func (s *Server) bloomZones(r *http.Request) (rendered, error) {
	zones, err := s.zonesFor(r)
	if err != nil {
		return rendered{}, err
	}
	palette := s.paletteFor(r)

	out := make([]model.BloomZone, 0, len(zones))
	tiers := make([]intensity.Tier, 0, len(zones))
	for _, z := range zones {
		c := intensity.Classify(z.BloomIntensity)
		tiers = append(tiers, c.Tier)
		flowers := z.DominantFlowers
		if flowers == nil {
			flowers = []string{}
		}
		out = append(out, model.BloomZone{
			Name:            z.Name,
			Percentage:      z.BloomIntensity,
			Color:           palette.Render(c.Color),
			DominantFlowers: flowers,
		})
	}
	return rendered{value: out, tiers: tiers}, nil
}

func (s *Server) healthAlerts(_ *http.Request) (rendered, error) {
	return rendered{value: s.data.ListHealthAlerts()}, nil
}

func (s *Server) flowers(_ *http.Request) (rendered, error) {
	return rendered{value: s.data.ListFlowers()}, nil
}

// zoneView is a zone record with its classification rendered for display.
type zoneView struct {
	model.ZoneRecord
	Tier  intensity.Tier `json:"tier"`
	Color string         `json:"color"`
}

func (s *Server) zones(r *http.Request) (rendered, error) {
	zones, err := s.zonesFor(r)
	if err != nil {
		return rendered{}, err
	}
	palette := s.paletteFor(r)

	out := make([]zoneView, 0, len(zones))
	tiers := make([]intensity.Tier, 0, len(zones))
	for _, z := range zones {
		c := intensity.Classify(z.BloomIntensity)
		tiers = append(tiers, c.Tier)
		out = append(out, zoneView{ZoneRecord: z, Tier: c.Tier, Color: palette.Render(c.Color)})
	}
	return rendered{value: out, tiers: tiers}, nil
}

func (s *Server) radial(r *http.Request) (rendered, error) {
	zones, err := s.zonesFor(r)
	if err != nil {
		return rendered{}, err
	}
	step := 0.0
	if raw := r.URL.Query().Get("step"); raw != "" {
		step, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return rendered{}, badRequest("invalid step %q", raw)
		}
	}
	descs := s.engineFor(r).Radial(zones, step, r.URL.Query().Get("selected"))
	return rendered{value: descs, tiers: descriptorTiers(descs)}, nil
}

func (s *Server) anchors(r *http.Request) (rendered, error) {
	zones, err := s.zonesFor(r)
	if err != nil {
		return rendered{}, err
	}
	descs := s.engineFor(r).Anchors(zones, r.URL.Query().Get("selected"))
	return rendered{value: descs, tiers: descriptorTiers(descs)}, nil
}

func (s *Server) geoJSON(r *http.Request) (rendered, error) {
	zones, err := s.zonesFor(r)
	if err != nil {
		return rendered{}, err
	}
	descs := s.engineFor(r).Anchors(zones, r.URL.Query().Get("selected"))
	fc, err := layout.FeatureCollection(descs)
	if err != nil {
		return rendered{}, err
	}
	return rendered{value: fc, tiers: descriptorTiers(descs)}, nil
}

// legendResponse is the legend in the negotiated language.
type legendResponse struct {
	Language string           `json:"language"`
	Bands    []intensity.Band `json:"bands"`
}

func (s *Server) legend(r *http.Request) (rendered, error) {
	prefs := []string{r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"), s.locale}
	tag := intensity.MatchLanguage(prefs...)
	return rendered{value: legendResponse{
		Language: tag.String(),
		Bands:    intensity.Legend(s.paletteFor(r), intensity.Printer(prefs...)),
	}}, nil
}

// dashboardResponse is the headline summary plus year-over-year trends.
type dashboardResponse struct {
	Year         int                   `json:"year"`
	PreviousYear *int                  `json:"previousYear,omitempty"`
	Summary      dashboard.Summary     `json:"summary"`
	Trends       []dashboard.ZoneTrend `json:"trends"`
}

func (s *Server) dashboard(r *http.Request) (rendered, error) {
	year, err := s.year(r)
	if err != nil {
		return rendered{}, err
	}
	cur := s.data.ListZones(year)

	resp := dashboardResponse{
		Year:    year,
		Summary: dashboard.Summarize(cur, s.data.ListFlowers(), s.data.ListHealthAlerts()),
	}
	var prev []model.ZoneRecord
	if py, ok := s.data.PreviousYear(year); ok {
		resp.PreviousYear = &py
		prev = s.data.ListZones(py)
	}
	resp.Trends = dashboard.Compare(prev, cur)
	return rendered{value: resp}, nil
}

// forecastZone is a zone projection with its tier rendered for display.
type forecastZone struct {
	forecast.ZoneForecast
	Color string `json:"color"`
}

// forecastResponse is the next-year projection and the method's score on the
// latest observed year.
type forecastResponse struct {
	Method     forecast.Method      `json:"method"`
	BaseYear   int                  `json:"baseYear"`
	Year       int                  `json:"year"`
	Zones      []forecastZone       `json:"zones"`
	Validation *forecast.Validation `json:"validation,omitempty"`
}

func (s *Server) forecast(r *http.Request) (rendered, error) {
	year, err := s.year(r)
	if err != nil {
		return rendered{}, err
	}
	raw := r.URL.Query().Get("method")
	method, ok := forecast.ParseMethod(raw)
	if !ok {
		return rendered{}, badRequest("invalid method %q", raw)
	}
	palette := s.paletteFor(r)

	history := forecast.History(s.data, year)
	proj := forecast.Project(history, method)
	resp := forecastResponse{
		Method:   proj.Method,
		BaseYear: year,
		Year:     year + 1,
		Zones:    make([]forecastZone, 0, len(proj.Zones)),
	}
	for _, z := range proj.Zones {
		resp.Zones = append(resp.Zones, forecastZone{ZoneForecast: z, Color: palette.Render(z.Tier.Color())})
	}
	if v, ok := forecast.Validate(history, method); ok {
		resp.Validation = &v
	}
	return rendered{value: resp}, nil
}

func descriptorTiers(descs []layout.Descriptor) []intensity.Tier {
	tiers := make([]intensity.Tier, len(descs))
	for i, d := range descs {
		tiers[i] = d.Tier
	}
	return tiers
}

func (s *Server) observeTiers(tiers []intensity.Tier) {
	for _, t := range tiers {
		s.metrics.ObserveTier(t)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		zap.L().Error("server: encode response", zap.Error(err))
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	writeBody(w, status, body)
}

func writeBody(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
