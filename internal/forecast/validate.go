package forecast

import (
	"math"
	"sort"

	"github.com/sells-group/bloominghealth/internal/model"
)

// Errors summarizes how far predictions landed from observations. MAPE is a
// percentage computed over non-zero observations only.
type Errors struct {
	N    int     `json:"n"`
	MAE  float64 `json:"mae"`
	MSE  float64 `json:"mse"`
	RMSE float64 `json:"rmse"`
	MAPE float64 `json:"mape"`
}

// Score compares predicted against actual pairwise. Extra values on the
// longer side are ignored.
func Score(actual, predicted []float64) Errors {
	n := min(len(actual), len(predicted))
	if n == 0 {
		return Errors{}
	}

	var absSum, sqSum, pctSum float64
	pctN := 0
	for i := range n {
		d := actual[i] - predicted[i]
		absSum += math.Abs(d)
		sqSum += d * d
		if actual[i] != 0 {
			pctSum += math.Abs(d / actual[i])
			pctN++
		}
	}

	e := Errors{
		N:   n,
		MAE: absSum / float64(n),
		MSE: sqSum / float64(n),
	}
	e.RMSE = math.Sqrt(e.MSE)
	if pctN > 0 {
		e.MAPE = pctSum / float64(pctN) * 100
	}
	return e
}

// ZoneError is the held-out prediction of one zone.
type ZoneError struct {
	ID        string  `json:"id"`
	Actual    int     `json:"actual"`
	Predicted float64 `json:"predicted"`
	Error     float64 `json:"error"`
}

// Validation scores a method by hiding the latest year, projecting it from
// the earlier years, and comparing against what was observed.
type Validation struct {
	Method      Method      `json:"method"`
	HoldoutYear int         `json:"holdoutYear"`
	Errors      Errors      `json:"errors"`
	Zones       []ZoneError `json:"zones"`
}

// Validate holds out the latest snapshot and scores m on it. Zones without
// any earlier observation are left out. It reports false when fewer than two
// years are available.
func Validate(snapshots []model.YearSnapshot, m Method) (Validation, bool) {
	snaps := append([]model.YearSnapshot(nil), snapshots...)
	sort.SliceStable(snaps, func(i, j int) bool { return snaps[i].Year < snaps[j].Year })

	years := 0
	for i, s := range snaps {
		if i == 0 || s.Year != snaps[i-1].Year {
			years++
		}
	}
	if years < 2 {
		return Validation{}, false
	}

	holdout := snaps[len(snaps)-1].Year
	var train, test []model.YearSnapshot
	for _, s := range snaps {
		if s.Year == holdout {
			test = append(test, s)
		} else {
			train = append(train, s)
		}
	}

	history := make(map[string][]Point)
	for _, s := range BuildSeries(train) {
		history[s.ID] = s.Points
	}

	v := Validation{Method: m, HoldoutYear: holdout, Zones: []ZoneError{}}
	var actual, predicted []float64
	for _, s := range BuildSeries(test) {
		pts, ok := history[s.ID]
		if !ok {
			continue
		}
		pred, _ := m.predict(pts, holdout)
		obs := s.Points[0].Intensity
		v.Zones = append(v.Zones, ZoneError{
			ID:        s.ID,
			Actual:    obs,
			Predicted: pred,
			Error:     float64(obs) - pred,
		})
		actual = append(actual, float64(obs))
		predicted = append(predicted, pred)
	}
	v.Errors = Score(actual, predicted)
	return v, true
}

// Best returns the validation with the lowest RMSE, preferring earlier
// entries on ties.
func Best(vs []Validation) (Validation, bool) {
	if len(vs) == 0 {
		return Validation{}, false
	}
	best := vs[0]
	for _, v := range vs[1:] {
		if v.Errors.RMSE < best.Errors.RMSE {
			best = v
		}
	}
	return best, true
}
