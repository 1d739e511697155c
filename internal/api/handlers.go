// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pdiddy/nutrilabel/internal/calc"
	"github.com/pdiddy/nutrilabel/internal/predicate"
	"github.com/pdiddy/nutrilabel/pkg/types"
)

func (rt *Router) health(w http.ResponseWriter, _ *http.Request) {
	rt.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) listNutrients(w http.ResponseWriter, _ *http.Request) {
	rt.respondJSON(w, http.StatusOK, map[string]any{"nutrients": types.Nutrients})
}

// GET /api/foods?q=
func (rt *Router) searchFoods(w http.ResponseWriter, r *http.Request) {
	foods, err := rt.cat.SearchByName(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		rt.respondError(w, r, err)
		return
	}
	rt.respondJSON(w, http.StatusOK, map[string]any{"foods": nonNil(foods)})
}

// GET /api/foods/{code}?amount=&unit=
func (rt *Router) getFood(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	q := r.URL.Query()
	if q.Get("amount") == "" {
		food, err := rt.cat.GetFoodItem(r.Context(), code)
		if err != nil {
			rt.respondError(w, r, err)
			return
		}
		rt.respondJSON(w, http.StatusOK, food)
		return
	}

	amount, ok := types.ParseDecimal(q.Get("amount"))
	if !ok {
		rt.respondError(w, r, badRequestf("amount %q is not a number", q.Get("amount")))
		return
	}
	p, err := rt.calc.Portion(r.Context(), code, amount, q.Get("unit"))
	if err != nil {
		rt.respondError(w, r, err)
		return
	}
	rt.respondJSON(w, http.StatusOK, p)
}

type queryRequest struct {
	Conditions []types.SearchCondition `json:"conditions"`
	Columns    []types.Nutrient        `json:"columns,omitempty"`
}

type queryResponse struct {
	Predicate string              `json:"predicate"`
	Skipped   []string            `json:"skipped,omitempty"`
	Foods     []types.FoodSummary `json:"foods"`
}

// POST /api/foods/query
func (rt *Router) queryFoods(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := decode(w, r, &req); err != nil {
		rt.respondError(w, r, err)
		return
	}
	for i := range req.Conditions {
		if n, err := types.ParseNutrient(string(req.Conditions[i].Field)); err == nil {
			req.Conditions[i].Field = n
		}
		if op, err := types.ParseOperator(string(req.Conditions[i].Operator)); err == nil {
			req.Conditions[i].Operator = op
		}
	}

	p := predicate.Build(req.Conditions)
	foods, err := rt.cat.Search(r.Context(), p, req.Columns)
	if err != nil {
		rt.respondError(w, r, err)
		return
	}

	resp := queryResponse{Predicate: p.String(), Foods: nonNil(foods)}
	for _, err := range p.Skipped {
		resp.Skipped = append(resp.Skipped, err.Error())
	}
	rt.respondJSON(w, http.StatusOK, resp)
}

type compareRequest struct {
	Codes  []string       `json:"codes" validate:"required,min=1,dive,required"`
	Grams  float64        `json:"grams" validate:"gt=0"`
	SortBy types.Nutrient `json:"sort_by,omitempty"`
}

// POST /api/compare
func (rt *Router) compare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := decode(w, r, &req); err != nil {
		rt.respondError(w, r, err)
		return
	}
	portions, err := rt.calc.Compare(r.Context(), req.Codes, req.Grams, req.SortBy)
	if err != nil {
		rt.respondError(w, r, err)
		return
	}
	rt.respondJSON(w, http.StatusOK, map[string]any{"foods": portions})
}

type dailyRequest struct {
	Entries []calc.DailyEntry `json:"entries" validate:"required,min=1,dive"`
}

// POST /api/daily
func (rt *Router) daily(w http.ResponseWriter, r *http.Request) {
	var req dailyRequest
	if err := decode(w, r, &req); err != nil {
		rt.respondError(w, r, err)
		return
	}
	d, err := rt.calc.DailyTotals(r.Context(), req.Entries)
	if err != nil {
		rt.respondError(w, r, err)
		return
	}
	rt.respondJSON(w, http.StatusOK, d)
}

// GET /api/retentions?q=
func (rt *Router) listRetentions(w http.ResponseWriter, r *http.Request) {
	profiles, err := rt.cat.ListRetentionProfiles(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		rt.respondError(w, r, err)
		return
	}
	rt.respondJSON(w, http.StatusOK, map[string]any{"retentions": nonNil(profiles)})
}

// GET /api/retentions/{code}
func (rt *Router) getRetention(w http.ResponseWriter, r *http.Request) {
	p, err := rt.cat.GetRetentionProfile(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		rt.respondError(w, r, err)
		return
	}
	rt.respondJSON(w, http.StatusOK, p)
}

// GET /api/recipes/{code}?liquid=
func (rt *Router) getRecipe(w http.ResponseWriter, r *http.Request) {
	liquid := false
	if s := r.URL.Query().Get("liquid"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			rt.respondError(w, r, badRequestf("liquid %q is not a boolean", s))
			return
		}
		liquid = v
	}
	res, err := rt.calc.Recipe(r.Context(), chi.URLParam(r, "code"), liquid)
	if err != nil {
		rt.respondError(w, r, err)
		return
	}
	rt.respondJSON(w, http.StatusOK, res)
}

// POST /api/mix
func (rt *Router) computeMix(w http.ResponseWriter, r *http.Request) {
	var mf calc.MixFile
	if err := decodeBody(w, r, &mf); err != nil {
		rt.respondError(w, r, err)
		return
	}
	res, err := rt.calc.Mix(r.Context(), mf)
	if err != nil {
		rt.respondError(w, r, err)
		return
	}
	rt.respondJSON(w, http.StatusOK, res)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
