package chi

import (
	"net/http"
	"net/url"

	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/recordbook/internal/domain/module"
	"github.com/kailas-cloud/recordbook/internal/domain/search/filter"
)

// bindFilters reads the module's filter fields and the free-text query from
// the URL. Unknown parameters are ignored.
func bindFilters(m module.Module, q url.Values) (filter.Set, error) {
	values := make(map[string]string)
	for _, name := range filter.Fields(m) {
		var v string
		if err := runtime.BindQueryParameter("form", true, false, name, q, &v); err != nil {
			return filter.Set{}, err //nolint:wrapcheck // surfaced as 400 by the caller
		}
		if v != "" {
			values[name] = v
		}
	}
	var text string
	if err := runtime.BindQueryParameter("form", true, false, filter.Query, q, &text); err != nil {
		return filter.Set{}, err //nolint:wrapcheck // surfaced as 400 by the caller
	}
	return filter.New(m, values, text), nil
}

// SearchCitizens handles GET /api/v1/citizens/search.
func (s *Server) SearchCitizens(w http.ResponseWriter, r *http.Request) {
	s.searchPage(w, r, module.Citizen)
}

// SearchCriminals handles GET /api/v1/criminals/search.
func (s *Server) SearchCriminals(w http.ResponseWriter, r *http.Request) {
	s.searchPage(w, r, module.Criminal)
}

func (s *Server) searchPage(w http.ResponseWriter, r *http.Request, m module.Module) {
	fs, err := bindFilters(m, r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidFilter, "invalid query parameters")
		return
	}
	page, err := s.search.Search(r.Context(), fs)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse{
		Items:     page.Rows,
		Highlight: page.Highlight,
		Total:     page.Total(),
		Mode:      page.Kind,
		Message:   page.Message(),
	})
}

// RecordsPage handles GET /Records. With ?handler=SearchCitizens or
// ?handler=SearchCriminals it returns the matching records as a JSON array.
// Without a handler it returns both tables and the active tab (?tab=,
// default citizen).
func (s *Server) RecordsPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if handler := q.Get("handler"); handler != "" {
		m, ok := module.FromSearchHandler(handler)
		if !ok {
			writeError(w, http.StatusBadRequest, CodeUnknownModule, "unknown handler "+handler)
			return
		}
		s.searchRecords(w, r, m)
		return
	}

	tab, ok := module.Parse(q.Get("tab"))
	if !ok {
		tab = module.Citizen
	}
	cs, err := s.search.Citizens(r.Context(), filter.New(module.Citizen, nil, ""))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	crs, err := s.search.Criminals(r.Context(), filter.New(module.Criminal, nil, ""))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recordsPageResponse{
		ActiveSection: string(tab),
		Citizens:      citizensToResponse(cs),
		Criminals:     criminalsToResponse(crs),
	})
}

func (s *Server) searchRecords(w http.ResponseWriter, r *http.Request, m module.Module) {
	fs, err := bindFilters(m, r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidFilter, "invalid query parameters")
		return
	}

	switch m {
	case module.Citizen:
		cs, err := s.search.Citizens(r.Context(), fs)
		if err != nil {
			s.handleDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, citizensToResponse(cs))
	case module.Criminal:
		cs, err := s.search.Criminals(r.Context(), fs)
		if err != nil {
			s.handleDomainError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, criminalsToResponse(cs))
	}
}
