package chi

import (
	"encoding/json"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kailas-cloud/recordbook/internal/domain/module"
)

// isForm reports whether the request carries an HTML form body.
func isForm(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mt == "application/x-www-form-urlencoded" || mt == "multipart/form-data"
}

// redirectToSection sends a form submitter back to the records page tab.
func redirectToSection(w http.ResponseWriter, r *http.Request, section string) {
	http.Redirect(w, r, "/Records?tab="+section, http.StatusSeeOther)
}

// CreateCitizen handles POST /api/v1/citizens.
func (s *Server) CreateCitizen(w http.ResponseWriter, r *http.Request) {
	var req citizenRequest
	form := isForm(r)
	if form {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid form body")
			return
		}
		req.Name = r.PostForm.Get("name")
		req.Age, _ = strconv.Atoi(strings.TrimSpace(r.PostForm.Get("age")))
		req.Address = r.PostForm.Get("address")
		req.GovernmentID = r.PostForm.Get("governmentId")
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	c, err := s.records.CreateCitizen(r.Context(), req.Name, req.Age, req.Address, req.GovernmentID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	if form {
		redirectToSection(w, r, string(module.Citizen))
		return
	}
	w.Header().Set("Location", "/api/v1/citizens/"+strconv.FormatInt(c.ID(), 10))
	writeJSON(w, http.StatusCreated, citizenToResponse(c))
}

// GetCitizen handles GET /api/v1/citizens/{id}.
func (s *Server) GetCitizen(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, err := s.records.GetCitizen(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, citizenToResponse(c))
}

// CreateCriminal handles POST /api/v1/criminals.
func (s *Server) CreateCriminal(w http.ResponseWriter, r *http.Request) {
	var req criminalRequest
	form := isForm(r)
	if form {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid form body")
			return
		}
		req.Name = r.PostForm.Get("name")
		req.Crime = r.PostForm.Get("crime")
		req.DateArrested = r.PostForm.Get("dateArrested")
		req.GovernmentID = r.PostForm.Get("governmentId")
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	c, err := s.records.CreateCriminal(r.Context(),
		req.Name, req.Crime, parseArrestDate(req.DateArrested), req.GovernmentID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	if form {
		redirectToSection(w, r, string(module.Criminal))
		return
	}
	w.Header().Set("Location", "/api/v1/criminals/"+strconv.FormatInt(c.ID(), 10))
	writeJSON(w, http.StatusCreated, criminalToResponse(c))
}

// GetCriminal handles GET /api/v1/criminals/{id}.
func (s *Server) GetCriminal(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, err := s.records.GetCriminal(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, criminalToResponse(c))
}

// CreateReport handles POST /api/v1/reports.
func (s *Server) CreateReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	form := isForm(r)
	if form {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid form body")
			return
		}
		req.DateTime = r.PostForm.Get("dateTime")
		req.OfficerName = r.PostForm.Get("officerName")
		req.Location = r.PostForm.Get("location")
		req.InvolvedPersons = r.PostForm.Get("involvedPersons")
		req.Description = r.PostForm.Get("description")
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	rep, err := s.records.CreateReport(r.Context(), parseDateTime(strings.TrimSpace(req.DateTime)),
		req.OfficerName, req.Location, req.InvolvedPersons, req.Description)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	if form {
		redirectToSection(w, r, "report")
		return
	}
	writeJSON(w, http.StatusCreated, reportToResponse(rep))
}

// ListReports handles GET /api/v1/reports.
func (s *Server) ListReports(w http.ResponseWriter, r *http.Request) {
	reps, err := s.records.ListReports(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	items := make([]reportResponse, len(reps))
	for i, rep := range reps {
		items[i] = reportToResponse(rep)
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "id must be a positive integer")
		return 0, false
	}
	return id, true
}
