package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/amishk599/crewboard/internal/adapter"
	"github.com/amishk599/crewboard/internal/aircraft"
	"github.com/amishk599/crewboard/internal/listing"
	"github.com/amishk599/crewboard/internal/location"
	"github.com/amishk599/crewboard/internal/model"
	"github.com/amishk599/crewboard/internal/posting"
)

// summaryLength is the rune limit of the description teaser in job listings.
const summaryLength = 200

// Category is one browsable job category.
type Category struct {
	ID      int              `json:"id"`
	Name    string           `json:"name"`
	fetcher model.JobFetcher // unexported: never serialized
}

// NewCategory pairs a category with the fetcher that loads its listing.
func NewCategory(id int, name string, fetcher model.JobFetcher) Category {
	return Category{ID: id, Name: name, fetcher: fetcher}
}

// Server exposes the listing pipeline over HTTP.
type Server struct {
	categories []Category
	logos      model.LogoFetcher // nil disables logo lookups
	pipeline   *listing.Pipeline
	logger     *slog.Logger
}

// New creates a Server for the given categories. logos may be nil.
func New(categories []Category, logos model.LogoFetcher, pipeline *listing.Pipeline, logger *slog.Logger) *Server {
	return &Server{
		categories: categories,
		logos:      logos,
		pipeline:   pipeline,
		logger:     logger,
	}
}

// Router returns the HTTP routes of the API.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)
	r.HandleFunc("/categories", s.ListCategories).Methods(http.MethodGet)
	r.HandleFunc("/categories/{id:[0-9]+}/jobs", s.ListJobs).Methods(http.MethodGet)
	r.HandleFunc("/categories/{id:[0-9]+}/jobs/{jobID:[0-9]+}/posting", s.GetPosting).Methods(http.MethodGet)
	r.HandleFunc("/locations", s.Locate).Methods(http.MethodGet)
	return r
}

// JobView is one vacancy as rendered by the API.
type JobView struct {
	ID              int                `json:"id"`
	ClientID        int                `json:"clientId"`
	Title           string             `json:"title"`
	Aircraft        aircraft.Category  `json:"aircraft"`
	Category        string             `json:"category"`
	EmploymentType  string             `json:"employmentType,omitempty"`
	RefNo           string             `json:"refNo,omitempty"`
	OpenApplication bool               `json:"openApplication"`
	Location        *location.Location `json:"location"`
	StartDate       *time.Time         `json:"startDate"`
	CreatedOn       *time.Time         `json:"createdOn"`
	Summary         string             `json:"summary,omitempty"`
	Logo            string             `json:"logo,omitempty"`
	URL             string             `json:"url"`
}

// JobList is the response of the job listing endpoint.
type JobList struct {
	Total  int                 `json:"total"`
	Shown  int                 `json:"shown"`
	Query  string              `json:"query"`
	Facets []aircraft.Category `json:"facets"`
	Jobs   []JobView           `json:"jobs"`
}

// ListCategories handles GET /categories.
func (s *Server) ListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.categories)
}

// ListJobs handles GET /categories/{id}/jobs?search=&filters=&sort=.
func (s *Server) ListJobs(w http.ResponseWriter, r *http.Request) {
	cat, ok := s.category(w, r)
	if !ok {
		return
	}

	q, err := listing.ParseQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	jobs, err := cat.fetcher.FetchJobs(r.Context())
	if err != nil {
		s.upstreamError(w, cat, err)
		return
	}

	res, err := s.pipeline.Apply(jobs, q)
	if err != nil {
		s.upstreamError(w, cat, err)
		return
	}

	logos := s.resolveLogos(r.Context(), adapter.ClientIDs(res.Visible))

	out := JobList{
		Total:  len(jobs),
		Shown:  len(res.Visible),
		Query:  q.Values().Encode(),
		Facets: res.Facets,
		Jobs:   make([]JobView, len(res.Visible)),
	}
	if out.Facets == nil {
		out.Facets = []aircraft.Category{}
	}
	for i, j := range res.Visible {
		out.Jobs[i] = newJobView(j, logos[j.ClientID])
	}
	writeJSON(w, http.StatusOK, out)
}

// GetPosting handles GET /categories/{id}/jobs/{jobID}/posting and returns
// schema.org JobPosting metadata.
func (s *Server) GetPosting(w http.ResponseWriter, r *http.Request) {
	cat, ok := s.category(w, r)
	if !ok {
		return
	}
	jobID, err := strconv.Atoi(mux.Vars(r)["jobID"])
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid job id"))
		return
	}

	jobs, err := cat.fetcher.FetchJobs(r.Context())
	if err != nil {
		s.upstreamError(w, cat, err)
		return
	}
	if jobs == nil {
		s.upstreamError(w, cat, model.ErrNoJobs)
		return
	}

	for _, j := range jobs {
		if j.ID != jobID {
			continue
		}
		logo := s.resolveLogos(r.Context(), []int{j.ClientID})[j.ClientID]
		w.Header().Set("Content-Type", "application/ld+json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(posting.Build(j, logo))
		return
	}
	writeError(w, http.StatusNotFound, fmt.Errorf("job %d not found in category %d", jobID, cat.ID))
}

// Locate handles GET /locations?q= and returns the parsed location.
func (s *Server) Locate(w http.ResponseWriter, r *http.Request) {
	loc := location.Parse(r.URL.Query().Get("q"))
	if loc == nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("no location in %q", r.URL.Query().Get("q")))
		return
	}
	writeJSON(w, http.StatusOK, loc)
}

func (s *Server) category(w http.ResponseWriter, r *http.Request) (Category, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid category id"))
		return Category{}, false
	}
	for _, c := range s.categories {
		if c.ID == id {
			return c, true
		}
	}
	writeError(w, http.StatusNotFound, fmt.Errorf("category %d not found", id))
	return Category{}, false
}

func (s *Server) resolveLogos(ctx context.Context, clientIDs []int) map[int]string {
	if s.logos == nil || len(clientIDs) == 0 {
		return nil
	}
	return adapter.ResolveLogos(ctx, s.logos, clientIDs, s.logger)
}

// upstreamError maps a fetch or pipeline failure to a status code.
func (s *Server) upstreamError(w http.ResponseWriter, cat Category, err error) {
	status := http.StatusBadGateway
	if errors.Is(err, model.ErrNoJobs) {
		status = http.StatusServiceUnavailable
	}
	s.logger.Warn("listing unavailable",
		"category", cat.Name,
		"status", status,
		"error", err,
	)
	writeError(w, status, err)
}

func newJobView(j model.Job, logo string) JobView {
	return JobView{
		ID:              j.ID,
		ClientID:        j.ClientID,
		Title:           j.Title,
		Aircraft:        aircraft.Classify(j.Title),
		Category:        j.Category,
		EmploymentType:  j.EmploymentType,
		RefNo:           j.RefNo,
		OpenApplication: j.IsOpenApplication(),
		Location:        location.Parse(j.Location),
		StartDate:       j.StartDate,
		CreatedOn:       j.CreatedOn,
		Summary:         posting.Summary(posting.PlainText(j.Description), summaryLength),
		Logo:            logo,
		URL:             fmt.Sprintf(posting.DetailsURL, j.ID),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"took", time.Since(start).Round(time.Microsecond).String(),
		)
	})
}

// ListenAndServe serves the API on addr until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
