package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/amishk599/crewboard/internal/model"
)

// DefaultBaseURL is the public vacancy API.
const DefaultBaseURL = "https://api.mhcaviation.com"

// mhcJob is one element of the category_vacancies response.
type mhcJob struct {
	JobID                   int     `json:"JobId"`
	ClientID                int     `json:"ClientId"`
	ClientIsPartnerCompany  int     `json:"ClientIsPartnerCompany"`
	IsLowVolumePosition     int     `json:"IsLowVolumePosition"`
	JobLocation             *string `json:"JobLocation"`
	JobTitle                string  `json:"JobTitle"`
	StartDate               string  `json:"StartDate"`
	StatusDate              string  `json:"StatusDate"`
	CurrencyName            string  `json:"CurrencyName"`
	CurrencySymbol          string  `json:"CurrencySymbol"`
	Category                string  `json:"Category"`
	PublishedJobDescription string  `json:"PublishedJobDescription"`
	CreatedOn               string  `json:"CreatedOn"`
	NoOfPlaces              int     `json:"NoOfPlaces"`
	EmploymentType          string  `json:"EmploymentType"`
	Salary                  string  `json:"Salary"`
	MinBasic                string  `json:"MinBasic"`
	MaxBasic                string  `json:"MaxBasic"`
	MinPackage              string  `json:"MinPackage"`
	MaxPackage              string  `json:"MaxPackage"`
	JobRefNo                string  `json:"JobRefNo"`
	RowOrder                int     `json:"ROWORDER"`
}

// CategoryAdapter fetches the vacancies of one job category.
type CategoryAdapter struct {
	baseURL    string
	categoryID int
	client     *http.Client
}

// NewCategoryAdapter creates an adapter for categoryID against baseURL
// (DefaultBaseURL when empty).
func NewCategoryAdapter(baseURL string, categoryID int, client *http.Client) *CategoryAdapter {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &CategoryAdapter{
		baseURL:    strings.TrimRight(baseURL, "/"),
		categoryID: categoryID,
		client:     client,
	}
}

// CategoryID returns the category this adapter fetches.
func (a *CategoryAdapter) CategoryID() int {
	return a.categoryID
}

// Host returns the upstream host, used as the rate-limit key.
func (a *CategoryAdapter) Host() string {
	u, err := url.Parse(a.baseURL)
	if err != nil {
		return a.baseURL
	}
	return u.Host
}

// FetchJobs retrieves the category listing and normalizes it into model.Job.
// A JSON null body yields a nil slice, which the listing pipeline reports as
// model.ErrNoJobs.
func (a *CategoryAdapter) FetchJobs(ctx context.Context) ([]model.Job, error) {
	endpoint := fmt.Sprintf("%s/category_vacancies?categoryId=%d", a.baseURL, a.categoryID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("category %d fetch: %w", a.categoryID, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("category %d fetch: %w", a.categoryID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("category %d fetch: %w", a.categoryID, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		})
	}

	var raw []mhcJob
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("category %d fetch: decode: %w", a.categoryID, err)
	}
	if raw == nil {
		return nil, nil
	}

	jobs := make([]model.Job, 0, len(raw))
	for _, r := range raw {
		jobs = append(jobs, r.toJob())
	}
	return jobs, nil
}

func (r mhcJob) toJob() model.Job {
	job := model.Job{
		ID:               r.JobID,
		ClientID:         r.ClientID,
		IsPartnerCompany: r.ClientIsPartnerCompany != 0,
		IsLowVolume:      r.IsLowVolumePosition != 0,
		Title:            r.JobTitle,
		Description:      r.PublishedJobDescription,
		Category:         r.Category,
		EmploymentType:   r.EmploymentType,
		RefNo:            r.JobRefNo,
		CreatedOn:        parseTimestamp(r.CreatedOn),
		StartDate:        parseTimestamp(r.StartDate),
		StatusDate:       parseTimestamp(r.StatusDate),
		CurrencyName:     r.CurrencyName,
		CurrencySymbol:   r.CurrencySymbol,
		Salary:           r.Salary,
		MinBasic:         r.MinBasic,
		MaxBasic:         r.MaxBasic,
		MinPackage:       r.MinPackage,
		MaxPackage:       r.MaxPackage,
		Places:           r.NoOfPlaces,
		RowOrder:         r.RowOrder,
	}
	if r.JobLocation != nil {
		job.Location = *r.JobLocation
	}
	return job
}

// timestampLayouts are tried in order. The API emits zone-less ISO
// timestamps; those are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTimestamp returns nil for empty or unparseable values.
func parseTimestamp(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}
