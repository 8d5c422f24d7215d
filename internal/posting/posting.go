// Package posting builds schema.org JobPosting metadata for a job, the
// JSON-LD block search engines read from a job card.
package posting

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/amishk599/crewboard/internal/location"
	"github.com/amishk599/crewboard/internal/model"
)

// DetailsURL is the public portal page for a job; %d is the job ID.
const DetailsURL = "https://portal.first2resource.com/Secure/Membership/Registration/JobDetails.aspx?JobId=%d"

// globalAddress is published when a job has no usable location.
const globalAddress = "Global"

// JobPosting is the schema.org JobPosting subset the job card publishes.
type JobPosting struct {
	Context            string       `json:"@context"`
	Type               string       `json:"@type"`
	Title              string       `json:"title"`
	Description        string       `json:"description"`
	Identifier         Identifier   `json:"identifier"`
	DatePosted         string       `json:"datePosted,omitempty"`
	HiringOrganization Organization `json:"hiringOrganization"`
	EmploymentType     string       `json:"employmentType,omitempty"`
	JobLocation        Place        `json:"jobLocation"`
	URL                string       `json:"url"`
}

// Identifier carries the job's reference code.
type Identifier struct {
	Type  string `json:"@type"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Organization is the hiring organization.
type Organization struct {
	Type string `json:"@type"`
	Name string `json:"name"`
	Logo string `json:"logo,omitempty"`
}

// Place wraps the job address. Address is a *PostalAddress when the
// location parsed, else the plain string "Global".
type Place struct {
	Type    string `json:"@type"`
	Address any    `json:"address"`
}

// PostalAddress is the structured form of a parsed location.
type PostalAddress struct {
	Type            string `json:"@type"`
	Name            string `json:"name"`
	AddressCountry  string `json:"addressCountry"`
	AddressLocality string `json:"addressLocality,omitempty"`
}

// Build assembles the JobPosting for job. logoURL may be empty.
func Build(job model.Job, logoURL string) JobPosting {
	p := JobPosting{
		Context:     "https://schema.org",
		Type:        "JobPosting",
		Title:       job.Title,
		Description: job.Description,
		Identifier: Identifier{
			Type:  "PropertyValue",
			Name:  PartnerName(job),
			Value: identifierValue(job),
		},
		HiringOrganization: Organization{
			Type: "Organization",
			Name: PartnerName(job),
			Logo: logoURL,
		},
		EmploymentType: job.EmploymentType,
		JobLocation:    Place{Type: "Place", Address: globalAddress},
		URL:            fmt.Sprintf(DetailsURL, job.ID),
	}
	if job.CreatedOn != nil {
		p.DatePosted = job.CreatedOn.Format(time.RFC3339)
	}
	if loc := location.Parse(job.Location); loc != nil {
		p.JobLocation.Address = &PostalAddress{
			Type:            "PostalAddress",
			Name:            loc.Name,
			AddressCountry:  loc.Country,
			AddressLocality: loc.Locality,
		}
	}
	return p
}

// PartnerName derives the partner company from the first word of the job's category.
func PartnerName(job model.Job) string {
	fields := strings.Fields(job.Category)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func identifierValue(job model.Job) string {
	if ref := strings.TrimSpace(job.RefNo); ref != "" {
		return ref
	}
	return strconv.Itoa(job.ID)
}

// Summary shortens desc to at most limit runes, appending "..." when cut.
func Summary(desc string, limit int) string {
	if utf8.RuneCountInString(desc) <= limit {
		return desc
	}
	runes := []rune(desc)
	return string(runes[:limit]) + "..."
}

var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

// PlainText converts an HTML or HTML-encoded description to plain text.
// It unescapes entities first (handles double-encoding), strips all tags,
// then collapses whitespace.
func PlainText(content string) string {
	unescaped := html.UnescapeString(content)
	plain := htmlTagRegex.ReplaceAllString(unescaped, " ")
	return strings.Join(strings.Fields(plain), " ")
}
