package notifier

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/amishk599/crewboard/internal/aircraft"
	"github.com/amishk599/crewboard/internal/location"
	"github.com/amishk599/crewboard/internal/model"
	"github.com/amishk599/crewboard/internal/posting"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes new vacancies to the given logger as structured messages.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each job via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs each job with its aircraft type, parsed location, and portal link.
// Returns nil (stdout logging does not fail).
func (n *LogNotifier) Notify(jobs []model.Job) error {
	for _, j := range jobs {
		args := []any{
			"job_id", j.ID,
			"title", j.Title,
			"aircraft", aircraft.Classify(j.Title),
			"client_id", j.ClientID,
			"ref", j.RefNo,
			"url", fmt.Sprintf(posting.DetailsURL, j.ID),
		}
		if loc := location.Parse(j.Location); loc != nil {
			args = append(args, "location", loc.Name, "country", loc.Country)
		}
		if j.StartDate != nil {
			args = append(args, "start_date", j.StartDate.Format(time.DateOnly))
		}
		n.logger.Info("new vacancy", args...)
	}
	return nil
}

// SendTestMessage pushes a sample vacancy through n to verify delivery.
func SendTestMessage(n model.Notifier) error {
	start := time.Now().AddDate(0, 1, 0)
	sample := model.Job{
		ID:             0,
		ClientID:       0,
		Title:          "B737 Captain (crewboard test notification)",
		Category:       "Test Pilots",
		EmploymentType: "Contract",
		Location:       "Dublin, Ireland (IE)",
		RefNo:          "TEST-0",
		StartDate:      &start,
	}
	if err := n.Notify([]model.Job{sample}); err != nil {
		return fmt.Errorf("sending test notification: %w", err)
	}
	return nil
}
