package domain

import "strings"

// Analytics summarises an application list.
type Analytics struct {
	Total        int                       `json:"total"`
	ByStatus     map[ApplicationStatus]int `json:"byStatus"`
	ResponseRate int                       `json:"responseRate"`
	OfferRate    int                       `json:"offerRate"`
}

// AnalyzeApplications computes counts and rates in one pass over list.
func AnalyzeApplications(list []JobApplication) Analytics {
	byStatus := make(map[ApplicationStatus]int)
	for _, app := range list {
		byStatus[app.Status]++
	}
	total := len(list)
	return Analytics{
		Total:        total,
		ByStatus:     byStatus,
		ResponseRate: Percent(byStatus[StatusInterview]+byStatus[StatusOffer], total),
		OfferRate:    Percent(byStatus[StatusOffer], total),
	}
}

// FilterApplications returns a new slice of the applications matching term and status.
// An empty term matches everything; status "all" (or empty) disables the status filter.
func FilterApplications(list []JobApplication, term, status string) []JobApplication {
	needle := strings.ToLower(strings.TrimSpace(term))
	out := make([]JobApplication, 0, len(list))
	for _, app := range list {
		if needle != "" &&
			!strings.Contains(strings.ToLower(app.Company), needle) &&
			!strings.Contains(strings.ToLower(app.Location), needle) {
			continue
		}
		if status != "" && status != StatusAll && string(app.Status) != status {
			continue
		}
		out = append(out, app)
	}
	return out
}
