package navigation

import (
	"net/url"

	model "activity-tracker.com/activity-tracker/pkg/models"
)

// Navigator performs a view transition to target, a path with query.
type Navigator interface {
	Navigate(target string) error
}

// FindingsTarget is the findings view scoped to auditID, under baseURL.
func FindingsTarget(baseURL, auditID string) string {
	q := url.Values{}
	q.Set("view", "findings")
	q.Set("auditId", auditID)
	return baseURL + "/audits?" + q.Encode()
}

// SourceLink returns the findings target for an activity raised from an
// audit finding.
func SourceLink(baseURL string, a model.Activity) (string, bool) {
	if a.SourceFindingID == "" || a.SourceAuditID == "" {
		return "", false
	}
	return FindingsTarget(baseURL, a.SourceAuditID), true
}

// ToSourceAudit navigates to the originating audit. It reports false and does
// nothing when the activity has no audit reference.
func ToSourceAudit(n Navigator, baseURL string, a model.Activity) (bool, error) {
	if a.SourceAuditID == "" {
		return false, nil
	}
	return true, n.Navigate(FindingsTarget(baseURL, a.SourceAuditID))
}
