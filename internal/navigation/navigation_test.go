package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "activity-tracker.com/activity-tracker/pkg/models"
)

type recordingNavigator struct {
	targets []string
}

func (r *recordingNavigator) Navigate(target string) error {
	r.targets = append(r.targets, target)
	return nil
}

func TestFindingsTarget(t *testing.T) {
	assert.Equal(t, "/audits?auditId=aud-7&view=findings", FindingsTarget("", "aud-7"))
	assert.Equal(t, "https://audits.example.com/audits?auditId=a+b&view=findings", FindingsTarget("https://audits.example.com", "a b"))
}

func TestSourceLink(t *testing.T) {
	link, ok := SourceLink("", model.Activity{SourceAuditID: "aud-1", SourceFindingID: "f-3"})
	require.True(t, ok)
	assert.Equal(t, "/audits?auditId=aud-1&view=findings", link)

	_, ok = SourceLink("", model.Activity{SourceAuditID: "aud-1"})
	assert.False(t, ok)
}

func TestToSourceAudit(t *testing.T) {
	nav := &recordingNavigator{}

	moved, err := ToSourceAudit(nav, "", model.Activity{})
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Empty(t, nav.targets)

	moved, err = ToSourceAudit(nav, "", model.Activity{SourceAuditID: "aud-9"})
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, []string{"/audits?auditId=aud-9&view=findings"}, nav.targets)
}
