package recon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dasinspectionapp/equipment-maintainance-sub003/domain/tabular"
)

func TestJoinOnSiteKeyInjectsGroupColumns(t *testing.T) {
	primary := tabular.Dataset{
		Headers: []string{"SITE CODE", "DIVISION"},
		Rows: []tabular.Row{
			{"SITE CODE": "ABC1", "DIVISION": "North"},
			{"SITE CODE": "XYZ9", "DIVISION": "South"},
		},
	}
	secondary := tabular.Dataset{
		Headers: []string{"Site Code", "STATUS DATE 05-01-2025", "DEVICE STATUS"},
		Rows: []tabular.Row{
			{"Site Code": "abc-1", "STATUS DATE 05-01-2025": "05-01-2025", "DEVICE STATUS": "ONLINE"},
		},
	}
	group := tabular.ColumnGroup{
		DateHeader:    "STATUS DATE 05-01-2025",
		HeaderIndex:   1,
		MemberHeaders: []string{"DEVICE STATUS"},
	}

	out := JoinOnSiteKey(primary, "SITE CODE", secondary, "Site Code", group)
	require.Len(t, out.Rows, 2)
	assert.Equal(t, []string{"SITE CODE", "DIVISION", "DEVICE STATUS"}, out.Headers)

	// Normalized key matching: "abc-1" joins "ABC1".
	assert.Equal(t, "ONLINE", out.Rows[0].Get("DEVICE STATUS"))
	// Unmatched rows still carry the column, empty-valued.
	assert.Equal(t, "", out.Rows[1].Get("DEVICE STATUS"))
}

func TestJoinOnSiteKeyUniformColumns(t *testing.T) {
	primary := tabular.Dataset{
		Headers: []string{"SITE CODE"},
		Rows: []tabular.Row{
			{"SITE CODE": "A"}, {"SITE CODE": "B"}, {"SITE CODE": "C"},
		},
	}
	secondary := tabular.Dataset{
		Headers: []string{"SITE CODE", "DEVICE STATUS", "DAYS OFFLINE"},
		Rows: []tabular.Row{
			{"SITE CODE": "B", "DEVICE STATUS": "OFFLINE", "DAYS OFFLINE": "4"},
		},
	}
	group := tabular.ColumnGroup{MemberHeaders: []string{"DEVICE STATUS", "DAYS OFFLINE"}}

	out := JoinOnSiteKey(primary, "SITE CODE", secondary, "SITE CODE", group)
	for _, row := range out.Rows {
		for _, h := range out.Headers {
			_, present := row[h]
			assert.True(t, present, "header %q missing from row %v", h, row)
		}
	}
}

func TestJoinOnSiteKeyDuplicateSecondaryTieBreak(t *testing.T) {
	primary := tabular.Dataset{
		Headers: []string{"SITE CODE"},
		Rows:    []tabular.Row{{"SITE CODE": "A"}},
	}
	secondary := tabular.Dataset{
		Headers: []string{"SITE CODE", "DATE 05-01-2025", "DEVICE STATUS"},
		Rows: []tabular.Row{
			{"SITE CODE": "A", "DATE 05-01-2025": "", "DEVICE STATUS": "stale"},
			{"SITE CODE": "A", "DATE 05-01-2025": "05-01-2025", "DEVICE STATUS": "fresh"},
		},
	}
	group := tabular.ColumnGroup{
		DateHeader:    "DATE 05-01-2025",
		MemberHeaders: []string{"DEVICE STATUS"},
	}

	out := JoinOnSiteKey(primary, "SITE CODE", secondary, "SITE CODE", group)
	// The row with a value under the group's date header wins.
	assert.Equal(t, "fresh", out.Rows[0].Get("DEVICE STATUS"))
}

func TestJoinOnSiteKeyDuplicateSecondaryFirstSeenWins(t *testing.T) {
	primary := tabular.Dataset{
		Headers: []string{"SITE CODE"},
		Rows:    []tabular.Row{{"SITE CODE": "A"}},
	}
	secondary := tabular.Dataset{
		Headers: []string{"SITE CODE", "DEVICE STATUS"},
		Rows: []tabular.Row{
			{"SITE CODE": "A", "DEVICE STATUS": "first"},
			{"SITE CODE": "A", "DEVICE STATUS": "second"},
		},
	}
	group := tabular.ColumnGroup{MemberHeaders: []string{"DEVICE STATUS"}}

	out := JoinOnSiteKey(primary, "SITE CODE", secondary, "SITE CODE", group)
	assert.Equal(t, "first", out.Rows[0].Get("DEVICE STATUS"))
}

func TestJoinOnSiteKeyDoesNotMutatePrimary(t *testing.T) {
	primary := tabular.Dataset{
		Headers: []string{"SITE CODE"},
		Rows:    []tabular.Row{{"SITE CODE": "A"}},
	}
	secondary := tabular.Dataset{
		Headers: []string{"SITE CODE", "DEVICE STATUS"},
		Rows:    []tabular.Row{{"SITE CODE": "A", "DEVICE STATUS": "ONLINE"}},
	}
	group := tabular.ColumnGroup{MemberHeaders: []string{"DEVICE STATUS"}}

	JoinOnSiteKey(primary, "SITE CODE", secondary, "SITE CODE", group)
	assert.Equal(t, []string{"SITE CODE"}, primary.Headers)
	_, present := primary.Rows[0]["DEVICE STATUS"]
	assert.False(t, present)
}
