package recon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeSerialColumns(t *testing.T) {
	got := DedupeSerialColumns([]string{"SL NO", "Name", "Sl.No", "Value"})
	assert.Equal(t, []string{"SL NO", "Name", "Value"}, got)
}

func TestDedupeSerialColumnsSpellings(t *testing.T) {
	got := DedupeSerialColumns([]string{"Sr No", "A", "Serial Number", "S.No", "B"})
	assert.Equal(t, []string{"Sr No", "A", "B"}, got)
}

func TestDedupeSerialColumnsNoSerials(t *testing.T) {
	headers := []string{"Site Code", "Division", "Value"}
	assert.Equal(t, headers, DedupeSerialColumns(headers))
}

func TestReorderAroundAnchor(t *testing.T) {
	headers := []string{"SL NO", "DEVICE STATUS", "SITE CODE", "DIVISION", "ATTRIBUTE"}
	got := ReorderAroundAnchor(headers, "SITE CODE", "ATTRIBUTE", []string{"DEVICE STATUS"})
	assert.Equal(t, []string{"SL NO", "DIVISION", "ATTRIBUTE", "SITE CODE", "DEVICE STATUS"}, got)
}

func TestReorderAroundAnchorNoAttribute(t *testing.T) {
	headers := []string{"SITE CODE", "DIVISION", "DEVICE STATUS"}
	got := ReorderAroundAnchor(headers, "SITE CODE", "", []string{"DEVICE STATUS"})
	assert.Equal(t, []string{"DIVISION", "SITE CODE", "DEVICE STATUS"}, got)
}

func TestReorderAroundAnchorMergedOrderPreserved(t *testing.T) {
	headers := []string{"B", "SITE CODE", "A", "C"}
	got := ReorderAroundAnchor(headers, "SITE CODE", "", []string{"C", "A"})
	assert.Equal(t, []string{"B", "SITE CODE", "C", "A"}, got)
}

func TestReorderAroundAnchorIdempotent(t *testing.T) {
	headers := []string{"SL NO", "DIVISION", "ATTRIBUTE", "SITE CODE", "DEVICE STATUS"}
	once := ReorderAroundAnchor(headers, "SITE CODE", "ATTRIBUTE", []string{"DEVICE STATUS"})
	twice := ReorderAroundAnchor(once, "SITE CODE", "ATTRIBUTE", []string{"DEVICE STATUS"})
	assert.Equal(t, once, twice)
}
