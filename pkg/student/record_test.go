package student

import (
	"testing"

	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"
)

func TestRecord_SameKey(t *testing.T) {
	r := Record{FullName: "Jane Doe", Group: "IT-21"}

	assert.True(t, r.SameKey("jane doe", "it-21"))
	assert.True(t, r.SameKey("  JANE DOE ", "IT-21 "))
	assert.False(t, r.SameKey("Jane Doe", "IT-22"))
	assert.False(t, r.SameKey("John Doe", "IT-21"))
}

func TestRecord_IsBlank(t *testing.T) {
	assert.True(t, Record{}.IsBlank())
	assert.True(t, Record{FullName: "  ", Group: "\t"}.IsBlank())
	assert.False(t, Record{Grade: 3}.IsBlank())
	assert.False(t, Record{Subject: "Math"}.IsBlank())
}

func TestValidGrade(t *testing.T) {
	for g := -2; g <= 7; g++ {
		want := g == 0 || (g >= 1 && g <= 5)
		assert.Equal(t, want, ValidGrade(g), "grade %d", g)
	}
}

func TestSample(t *testing.T) {
	sample := Sample()
	assert.Len(t, sample, 3)
	for _, r := range sample {
		assert.NotEmpty(t, r.FullName)
		assert.True(t, ValidGrade(r.Grade))
		assert.False(t, r.Expelled)
	}

	// callers get their own copy
	sample[0].FullName = "changed"
	assert.NotEqual(t, "changed", Sample()[0].FullName)
}

func TestWithoutIDs(t *testing.T) {
	in := []Record{{ID: ksuid.New(), FullName: "A"}}
	out := WithoutIDs(in)

	assert.True(t, out[0].ID.IsNil())
	assert.False(t, in[0].ID.IsNil())
	assert.Equal(t, "A", out[0].FullName)
}
