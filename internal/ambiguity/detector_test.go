package ambiguity

import (
	"testing"

	"github.com/ppiankov/clauseguard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAmbiguous(t *testing.T) {
	d := NewDetector(nil)

	assert.True(t, d.IsAmbiguous("The Supplier shall use best efforts to deliver."))
	assert.True(t, d.IsAmbiguous("Prices may change FROM TIME TO TIME."))
	assert.True(t, d.IsAmbiguous("Either party may terminate for Material Breach."))
	assert.False(t, d.IsAmbiguous("The Supplier shall deliver within 10 days."))
	assert.False(t, d.IsAmbiguous(""))
}

func TestAnnotate(t *testing.T) {
	d := NewDetector(nil)

	a := d.Annotate(model.Clause{ID: "C4", Text: "Commercially reasonable and best efforts apply."})
	assert.Equal(t, "C4", a.ClauseID)
	assert.True(t, a.Ambiguous)
	assert.Equal(t, []string{"best efforts", "commercially reasonable"}, a.Phrases)

	a = d.Annotate(model.Clause{ID: "C5", Text: "Fees are fixed."})
	assert.False(t, a.Ambiguous)
	assert.Nil(t, a.Phrases)
}

func TestAnnotateAll_PreservesOrder(t *testing.T) {
	d := NewDetector(nil)
	clauses := []model.Clause{
		{ID: "C1", Text: "as soon as practicable"},
		{ID: "C2", Text: "within 5 days"},
		{ID: "C3", Text: "reasonable efforts"},
	}

	out := d.AnnotateAll(clauses)
	require.Len(t, out, 3)
	assert.Equal(t, []bool{true, false, true}, []bool{out[0].Ambiguous, out[1].Ambiguous, out[2].Ambiguous})
	assert.Equal(t, "C2", out[1].ClauseID)
}

func TestCustomVocabulary(t *testing.T) {
	d := NewDetector([]string{"Endeavour"})
	assert.True(t, d.IsAmbiguous("shall endeavour to"))
	assert.False(t, d.IsAmbiguous("best efforts"))
}
