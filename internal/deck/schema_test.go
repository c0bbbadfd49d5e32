package deck

import (
	"errors"
	"testing"

	"pitchcraft/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSlides_Valid(t *testing.T) {
	doc := []byte(`{"slides":[
		{"id":0,"type":"intro","title":"PitchCraft AI"},
		{"id":1,"type":"chart","title":"Growth","chartData":{"type":"area","data":[{"name":"Q1","value":10}]},"imagePrompt":"growth chart"},
		{"id":2,"type":"content","title":"Market","metrics":[{"label":"TAM","value":"$5B","icon":"Sparkles"},{"label":"Users","value":"1M","icon":"Users"}]}
	]}`)

	slides, err := DecodeSlides(doc)
	require.NoError(t, err)
	require.Len(t, slides, 3)

	assert.Equal(t, models.SlideChart, slides[1].Type)
	require.NotNil(t, slides[1].ChartData)
	assert.Equal(t, models.ChartArea, slides[1].ChartData.Type)
	assert.Equal(t, 10.0, slides[1].ChartData.Data[0].Value)

	assert.Equal(t, models.IconDollarSign, slides[2].Metrics[0].Icon)
	assert.Equal(t, models.IconUsers, slides[2].Metrics[1].Icon)
}

func TestDecodeSlides_RenumbersDuplicateIDs(t *testing.T) {
	doc := []byte(`{"slides":[
		{"id":1,"type":"intro","title":"a"},
		{"id":1,"type":"title","title":"b"},
		{"id":7,"type":"image","title":"c"}
	]}`)

	slides, err := DecodeSlides(doc)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, []int{slides[0].ID, slides[1].ID, slides[2].ID})
}

func TestDecodeSlides_KeepsUniqueIDs(t *testing.T) {
	slides, err := DecodeSlides([]byte(`{"slides":[{"id":3,"type":"intro","title":"a"},{"id":5,"type":"title","title":"b"}]}`))
	require.NoError(t, err)
	assert.Equal(t, 3, slides[0].ID)
	assert.Equal(t, 5, slides[1].ID)
}

func TestDecodeSlides_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `slides please`},
		{"missing slides", `{"deck":[]}`},
		{"empty slides", `{"slides":[]}`},
		{"unknown slide type", `{"slides":[{"id":0,"type":"video","title":"x"}]}`},
		{"missing title", `{"slides":[{"id":0,"type":"intro"}]}`},
		{"bad chart kind", `{"slides":[{"id":0,"type":"chart","title":"x","chartData":{"type":"scatter","data":[]}}]}`},
		{"non numeric chart value", `{"slides":[{"id":0,"type":"chart","title":"x","chartData":{"type":"bar","data":[{"name":"a","value":"1"}]}}]}`},
		{"negative id", `{"slides":[{"id":-1,"type":"intro","title":"x"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSlides([]byte(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidSlides))
		})
	}
}
