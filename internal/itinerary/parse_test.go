package itinerary

import (
	"testing"

	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleText = `**Day 1: Arrival**
- Check in
- Walk around
**Day 2: Museums**
1. Visit gallery`

func titles(it domain.Itinerary) []string {
	out := make([]string, 0, len(it.Days))
	for _, d := range it.Days {
		out = append(out, d.Title)
	}
	return out
}

func texts(d domain.Day) []string {
	out := make([]string, 0, len(d.Activities))
	for _, a := range d.Activities {
		out = append(out, a.Text)
	}
	return out
}

func TestParse_Scenario(t *testing.T) {
	it := Parse(sampleText)

	require.Len(t, it.Days, 2)
	assert.Equal(t, []string{"Arrival", "Museums"}, titles(it))
	assert.Equal(t, []string{"Check in", "Walk around"}, texts(it.Days[0]))
	assert.Equal(t, []string{"Visit gallery"}, texts(it.Days[1]))
	assert.NoError(t, it.ValidateIDs())
}

func TestParse_ToleratesDeviations(t *testing.T) {
	text := `Here is your plan!

day 1: Old Town
* Coffee at the square
• Cathedral
  2.   Lunch
This line is commentary.
DAY 2:   Coast  
- Beach`

	it := Parse(text)
	require.Len(t, it.Days, 2)
	assert.Equal(t, []string{"Old Town", "Coast"}, titles(it))
	assert.Equal(t, []string{"Coffee at the square", "Cathedral", "Lunch"}, texts(it.Days[0]))
	assert.Equal(t, []string{"Beach"}, texts(it.Days[1]))
}

func TestParse_CRLF(t *testing.T) {
	it := Parse("**Day 1: A**\r\n- one\r\n- two\r\n")
	require.Len(t, it.Days, 1)
	assert.Equal(t, "A", it.Days[0].Title)
	assert.Equal(t, []string{"one", "two"}, texts(it.Days[0]))
}

func TestParse_HeaderNumberIgnored(t *testing.T) {
	it := Parse("**Day 7: Late start**\n- Sleep in")
	require.Len(t, it.Days, 1)
	assert.Equal(t, "Late start", it.Days[0].Title)
	assert.NotEqual(t, "7", it.Days[0].ID)
}

func TestParse_DayWithoutBullets(t *testing.T) {
	it := Parse("**Day 1: Rest**\n**Day 2: Hike**\n- Trail")
	require.Len(t, it.Days, 2)
	assert.NotNil(t, it.Days[0].Activities)
	assert.Empty(t, it.Days[0].Activities)
	assert.Len(t, it.Days[1].Activities, 1)
}

func TestParse_BulletsBeforeFirstHeaderDropped(t *testing.T) {
	it := Parse("- stray\n**Day 1: First**\n- kept")
	require.Len(t, it.Days, 1)
	assert.Equal(t, []string{"kept"}, texts(it.Days[0]))
}

func TestParse_NothingParsed(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"whitespace", "  \n\t\n"},
		{"prose", "Sorry, I cannot help with that.\n- just a bullet"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := Parse(tt.text)
			assert.True(t, it.IsEmpty())
		})
	}
}

func TestParse_FreshIDsEachTime(t *testing.T) {
	a := Parse(sampleText)
	b := Parse(sampleText)
	assert.NotEqual(t, a.Days[0].ID, b.Days[0].ID)
	assert.NotEqual(t, a.Days[0].Activities[0].ID, b.Days[0].Activities[0].ID)
}

func TestParse_StripsOneMarker(t *testing.T) {
	it := Parse("**Day 1: Hills**\n- 2.5 km hike\n3. 10.30 ferry\n* - odd dash")

	require.Len(t, it.Days, 1)
	assert.Equal(t, []string{"2.5 km hike", "10.30 ferry", "- odd dash"}, texts(it.Days[0]))
}
