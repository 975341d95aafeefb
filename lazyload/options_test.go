package lazyload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMargin(t *testing.T) {
	px := func(v float64) Length { return Length{Value: v} }
	cases := []struct {
		in   string
		want Margin
	}{
		{"", Margin{}},
		{"0", Margin{}},
		{"10px", Margin{px(10), px(10), px(10), px(10)}},
		{"10px 20px", Margin{px(10), px(20), px(10), px(20)}},
		{"1px 2px 3px", Margin{px(1), px(2), px(3), px(2)}},
		{"0px 0px 200px 0px", Margin{px(0), px(0), px(200), px(0)}},
		{"  5%  ", Margin{Length{5, true}, Length{5, true}, Length{5, true}, Length{5, true}}},
		{"-10px 0px", Margin{px(-10), px(0), px(-10), px(0)}},
		{"12.5PX", Margin{px(12.5), px(12.5), px(12.5), px(12.5)}},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseMargin(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseMargin_Errors(t *testing.T) {
	for _, in := range []string{"10em", "10", "auto", "1px 2px 3px 4px 5px", "10px,20px"} {
		_, err := ParseMargin(in)
		assert.Error(t, err, in)
	}
}

func TestMargin_String(t *testing.T) {
	m, err := ParseMargin("0 0 200px 0")
	require.NoError(t, err)
	assert.Equal(t, "0px 0px 200px 0px", m.String())
}

func TestDefaultOptionsAreValid(t *testing.T) {
	assert.NoError(t, DefaultOptions().Validate())
}

func TestCSSURLEscapesQuotes(t *testing.T) {
	assert.Equal(t, `url("/a\"b.png")`, cssURL(`/a"b.png`))
}

func TestFirstCandidate(t *testing.T) {
	assert.Equal(t, "/a.png", firstCandidate(" /a.png 1x, /b.png 2x"))
	assert.Equal(t, "", firstCandidate(""))
	assert.Equal(t, "/a.png", firstCandidate("/a.png, /b.png"))
	assert.Equal(t, "data:image/png;base64,AA,BB", firstCandidate("data:image/png;base64,AA,BB 1x, /b.png 2x"))
}
