package assets

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	page, err := Build(NewMinifier())
	require.NoError(t, err)

	html := string(page)
	assert.Contains(t, html, "EGMS Data Viewer")
	assert.Contains(t, html, "/api/points")
	assert.Contains(t, html, "/api/colorbar.webp")
	assert.NotContains(t, html, "{{")
}

func TestMinifiedFavicon(t *testing.T) {
	icon, err := MinifiedFavicon(NewMinifier())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(icon), "<svg"))
	assert.Less(t, len(icon), len(Favicon))
}

func TestScriptAssignsOnlyLiteralMarkup(t *testing.T) {
	src, err := files.ReadFile("script.js")
	require.NoError(t, err)

	literal := regexp.MustCompile(`innerHTML\s*=\s*'[^'+]*'\s*;`)
	script := string(src)

	assert.Equal(t, strings.Count(script, "innerHTML"), len(literal.FindAllString(script, -1)),
		"innerHTML must only receive constant markup")
	assert.Contains(t, script, "textContent")
}
