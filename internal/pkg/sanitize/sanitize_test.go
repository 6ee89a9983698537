package sanitize

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHTMLStripsScripts(t *testing.T) {
	assert := require.New(t)
	out := HTML(`<p onclick="steal()">Hi<script>alert(1)</script></p>`)
	assert.Equal("<p>Hi</p>", out)
}

func TestHTMLDropsUnsafeLinks(t *testing.T) {
	assert := require.New(t)
	out := HTML(`<p><a href="javascript:alert(1)">x</a></p>`)
	assert.NotContains(out, "javascript")
	assert.Contains(out, "x")
}

func TestHTMLDropsUnknownStyles(t *testing.T) {
	assert := require.New(t)
	out := HTML(`<p style="position: fixed">x</p>`)
	assert.Equal("<p>x</p>", out)
}

func TestEditorMarkupPassesThrough(t *testing.T) {
	cases := []string{
		`<p style="text-align: center">Centered</p>`,
		`<h3 style="text-align: right">Right</h3>`,
		`<p><mark data-color="#fef08a" style="background-color: #fef08a; color: inherit">hi</mark></p>`,
		`<p><span style="color: #2563eb">blue</span></p>`,
		`<p><a target="_blank" rel="noopener noreferrer nofollow" href="/colleges">rel</a></p>`,
		`<img src="https://cdn.example.com/a.png" alt="a &lt; b"><p></p>`,
		`<table><tbody><tr><td colspan="1" rowspan="1"><p>1</p></td></tr></tbody></table>`,
		`<pre><code>if a &amp;&amp; b {}</code></pre>`,
		`<hr>`,
	}
	for _, c := range cases {
		require.Equal(t, c, HTML(c))
	}
}

func TestEmptyBody(t *testing.T) {
	require.Equal(t, "", HTML(""))
}
