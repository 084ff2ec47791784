package model

import (
	"fmt"
	"html"
)

// BadgeArtifact is a rendered badge ready to be served or cached
type BadgeArtifact struct {
	Content      []byte `json:"content"`
	ContentType  string `json:"content_type"`
	CacheControl string `json:"cache_control"`
	TTL          int    `json:"ttl"`
	Interactive  bool   `json:"interactive"`
}

const (
	badgeLabel      = "GitPoke"
	badgeHeight     = 20
	badgeFontSize   = 11
	badgePadding    = 10
	badgeCharWidth  = 7 // approximation for 11px Verdana
	pokeEndpoint    = "/api/poke"
	labelBackground = "#555"
)

// RenderBadge renders the badge state into an SVG artifact. Pure: the
// same state always yields the same bytes.
func RenderBadge(state BadgeState) *BadgeArtifact {
	text := state.Text()
	labelWidth := len(badgeLabel)*badgeCharWidth + badgePadding
	textWidth := len(text)*badgeCharWidth + badgePadding
	totalWidth := labelWidth + textWidth

	var onclick string
	if state.Interactive {
		onclick = fmt.Sprintf(
			` onclick="fetch('%s',{method:'POST',credentials:'include',headers:{'Content-Type':'application/json'},body:JSON.stringify({username:'%s'})}).catch(function(e){console.error(e)})" style="cursor:pointer"`,
			pokeEndpoint, html.EscapeString(state.Username.String()))
	}

	svg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" role="img" aria-label="%s: %s"%s>
<linearGradient id="s" x2="0" y2="100%%"><stop offset="0" stop-color="#bbb" stop-opacity=".1"/><stop offset="1" stop-opacity=".1"/></linearGradient>
<clipPath id="r"><rect width="%d" height="%d" rx="3" fill="#fff"/></clipPath>
<g clip-path="url(#r)">
<rect width="%d" height="%d" fill="%s"/>
<rect x="%d" width="%d" height="%d" fill="%s"/>
<rect width="%d" height="%d" fill="url(#s)"/>
</g>
<g fill="#fff" text-anchor="middle" font-family="Verdana,Geneva,DejaVu Sans,sans-serif" font-size="%d">
<text x="%d" y="14">%s</text>
<text x="%d" y="14">%s</text>
</g>
</svg>`,
		totalWidth, badgeHeight, badgeLabel, html.EscapeString(text), onclick,
		totalWidth, badgeHeight,
		labelWidth, badgeHeight, labelBackground,
		labelWidth, textWidth, badgeHeight, state.Color(),
		totalWidth, badgeHeight,
		badgeFontSize,
		labelWidth/2, badgeLabel,
		labelWidth+textWidth/2, html.EscapeString(text),
	)

	return &BadgeArtifact{
		Content:      []byte(svg),
		ContentType:  state.ContentType(),
		CacheControl: state.CacheControl(),
		TTL:          state.TTL(),
		Interactive:  state.Interactive,
	}
}
