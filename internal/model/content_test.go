package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseContentRoundTrip(t *testing.T) {
	cases := []struct {
		name     string
		platform Platform
		raw      string
	}{
		{"linkedin text", PlatformLinkedin, `{"shareMediaCategory":"NONE","shareCommentary":"hello network"}`},
		{"linkedin article", PlatformLinkedin, `{"shareMediaCategory":"ARTICLE","shareCommentary":"read this","media":[{"status":"READY","originalUrl":"https://example.com/a"}]}`},
		{"tweet single", PlatformTwitter, `{"text":"just one"}`},
		{"tweet thread", PlatformTwitter, `[{"text":"first"},{"text":"second"}]`},
		{"youtube short", PlatformYoutube, `{"type":"short","title":"clip","description":"d","mediaKey":"k1"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			parsed, err := ParseContent(tc.platform, tc.raw)
			require.NoError(t, err)
			require.Equal(t, tc.platform, parsed.Platform())

			encoded, err := parsed.Marshal()
			require.NoError(t, err)

			again, err := ParseContent(tc.platform, encoded)
			require.NoError(t, err)
			require.Equal(t, parsed, again)
		})
	}
}

func TestParseLinkedinContentNormalizesCategory(t *testing.T) {
	c, err := ParseLinkedinContent(`{"shareMediaCategory":"image","shareCommentary":"pic","media":[{"media":"urn:li:digitalmediaAsset:1"}]}`)
	require.NoError(t, err)
	require.Equal(t, LinkedinMediaImage, c.ShareMediaCategory)
	require.Len(t, c.Media, 1)
}

func TestParseContentRejectsUnknownOrMalformed(t *testing.T) {
	cases := []struct {
		name     string
		platform Platform
		raw      string
	}{
		{"linkedin unknown category", PlatformLinkedin, `{"shareMediaCategory":"CAROUSEL","shareCommentary":"x"}`},
		{"linkedin media category without media", PlatformLinkedin, `{"shareMediaCategory":"VIDEO","shareCommentary":"x"}`},
		{"linkedin malformed json", PlatformLinkedin, `{"shareMediaCategory":`},
		{"tweet empty", PlatformTwitter, ``},
		{"tweet scalar", PlatformTwitter, `"text"`},
		{"tweet empty thread", PlatformTwitter, `[]`},
		{"tweet blank segment", PlatformTwitter, `[{"text":"a"},{"text":""}]`},
		{"youtube unknown type", PlatformYoutube, `{"type":"livestream","title":"t","mediaKey":"k"}`},
		{"youtube missing key", PlatformYoutube, `{"type":"video","title":"t"}`},
		{"unknown platform", Platform("myspace"), `{}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseContent(tc.platform, tc.raw)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrUnsupportedContentType), "got %v", err)
		})
	}
}

func TestParseTweetContentAcceptsPlainStringThread(t *testing.T) {
	c, err := ParseTweetContent(`["one","two","three"]`)
	require.NoError(t, err)
	require.True(t, c.IsThread())
	require.Equal(t, "three", c.Segments[2].Text)
}

func TestParseTweetContentSingleElementArrayIsNotThread(t *testing.T) {
	c, err := ParseTweetContent(`[{"text":"solo"}]`)
	require.NoError(t, err)
	require.False(t, c.IsThread())

	encoded, err := c.Marshal()
	require.NoError(t, err)
	require.JSONEq(t, `{"text":"solo"}`, encoded)
}
