package utils

import (
	"net/url"
	"strings"

	"github.com/circleone/member-directory/internal/constants"
)

// AvatarURL builds an initials avatar for a display name.
func AvatarURL(name string) string {
	q := url.Values{}
	q.Set("name", strings.Join(strings.Fields(name), " "))
	q.Set("background", "4285f4")
	q.Set("color", "fff")
	return constants.AvatarBaseURL + "?" + encodeOrdered(q, "name", "background", "color")
}

// encodeOrdered keeps the parameter order stable; url.Values.Encode sorts keys.
func encodeOrdered(q url.Values, keys ...string) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, url.QueryEscape(k)+"="+url.QueryEscape(q.Get(k)))
	}
	return strings.Join(parts, "&")
}

// PlaceholderEmail is used when a local signup omits the email address.
func PlaceholderEmail(username string) string {
	return username + "@" + constants.PlaceholderEmailDomain
}
