// Package platform maps a URL to the social platform it belongs to.
package platform

import "strings"

// Website is returned when no known platform matches.
const Website = "Website"

type rule struct {
	fragment string
	name     string
}

// First match wins.
var rules = []rule{
	{"youtube.com", "YouTube"},
	{"youtu.be", "YouTube"},
	{"instagram.com", "Instagram"},
	{"tiktok.com", "TikTok"},
	{"twitter.com", "Twitter"},
	{"facebook.com", "Facebook"},
	{"twitch.tv", "Twitch"},
	{"github.com", "GitHub"},
	{"linkedin.com", "LinkedIn"},
}

// Detect returns the platform name for url. It never fails and does not
// validate the url.
func Detect(url string) string {
	u := strings.ToLower(url)
	for _, r := range rules {
		if strings.Contains(u, r.fragment) {
			return r.name
		}
	}
	return Website
}

// Platforms lists the known platform names in table order, Website last.
func Platforms() []string {
	seen := make(map[string]struct{}, len(rules))
	out := make([]string, 0, len(rules)+1)
	for _, r := range rules {
		if _, ok := seen[r.name]; ok {
			continue
		}
		seen[r.name] = struct{}{}
		out = append(out, r.name)
	}
	return append(out, Website)
}

// Known reports whether name is one of Platforms().
func Known(name string) bool {
	for _, p := range Platforms() {
		if p == name {
			return true
		}
	}
	return false
}
