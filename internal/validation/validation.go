package validation

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxKeywordLength is the longest keyword accepted, in characters.
const MaxKeywordLength = 100

// SubredditPattern matches Reddit community names (without the "r/" prefix).
var SubredditPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_]{1,20}$`)

// ValidateKeyword checks that a prospect keyword is non-blank, not too long
// and free of control characters.
func ValidateKeyword(keyword string) bool {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" || utf8.RuneCountInString(keyword) > MaxKeywordLength {
		return false
	}
	for _, r := range keyword {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// NormalizeSubreddit strips an "r/" or "/r/" prefix and surrounding whitespace.
func NormalizeSubreddit(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, "/")
	if len(name) > 2 && strings.EqualFold(name[:2], "r/") {
		name = name[2:]
	}
	return name
}

// ValidateSubreddit checks if a subreddit name is well formed.
func ValidateSubreddit(name string) bool {
	return SubredditPattern.MatchString(name)
}

// ValidateBrandName checks that a brand name is present and reasonably short.
func ValidateBrandName(name string) (bool, string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, "Brand name is required"
	}
	if utf8.RuneCountInString(name) > 100 {
		return false, "Brand name must be at most 100 characters"
	}
	return true, ""
}

// ValidateURL checks if a URL is valid and uses an allowed scheme (http/https only).
// This prevents javascript:, data:, vbscript:, and other dangerous URL schemes.
func ValidateURL(urlStr string) (bool, string) {
	if urlStr == "" {
		return false, "URL is required"
	}

	// Parse the URL
	u, err := url.Parse(urlStr)
	if err != nil {
		return false, "Invalid URL format"
	}

	// Check scheme - only allow http and https
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false, "URL must use http:// or https:// scheme"
	}

	// Ensure host is present
	if u.Host == "" {
		return false, "URL must have a valid host"
	}

	return true, ""
}
