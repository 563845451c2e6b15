package fetch

import (
	"net/url"
	"strings"
)

// Platform represents a known job board platform.
type Platform string

const (
	// PlatformGreenhouse is the Greenhouse ATS platform
	PlatformGreenhouse Platform = "greenhouse"
	// PlatformLever is the Lever ATS platform
	PlatformLever Platform = "lever"
	// PlatformWorkday is the Workday ATS platform
	PlatformWorkday Platform = "workday"
	// PlatformUnknown is an unrecognized platform
	PlatformUnknown Platform = "unknown"
)

var platformHosts = map[Platform][]string{
	PlatformGreenhouse: {"greenhouse.io"},
	PlatformLever:      {"lever.co"},
	PlatformWorkday:    {"workday.com", "myworkdayjobs.com"},
}

// DetectPlatform identifies the job board platform from a URL's host.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}
	host := strings.ToLower(parsed.Hostname())
	for platform, suffixes := range platformHosts {
		for _, suffix := range suffixes {
			if host == suffix || strings.HasSuffix(host, "."+suffix) {
				return platform
			}
		}
	}
	return PlatformUnknown
}

// PlatformContentSelectors returns the description selectors to try, most specific first.
func PlatformContentSelectors(platform Platform) []string {
	generic := []string{
		".job-description",
		"#job-description",
		".posting-content",
		".job-details",
		"[data-testid='job-description']",
		"main",
		"article",
		"#content",
	}

	switch platform {
	case PlatformGreenhouse:
		return append([]string{".job__description", ".job-post-container"}, generic...)
	case PlatformLever:
		return append([]string{".posting-page", ".posting-description"}, generic...)
	case PlatformWorkday:
		return append([]string{"[data-automation-id='jobDescription']"}, generic...)
	default:
		return generic
	}
}

// PlatformNoiseSelectors returns elements that never belong to a posting description.
func PlatformNoiseSelectors(platform Platform) []string {
	common := []string{
		"form",
		".application-form",
		"[data-testid='application-form']",
		".eeo-statement",
		".voluntary-disclosure",
		".social-share",
		".cookie-banner",
	}

	switch platform {
	case PlatformGreenhouse:
		return append(common, ".voluntary-self-id", "#usa_self_id_section")
	case PlatformLever:
		return append(common, ".apply-section", ".posting-apply")
	case PlatformWorkday:
		return append(common, "[data-automation-id='applyButton']")
	default:
		return common
	}
}
