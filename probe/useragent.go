package probe

import (
	"strings"

	"golang.org/x/text/cases"
)

// mobileTokens are matched against the case-folded user agent. Tablets are
// included on purpose: a false positive only costs quality.
var mobileTokens = []string{
	"mobi",
	"android",
	"iphone",
	"ipad",
	"ipod",
	"blackberry",
	"opera mini",
	"iemobile",
	"webos",
	"silk",
	"kindle",
	"tablet",
}

// IsMobileUserAgent reports whether ua looks like a mobile browser.
func IsMobileUserAgent(ua string) bool {
	if ua == "" {
		return false
	}
	folded := cases.Fold().String(ua)
	for _, tok := range mobileTokens {
		if strings.Contains(folded, tok) {
			return true
		}
	}
	return false
}
