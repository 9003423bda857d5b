package processor

import "github.com/abadojack/whatlanggo"

// DetectLanguage returns the ISO 639-1 code of the dominant language in
// text, or "" when the input is too short or mixed for a reliable call.
func DetectLanguage(text string) string {
	if text == "" {
		return ""
	}
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return ""
	}
	return info.Lang.Iso6391()
}
