package aitime

import "regexp"

// catalanMarkerPattern matches Catalan-only vocabulary on the folded expression.
// Words shared with Spanish (abril, octubre, mes) are deliberately absent.
var catalanMarkerPattern = regexp.MustCompile(`\b(?:` +
	`dilluns|dimarts|dimecres|dijous|divendres|dissabte|diumenge|` +
	`gener|febrer|marc|maig|juny|juliol|setembre|novembre|desembre|` +
	`dema|avui|ahir|setmana|setmanes|any|anys|` +
	`que ve|vinent|propera|proper|a les \d+|del mati|de la tarda|del vespre|de la nit|migdia|mitjanit` +
	`)\b`)

// DetectLanguage returns LanguageCatalan when any Catalan marker is present,
// LanguageSpanish otherwise.
func DetectLanguage(expression string) Language {
	if catalanMarkerPattern.MatchString(fold(expression)) {
		return LanguageCatalan
	}
	return LanguageSpanish
}
