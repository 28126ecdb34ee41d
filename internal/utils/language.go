package utils

import (
	"regexp"
	"strings"
)

// Language codes assigned to inbound tickets
const (
	LangEnglish  = "en"
	LangHebrew   = "he"
	LangArabic   = "ar"
	LangRussian  = "ru"
	LangChinese  = "zh"
	LangJapanese = "ja"
	LangKorean   = "ko"
)

// scriptRatio is the share of characters in one script
type scriptRatio struct {
	code  string
	ratio float64
}

var scriptPatterns = []struct {
	code    string
	pattern *regexp.Regexp
}{
	{LangHebrew, regexp.MustCompile(`[\x{0590}-\x{05FF}]`)},
	{LangArabic, regexp.MustCompile(`[\x{0600}-\x{06FF}]`)},
	{LangRussian, regexp.MustCompile(`[\x{0400}-\x{04FF}]`)},
	{LangChinese, regexp.MustCompile(`[\x{4E00}-\x{9FFF}]`)},
	{LangJapanese, regexp.MustCompile(`[\x{3040}-\x{309F}\x{30A0}-\x{30FF}\x{4E00}-\x{9FFF}]`)},
	{LangKorean, regexp.MustCompile(`[\x{AC00}-\x{D7AF}]`)},
}

var kanaPattern = regexp.MustCompile(`[\x{3040}-\x{309F}\x{30A0}-\x{30FF}]`)

// DetectLanguage returns the language code an inbound message is most
// likely written in, based on script character ratios. Defaults to
// English when no script clears the threshold.
func DetectLanguage(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return LangEnglish
	}

	runes := float64(len([]rune(text)))
	best := scriptRatio{code: LangEnglish}
	for _, sp := range scriptPatterns {
		matches := sp.pattern.FindAllString(text, -1)
		ratio := float64(len(matches)) / runes
		if ratio > 0.1 && ratio > best.ratio {
			best = scriptRatio{code: sp.code, ratio: ratio}
		}
	}

	// Kanji alone matches both CJK patterns; kana marks it as Japanese
	if best.code == LangChinese || best.code == LangJapanese {
		kanaRatio := float64(len(kanaPattern.FindAllString(text, -1))) / runes
		if kanaRatio > 0.05 {
			return LangJapanese
		}
		return LangChinese
	}

	return best.code
}
