package exifdate

import (
	"os"
	"strings"

	"golang.org/x/text/language"
)

var sentinels = map[language.Tag]string{
	language.English:           "no capture date",
	language.SimplifiedChinese: "无拍摄时间",
}

var matcher = language.NewMatcher([]language.Tag{
	language.English, // first entry is the fallback
	language.SimplifiedChinese,
})

// Sentinel returns the "unknown capture time" text for the closest
// supported locale.
func Sentinel(tag language.Tag) string {
	_, idx, _ := matcher.Match(tag)
	switch idx {
	case 1:
		return sentinels[language.SimplifiedChinese]
	default:
		return sentinels[language.English]
	}
}

// ParseLocale accepts BCP 47 tags as well as POSIX locale names such as
// "zh_CN.UTF-8". Unparseable input yields English.
func ParseLocale(s string) language.Tag {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	s = strings.ReplaceAll(s, "_", "-")
	if s == "" || s == "C" || s == "POSIX" {
		return language.English
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.English
	}
	return tag
}

// LocaleFromEnv follows the usual LC_ALL, LC_MESSAGES, LANG precedence.
func LocaleFromEnv() language.Tag {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(key); v != "" {
			return ParseLocale(v)
		}
	}
	return language.English
}
