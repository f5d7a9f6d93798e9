package models

import (
	"fmt"
	"strings"
)

type Resolution string

const (
	Resolution480p  Resolution = "480p"
	Resolution720p  Resolution = "720p"
	Resolution1080p Resolution = "1080p"
	Resolution1440p Resolution = "1440p"
	Resolution4K    Resolution = "4K"

	DefaultResolution = Resolution1080p
)

var resolutions = []Resolution{Resolution480p, Resolution720p, Resolution1080p, Resolution1440p, Resolution4K}

// ParseResolution accepts the canonical names case-insensitively. An empty
// value yields DefaultResolution.
func ParseResolution(raw string) (Resolution, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return DefaultResolution, nil
	}
	for _, res := range resolutions {
		if strings.EqualFold(trimmed, string(res)) {
			return res, nil
		}
	}
	return "", fmt.Errorf("invalid quality %q, expected 480p|720p|1080p|1440p|4K", raw)
}

func (r Resolution) Valid() bool {
	for _, res := range resolutions {
		if r == res {
			return true
		}
	}
	return false
}

// LanguageType doubles as the episode category (sub, dub or raw).
type LanguageType string

const (
	LanguageSub LanguageType = "sub"
	LanguageDub LanguageType = "dub"
	LanguageRaw LanguageType = "raw"

	DefaultLanguage = LanguageSub
)

func ParseLanguageType(raw string) (LanguageType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return DefaultLanguage, nil
	case "sub":
		return LanguageSub, nil
	case "dub":
		return LanguageDub, nil
	case "raw":
		return LanguageRaw, nil
	default:
		return "", fmt.Errorf("invalid language %q, expected sub|dub|raw", raw)
	}
}

func (l LanguageType) Valid() bool {
	return l == LanguageSub || l == LanguageDub || l == LanguageRaw
}
