// Package textsafe makes label text safe for CAD output.
//
// DXF viewers have unreliable glyph support for Korean text, so every string
// that ends up in a drawing passes through a [Sanitizer]. Two strategies are
// available:
//
//   - [Romanize] (default): known domain terms are replaced with Latin
//     equivalents, any remaining Hangul is stripped, and the original string
//     is returned if nothing would be left.
//   - [Escape]: each Hangul rune becomes a \U+XXXX sequence, for viewers that
//     decode them.
//
// Pure-Latin input is always returned unchanged.
package textsafe

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Mode selects the sanitizing strategy.
type Mode int

const (
	// Romanize replaces known terms and strips the rest.
	Romanize Mode = iota
	// Escape rewrites Hangul runes as \U+XXXX sequences.
	Escape
)

// ParseMode maps "romanize" and "escape" to a Mode; anything else is Romanize.
func ParseMode(s string) Mode {
	if strings.EqualFold(s, "escape") {
		return Escape
	}
	return Romanize
}

var hangulRe = regexp.MustCompile(`[ㄱ-ㅎㅏ-ㅣ가-힣]`)

type term struct {
	korean, latin string
}

// terms is the domain vocabulary, longest entries first so that compounds
// win over their prefixes.
var terms = sortedTerms(map[string]string{
	"가구":   "Gagu",
	"정면도":  "Jeongmyeondo",
	"평면도":  "Pyeongmyeondo",
	"측면도":  "Cheukmyeondo",
	"작성일":  "Jakseongil",
	"도면":   "Domyeon",
	"축척":   "Chukchuk",
	"단위":   "Danwi",
	"폭":    "Pok",
	"높이":   "Nopi",
	"깊이":   "Gipi",
	"공간":   "Gonggan",
	"오픈박스": "Open Box",
	"듀얼":   "Dual",
	"단":    "Dan",
	"선반":   "Seonban",
	"슬롯":   "Slot",
	"치수":   "Chisu",
	"배치":   "Baechi",
	"모듈":   "Module",
	"서랍":   "Drawer",
	"옷장":   "Wardrobe",
	"스타일러": "Styler",
	"바지걸이": "Pants Hanger",
	"좌측":   "Left",
	"우측":   "Right",
})

var furnitureNames = sortedTerms(map[string]string{
	"오픈박스": "Open Box",
	"2단":   "2-Shelf",
	"7단":   "7-Shelf",
	"듀얼2단": "Dual 2-Shelf",
	"듀얼7단": "Dual 7-Shelf",
	"2단서랍": "2-Drawer",
	"4단서랍": "4-Drawer",
	"2단 옷장": "2-Tier Wardrobe",
	"가구":   "Furniture",
	"모듈":   "Module",
})

func sortedTerms(m map[string]string) []term {
	out := make([]term, 0, len(m))
	for k, v := range m {
		out = append(out, term{korean: k, latin: v})
	}
	sort.Slice(out, func(i, j int) bool {
		li, lj := len([]rune(out[i].korean)), len([]rune(out[j].korean))
		if li != lj {
			return li > lj
		}
		return out[i].korean < out[j].korean
	})
	return out
}

// ContainsHangul reports whether s has any Hangul syllable or jamo.
func ContainsHangul(s string) bool {
	return hangulRe.MatchString(s)
}

// Sanitizer applies one [Mode] to label text.
type Sanitizer struct {
	Mode Mode
}

// Apply returns s made safe for the configured mode.
func (z Sanitizer) Apply(s string) string {
	if !ContainsHangul(s) {
		return s
	}
	if z.Mode == Escape {
		return EscapeHangul(s)
	}
	return romanize(s)
}

// Name sanitizes a furniture name: Romanize mode maps known names through
// [FurnitureName] first.
func (z Sanitizer) Name(s string) string {
	if z.Mode == Escape {
		return z.Apply(s)
	}
	return FurnitureName(s)
}

// Sanitize applies the default [Romanize] strategy.
func Sanitize(s string) string {
	return Sanitizer{Mode: Romanize}.Apply(s)
}

// EscapeHangul replaces every Hangul rune with a \U+XXXX sequence.
func EscapeHangul(s string) string {
	return hangulRe.ReplaceAllStringFunc(s, func(m string) string {
		var b strings.Builder
		for _, r := range m {
			fmt.Fprintf(&b, `\U+%04X`, r)
		}
		return b.String()
	})
}

// FurnitureName maps well-known Korean furniture names to their English
// labels before falling back to [Sanitize].
func FurnitureName(name string) string {
	for _, t := range furnitureNames {
		if strings.Contains(name, t.korean) {
			name = strings.Replace(name, t.korean, t.latin, 1)
			break
		}
	}
	return Sanitize(name)
}

func romanize(s string) string {
	out := s
	for _, t := range terms {
		out = strings.ReplaceAll(out, t.korean, t.latin)
	}
	out = hangulRe.ReplaceAllString(out, "")
	out = strings.Join(strings.Fields(out), " ")
	if out == "" {
		return s
	}
	return out
}
