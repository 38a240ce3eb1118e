package analyzer

import (
	"errors"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"actionhub/backend/internal/domain"
)

var (
	ErrEmptyVocabulary = errors.New("vocabulary is empty")
	ErrInvalidPattern  = errors.New("pattern label and phrase must be non-empty")
)

// Matcher 在规整后的文本中扫描词表短语。
// 匹配不区分大小写，按整词边界计算；不同类别的模式可以命中
// 重叠甚至相同的片段，互不抑制。
type Matcher struct {
	patterns []Pattern
	lowered  []string // 与 patterns 同序的小写短语
}

// NewMatcher 用给定词表构造匹配器。词表为空或存在空白条目时报错。
func NewMatcher(patterns []Pattern) (*Matcher, error) {
	if len(patterns) == 0 {
		return nil, ErrEmptyVocabulary
	}

	lowered := make([]string, len(patterns))
	for i, p := range patterns {
		if strings.TrimSpace(p.Label) == "" || strings.TrimSpace(p.Phrase) == "" {
			return nil, ErrInvalidPattern
		}
		lowered[i] = strings.ToLower(p.Phrase)
	}

	return &Matcher{patterns: patterns, lowered: lowered}, nil
}

// match 记录一次命中在原文中的区间与词表序号，用于排序。
type match struct {
	start int
	end   int
	order int
}

// Match 返回文本中的全部词表命中，按出现位置排序，
// 同一位置按词表顺序排序。无命中时返回空切片而非错误。
// 命中片段取输入文本的原始大小写。
func (m *Matcher) Match(text string) []domain.Entity {
	if text == "" {
		return nil
	}

	// 小写化会改变部分 Unicode 字符的字节长度（如 İ 变短、Ⱥ 变长），
	// 因此逐字符记录小写文本到原文的字节偏移映射，回切原文时用映射换算。
	lowerText, offsets := foldLower(text)
	var hits []match

	for i, phrase := range m.lowered {
		offset := 0
		for {
			idx := strings.Index(lowerText[offset:], phrase)
			if idx < 0 {
				break
			}
			start := offset + idx
			end := start + len(phrase)
			if wordBounded(lowerText, start, end) {
				hits = append(hits, match{start: offsets[start], end: offsets[end], order: i})
			}
			offset = start + 1
		}
	}

	sort.Slice(hits, func(a, b int) bool {
		if hits[a].start != hits[b].start {
			return hits[a].start < hits[b].start
		}
		return hits[a].order < hits[b].order
	})

	entities := make([]domain.Entity, 0, len(hits))
	for _, h := range hits {
		entities = append(entities, domain.Entity{
			Text:  text[h.start:h.end],
			Label: m.patterns[h.order].Label,
		})
	}
	return entities
}

// foldLower 逐字符小写化文本，并返回小写文本每个字节位置
// 对应的原文字节偏移；末尾补一项 len(text) 以便换算区间右端。
func foldLower(text string) (string, []int) {
	var b strings.Builder
	b.Grow(len(text))
	offsets := make([]int, 0, len(text)+1)
	for i, r := range text {
		lr := unicode.ToLower(r)
		for j := 0; j < utf8.RuneLen(lr); j++ {
			offsets = append(offsets, i)
		}
		b.WriteRune(lr)
	}
	offsets = append(offsets, len(text))
	return b.String(), offsets
}

// wordBounded 判断 [start,end) 区间两侧是否落在词边界上，
// 避免 "renew" 命中 "renewal" 内部。
func wordBounded(text string, start, end int) bool {
	if start > 0 && isWordByte(text[start]) && isWordByte(text[start-1]) {
		return false
	}
	if end < len(text) && isWordByte(text[end-1]) && isWordByte(text[end]) {
		return false
	}
	return true
}

func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
