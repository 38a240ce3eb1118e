package analyzer

import (
	"regexp"
	"sort"
)

// 日期、金额、引用编号的固定提取正则。仅做句法匹配，
// 不校验日期是否真实存在于日历上。
var (
	dateRegexes = []*regexp.Regexp{
		// 10 Apr 2025 / 10-Apr-2025 / 10/April/2025
		regexp.MustCompile(`\b\d{1,2}[-/ ](?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec)[a-z]*[-/ ]\d{2,4}\b`),
		// ISO 2025-04-10
		regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
		// 10/4/25 或 10/04/2025
		regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2,4}\b`),
	}

	amountRegex = regexp.MustCompile(`\$[0-9,]+\.\d{2}`)

	// 返回含关键字的完整命中，而非仅编号本身
	refRegex = regexp.MustCompile(`(?i)(?:ref(?:erence)?|appointment|case)\s*[:#]?\s*[A-Za-z0-9-]+`)
)

// Extraction 表示一次正则提取的三组结果，
// 各组均按出现顺序排列并保留重复。
type Extraction struct {
	Dates   []string
	Amounts []string
	Refs    []string
}

// Extract 对规整后的文本执行日期 / 金额 / 引用编号提取。
func Extract(text string) Extraction {
	return Extraction{
		Dates:   extractDates(text),
		Amounts: amountRegex.FindAllString(text, -1),
		Refs:    refRegex.FindAllString(text, -1),
	}
}

// extractDates 合并三种日期形态的命中，按文本位置排序，
// 同位置时保持正则定义的先后。
func extractDates(text string) []string {
	type hit struct {
		start int
		order int
		text  string
	}

	var hits []hit
	for i, re := range dateRegexes {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			hits = append(hits, hit{start: loc[0], order: i, text: text[loc[0]:loc[1]]})
		}
	}

	sort.Slice(hits, func(a, b int) bool {
		if hits[a].start != hits[b].start {
			return hits[a].start < hits[b].start
		}
		return hits[a].order < hits[b].order
	})

	dates := make([]string, 0, len(hits))
	for _, h := range hits {
		dates = append(dates, h.text)
	}
	return dates
}
