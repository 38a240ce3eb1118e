package analyzer

import (
	"strings"

	"actionhub/backend/internal/domain"
)

// Analyzer 组合词表匹配与正则提取，为单封邮件产出分析记录。
type Analyzer struct {
	matcher *Matcher
}

// New 用给定词表构造分析器。词表非法时报错。
func New(patterns []Pattern) (*Analyzer, error) {
	matcher, err := NewMatcher(patterns)
	if err != nil {
		return nil, err
	}
	return &Analyzer{matcher: matcher}, nil
}

// Analyze 对规整后的正文计算分析结果。
// 首见字段取第一个对应标签的命中；布尔标记表示该标签是否出现过。
// RawEntities 与三组提取结果保持出现顺序，不去重，下游分类依赖首次出现次序。
func (a *Analyzer) Analyze(text string) (domain.Analysis, error) {
	entities := a.matcher.Match(text)
	extraction := Extract(text)

	analysis := domain.Analysis{
		Dates:       emptyIfNil(extraction.Dates),
		Amounts:     emptyIfNil(extraction.Amounts),
		Refs:        emptyIfNil(extraction.Refs),
		RawEntities: entities,
	}
	if analysis.RawEntities == nil {
		analysis.RawEntities = []domain.Entity{}
	}

	for _, e := range entities {
		switch e.Label {
		case LabelOrg:
			if analysis.Organization == "" {
				analysis.Organization = e.Text
			}
		case LabelEmailType:
			if analysis.MessageType == "" {
				analysis.MessageType = e.Text
			}
		case LabelRenewal:
			analysis.HasRenewal = true
		case LabelAppointment:
			analysis.HasAppointment = true
		case LabelBilling:
			analysis.HasBilling = true
		case LabelDocRequired:
			analysis.DocsRequired = true
		case LabelVerification:
			analysis.VerificationNeeded = true
		case LabelActionLink:
			analysis.HasActionLink = true
		}
	}

	if analysis.MessageType != "" {
		analysis.Category = strings.ToLower(analysis.MessageType)
	} else {
		analysis.Category = domain.CategoryUncategorized
	}

	return analysis, nil
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
