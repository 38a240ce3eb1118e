package domain

// CategoryUncategorized 未能归类时的默认类别。
const CategoryUncategorized = "uncategorized"

// Entity 表示正文中命中的一个词表片段及其标签。
type Entity struct {
	Text  string `json:"text"`  // 命中的原文片段
	Label string `json:"label"` // 词表标签（ORG、EMAIL_TYPE 等）
}

// Analysis 表示对一封邮件正文的结构化分析结果。
// 布尔标记与首见字段均由 RawEntities 推导，不允许独立赋值。
type Analysis struct {
	Organization string `json:"org,omitempty"`       // 首个 ORG 命中，无则为空
	MessageType  string `json:"emailType,omitempty"` // 首个 EMAIL_TYPE 命中，无则为空
	Category     string `json:"category"`            // 入库时的初始类别（MessageType 或 uncategorized）

	HasRenewal         bool `json:"hasRenewal"`         // 存在 RENEWAL 命中
	HasAppointment     bool `json:"hasAppointment"`     // 存在 APPOINTMENT 命中
	HasBilling         bool `json:"hasBilling"`         // 存在 BILLING 命中
	DocsRequired       bool `json:"docsRequired"`       // 存在 DOC_REQUIRED 命中
	VerificationNeeded bool `json:"verificationNeeded"` // 存在 VERIFICATION 命中
	HasActionLink      bool `json:"hasActionLink"`      // 存在 ACTION_LINK 命中

	Dates       []string `json:"dates"`       // 日期片段，按出现顺序，保留重复
	Amounts     []string `json:"amounts"`     // 金额片段（$1,234.56 形式），按出现顺序
	Refs        []string `json:"refs"`        // 引用编号片段（含关键字的完整命中）
	RawEntities []Entity `json:"rawEntities"` // 全部词表命中，未过滤、未去重
}
