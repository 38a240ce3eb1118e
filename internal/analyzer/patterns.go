package analyzer

// 词表标签。同一片段允许同时命中不同标签类别的模式。
const (
	LabelOrg          = "ORG"          // 机构 / 来源
	LabelEmailType    = "EMAIL_TYPE"   // 邮件类型短语
	LabelRenewal      = "RENEWAL"      // 续期 / 到期
	LabelAppointment  = "APPOINTMENT"  // 预约
	LabelBilling      = "BILLING"      // 账单 / 付款
	LabelDocRequired  = "DOC_REQUIRED" // 需提交材料
	LabelVerification = "VERIFICATION" // 身份验证
	LabelActionLink   = "ACTION_LINK"  // 行动入口 / 链接
)

// Pattern 表示词表中的一条（标签，字面短语）配置。
// 词表是注入式配置而非推导数据：匹配器本身不关心表的内容，
// 测试与部署可以替换成任意词表。
type Pattern struct {
	Label  string `json:"label" mapstructure:"label"`
	Phrase string `json:"phrase" mapstructure:"phrase"`
}

// DefaultPatterns 返回内置词表，顺序即匹配优先顺序（同位置命中时靠前者在前）。
func DefaultPatterns() []Pattern {
	return []Pattern{
		// 机构 / 来源
		{LabelOrg, "IRAS"},
		{LabelOrg, "Inland Revenue Authority of Singapore"},
		{LabelOrg, "ICA"},
		{LabelOrg, "Immigration & Checkpoints Authority"},
		{LabelOrg, "CPF Board"},
		{LabelOrg, "SP Services"},
		{LabelOrg, "SingHealth"},
		{LabelOrg, "NHG"},
		{LabelOrg, "NUHS"},
		{LabelOrg, "DBS"},
		{LabelOrg, "POSB"},
		{LabelOrg, "OCBC"},
		{LabelOrg, "UOB"},

		// 邮件类型
		{LabelEmailType, "Notice of Assessment"},
		{LabelEmailType, "tax filing"},
		{LabelEmailType, "tax return"},
		{LabelEmailType, "passport renewal"},
		{LabelEmailType, "passport expiring"},
		{LabelEmailType, "clinic appointment"},
		{LabelEmailType, "medical appointment"},
		{LabelEmailType, "utility bill"},
		{LabelEmailType, "billing statement"},
		{LabelEmailType, "CPF contribution"},
		{LabelEmailType, "e-statement"},
		{LabelEmailType, "bank statement"},
		{LabelEmailType, "license renewal"},
		{LabelEmailType, "contract renewal"},
		{LabelEmailType, "offer letter"},
		{LabelEmailType, "HR update"},

		// 续期 / 到期
		{LabelRenewal, "renew"},
		{LabelRenewal, "renewal"},
		{LabelRenewal, "expiring"},
		{LabelRenewal, "expiry"},
		{LabelRenewal, "expires on"},
		{LabelRenewal, "valid until"},
		{LabelRenewal, "due for renewal"},

		// 预约
		{LabelAppointment, "appointment"},
		{LabelAppointment, "scheduled"},
		{LabelAppointment, "appointment date"},
		{LabelAppointment, "consultation"},

		// 账单 / 付款
		{LabelBilling, "payment due"},
		{LabelBilling, "due date"},
		{LabelBilling, "invoice"},
		{LabelBilling, "bill"},
		{LabelBilling, "amount payable"},
		{LabelBilling, "outstanding balance"},
		{LabelBilling, "total charges"},

		// 需提交材料
		{LabelDocRequired, "documents required"},
		{LabelDocRequired, "required documents"},
		{LabelDocRequired, "please submit"},
		{LabelDocRequired, "supporting documents"},

		// 身份验证
		{LabelVerification, "verification needed"},
		{LabelVerification, "verify your identity"},
		{LabelVerification, "please verify"},
		{LabelVerification, "account verification"},

		// 行动入口 / 链接
		{LabelActionLink, "click here"},
		{LabelActionLink, "log in to"},
		{LabelActionLink, "view statement"},
		{LabelActionLink, "view details"},
		{LabelActionLink, "access your account"},
	}
}
