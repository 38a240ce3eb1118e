package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract_Dates(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"月份缩写", "pay by 10 Apr 2025 please", []string{"10 Apr 2025"}},
		{"月份全称", "expires 3 September 2025", []string{"3 September 2025"}},
		{"连字符分隔", "due 01-Jan-25", []string{"01-Jan-25"}},
		{"ISO 形式", "on 2025-04-10 at noon", []string{"2025-04-10"}},
		{"斜杠形式", "before 10/4/2025", []string{"10/4/2025"}},
		{"按出现位置排序", "first 2025-01-02 then 3 Mar 2025", []string{"2025-01-02", "3 Mar 2025"}},
		{"保留重复", "10 Apr 2025 and again 10 Apr 2025", []string{"10 Apr 2025", "10 Apr 2025"}},
		{"不校验日历合法性", "see 99/99/99", []string{"99/99/99"}},
		{"无日期", "no dates here", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.text).Dates
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtract_Amounts(t *testing.T) {
	ex := Extract("total $3,245.00 plus fee $127.45, deposit $0.99")
	assert.Equal(t, []string{"$3,245.00", "$127.45", "$0.99"}, ex.Amounts)

	// 缺少两位小数的金额不命中
	assert.Empty(t, Extract("about $100 or so").Amounts)
}

func TestExtract_Refs(t *testing.T) {
	t.Run("返回含关键字的完整片段", func(t *testing.T) {
		ex := Extract("quote Ref: ABC-123 when calling")
		assert.Equal(t, []string{"Ref: ABC-123"}, ex.Refs)
	})

	t.Run("关键字变体", func(t *testing.T) {
		ex := Extract("Reference #9981, case 5521, appointment A-77")
		assert.Equal(t, []string{"Reference #9981", "case 5521", "appointment A-77"}, ex.Refs)
	})

	t.Run("大小写不敏感", func(t *testing.T) {
		ex := Extract("REF:X1")
		assert.Equal(t, []string{"REF:X1"}, ex.Refs)
	})
}
