package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"actionhub/backend/internal/domain"
)

func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	a, err := New(DefaultPatterns())
	require.NoError(t, err)
	return a
}

func TestAnalyzer_NoticeOfAssessment(t *testing.T) {
	a := newTestAnalyzer(t)

	text := Normalize("<p>Your Notice of Assessment is ready. Payment due: $127.45 by 10 Apr 2025.</p>")
	require.Equal(t, "Your Notice of Assessment is ready. Payment due: $127.45 by 10 Apr 2025.", text)

	analysis, err := a.Analyze(text)
	require.NoError(t, err)

	assert.Equal(t, "Notice of Assessment", analysis.MessageType)
	assert.Equal(t, "notice of assessment", analysis.Category)
	assert.True(t, analysis.HasBilling)
	assert.Equal(t, []string{"$127.45"}, analysis.Amounts)
	assert.Equal(t, []string{"10 Apr 2025"}, analysis.Dates)
}

func TestAnalyzer_FirstSeenFields(t *testing.T) {
	a := newTestAnalyzer(t)

	analysis, err := a.Analyze("DBS and OCBC sent a bank statement and a tax return")
	require.NoError(t, err)

	// 首个 ORG / EMAIL_TYPE 按出现顺序取
	assert.Equal(t, "DBS", analysis.Organization)
	assert.Equal(t, "bank statement", analysis.MessageType)
}

func TestAnalyzer_Flags(t *testing.T) {
	a := newTestAnalyzer(t)

	tests := []struct {
		name string
		text string
		want func(t *testing.T, an domain.Analysis)
	}{
		{
			name: "续期标记",
			text: "your passport is due for renewal",
			want: func(t *testing.T, an domain.Analysis) { assert.True(t, an.HasRenewal) },
		},
		{
			name: "预约标记",
			text: "consultation scheduled next week",
			want: func(t *testing.T, an domain.Analysis) { assert.True(t, an.HasAppointment) },
		},
		{
			name: "材料标记",
			text: "please submit supporting documents",
			want: func(t *testing.T, an domain.Analysis) { assert.True(t, an.DocsRequired) },
		},
		{
			name: "验证标记",
			text: "please verify your identity",
			want: func(t *testing.T, an domain.Analysis) { assert.True(t, an.VerificationNeeded) },
		},
		{
			name: "链接标记",
			text: "click here to continue",
			want: func(t *testing.T, an domain.Analysis) { assert.True(t, an.HasActionLink) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			an, err := a.Analyze(tt.text)
			require.NoError(t, err)
			tt.want(t, an)
		})
	}
}

func TestAnalyzer_EmptyText(t *testing.T) {
	a := newTestAnalyzer(t)

	analysis, err := a.Analyze("")
	require.NoError(t, err)

	assert.Empty(t, analysis.Organization)
	assert.Empty(t, analysis.MessageType)
	assert.Equal(t, domain.CategoryUncategorized, analysis.Category)
	assert.NotNil(t, analysis.Dates)
	assert.NotNil(t, analysis.Amounts)
	assert.NotNil(t, analysis.Refs)
	assert.NotNil(t, analysis.RawEntities)
}

func TestAnalyzer_RawEntitiesKeepOrderAndDuplicates(t *testing.T) {
	a := newTestAnalyzer(t)

	analysis, err := a.Analyze("bill for invoice, second bill attached")
	require.NoError(t, err)

	var texts []string
	for _, e := range analysis.RawEntities {
		texts = append(texts, e.Text)
	}
	assert.Equal(t, []string{"bill", "invoice", "bill"}, texts)
}
