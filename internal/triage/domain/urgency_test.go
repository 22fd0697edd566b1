package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUrgencyExtract(t *testing.T) {
	extractor := NewUrgencyExtractor()

	cases := []struct {
		name string
		text string
		want string
	}{
		{
			name: "chinese emergency with emoji",
			text: "## 初步判断\n可能是中毒。\n\n## 紧急程度\n🚨 紧急\n\n请立即就医。",
			want: "紧急",
		},
		{
			name: "chinese within 24 hours",
			text: "## 紧急程度\n⏰ 24小时内就医",
			want: "24小时内就医",
		},
		{
			name: "chinese observe",
			text: "## 紧急程度\n👀 可观察\n\n## 护理建议",
			want: "可观察",
		},
		{
			name: "english emergency",
			text: "## Urgency Level\n🚨 Emergency\n\nGo to the clinic now.",
			want: "Emergency",
		},
		{
			name: "english within 24 hours bolded",
			text: "**Urgency Level**: Within 24 hours",
			want: "Within 24 hours",
		},
		{
			name: "english monitor",
			text: "## Urgency Level\n👀 Monitor\n\n## Care Advice",
			want: "Monitor",
		},
		{
			name: "emergency wins over observe when both appear",
			text: "## 紧急程度\n紧急，不要观察等待。",
			want: "紧急",
		},
		{
			name: "phrase without heading is ignored",
			text: "The situation is not an Emergency. Monitor your pet at home.",
			want: "",
		},
		{
			name: "free form reply with no urgency section",
			text: "请问症状持续了多久？有没有呕吐物的照片？",
			want: "",
		},
		{
			name: "phrase too far from heading is ignored",
			text: "## Urgency Level\n" + longFiller(120) + " Monitor",
			want: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, extractor.Extract(tc.text))
		})
	}
}

func TestUrgencyExtractIdempotent(t *testing.T) {
	extractor := NewUrgencyExtractor()
	text := "## 紧急程度\n⏰ 24小时内就医"
	first := extractor.Extract(text)
	assert.Equal(t, first, extractor.Extract(text))
}

func longFiller(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = 'x'
	}
	return string(b)
}
