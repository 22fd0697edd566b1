package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntakeValidate(t *testing.T) {
	valid := IntakeData{
		MainSymptom: "vomiting",
		Duration:    "today",
		Severity:    SeverityModerate,
	}
	assert.NoError(t, valid.Validate())

	t.Run("missing required fields", func(t *testing.T) {
		cases := []IntakeData{
			{Duration: "today", Severity: SeverityMild},
			{MainSymptom: "vomiting", Severity: SeverityMild},
			{MainSymptom: "vomiting", Duration: "today"},
			{},
		}
		for _, c := range cases {
			assert.ErrorIs(t, c.Validate(), ErrIncompleteIntake)
		}
	})

	t.Run("unknown codes rejected", func(t *testing.T) {
		c := valid
		c.MainSymptom = "hiccups"
		assert.Error(t, c.Validate())

		c = valid
		c.Duration = "forever"
		assert.Error(t, c.Validate())

		c = valid
		c.Severity = "catastrophic"
		assert.Error(t, c.Validate())

		c = valid
		c.AdditionalSymptoms = []SymptomCode{"diarrhea", "glowing"}
		assert.Error(t, c.Validate())
	})

	t.Run("additional symptoms must exclude the main one", func(t *testing.T) {
		c := valid
		c.AdditionalSymptoms = []SymptomCode{"diarrhea", "vomiting"}
		assert.Error(t, c.Validate())
	})

	t.Run("distinct additional symptoms allowed", func(t *testing.T) {
		c := valid
		c.AdditionalSymptoms = []SymptomCode{"diarrhea", "lethargy"}
		assert.NoError(t, c.Validate())
	})
}

func TestSeedMessageEnglish(t *testing.T) {
	intake := IntakeData{
		MainSymptom: "vomiting",
		Duration:    "today",
		Severity:    SeverityModerate,
	}

	msg := intake.SeedMessage(LangEN)
	assert.Contains(t, msg, "Main symptom: Vomiting")
	assert.Contains(t, msg, "Duration: Just today")
	assert.Contains(t, msg, "Severity: Moderate - Noticeable changes")
	assert.NotContains(t, msg, "Other symptoms")
	assert.NotContains(t, msg, "Additional notes")

	// Deterministic: same input, same message.
	assert.Equal(t, msg, intake.SeedMessage(LangEN))
}

func TestSeedMessageChinese(t *testing.T) {
	intake := IntakeData{
		MainSymptom:        "diarrhea",
		Duration:           "1-3days",
		Severity:           SeverityMild,
		AdditionalSymptoms: []SymptomCode{"not_eating", "lethargy"},
		AdditionalNotes:    "喝水正常",
	}

	msg := intake.SeedMessage(LangZH)
	assert.Contains(t, msg, "主要症状：腹泻")
	assert.Contains(t, msg, "持续时间：1-3天")
	assert.Contains(t, msg, "严重程度：轻微 - 宠物基本正常")
	assert.Contains(t, msg, "其他症状：不吃东西 / 食欲下降、精神不振 / 嗜睡")
	assert.Contains(t, msg, "补充说明：喝水正常")
}

func TestLabelLookups(t *testing.T) {
	label, ok := SymptomLabel("breathing", LangEN)
	require.True(t, ok)
	assert.Equal(t, "Breathing difficulties", label)

	label, ok = SymptomLabel("breathing", LangZH)
	require.True(t, ok)
	assert.Equal(t, "呼吸困难", label)

	label, ok = DurationLabel("recurring", LangZH)
	require.True(t, ok)
	assert.Equal(t, "反复发作", label)

	label, ok = SeverityLabel(SeverityEmergency, LangEN)
	require.True(t, ok)
	assert.Equal(t, "Emergency - Urgent", label)

	_, ok = SymptomLabel("nope", LangEN)
	assert.False(t, ok)
}
