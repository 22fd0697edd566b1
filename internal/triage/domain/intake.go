package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Language tags accepted across the triage core. The language is threaded
// explicitly into every call rather than read from ambient state.
const (
	LangEN = "en"
	LangZH = "zh"
)

// SymptomCode is one of the fixed symptom categories offered by the intake form.
type SymptomCode string

// DurationCode is one of the fixed duration buckets.
type DurationCode string

// Severity is the owner-reported severity of the main symptom.
type Severity string

const (
	SeverityMild      Severity = "mild"
	SeverityModerate  Severity = "moderate"
	SeveritySevere    Severity = "severe"
	SeverityEmergency Severity = "emergency"
)

type labeled struct {
	code string
	en   string
	zh   string
}

var symptomOptions = []labeled{
	{"vomiting", "Vomiting", "呕吐"},
	{"diarrhea", "Diarrhea", "腹泻"},
	{"not_eating", "Not eating / Loss of appetite", "不吃东西 / 食欲下降"},
	{"lethargy", "Lethargy / Low energy", "精神不振 / 嗜睡"},
	{"coughing", "Coughing", "咳嗽"},
	{"sneezing", "Sneezing / Runny nose", "打喷嚏 / 流鼻涕"},
	{"scratching", "Scratching / Skin issues", "抓挠 / 皮肤问题"},
	{"limping", "Limping / Difficulty walking", "跛行 / 行走困难"},
	{"eye_issues", "Eye discharge / Redness", "眼睛分泌物 / 发红"},
	{"ear_issues", "Ear scratching / Head shaking", "抓耳朵 / 摇头"},
	{"urination", "Urination problems", "排尿问题"},
	{"breathing", "Breathing difficulties", "呼吸困难"},
	{"weight_change", "Weight loss / gain", "体重变化"},
	{"behavioral", "Behavioral changes", "行为变化"},
	{"other", "Other", "其他"},
}

var durationOptions = []labeled{
	{"today", "Just today", "今天开始"},
	{"1-3days", "1-3 days", "1-3天"},
	{"4-7days", "4-7 days", "4-7天"},
	{"1-2weeks", "1-2 weeks", "1-2周"},
	{"over2weeks", "Over 2 weeks", "超过2周"},
	{"recurring", "Recurring issue", "反复发作"},
}

var severityOptions = []labeled{
	{"mild", "Mild - Pet is mostly normal", "轻微 - 宠物基本正常"},
	{"moderate", "Moderate - Noticeable changes", "中等 - 有明显变化"},
	{"severe", "Severe - Significant concern", "严重 - 明显异常"},
	{"emergency", "Emergency - Urgent", "紧急 - 需立即处理"},
}

func lookupLabel(opts []labeled, code, lang string) (string, bool) {
	for _, o := range opts {
		if o.code == code {
			if lang == LangZH {
				return o.zh, true
			}
			return o.en, true
		}
	}
	return "", false
}

// SymptomLabel returns the localized display label for a symptom code.
func SymptomLabel(code SymptomCode, lang string) (string, bool) {
	return lookupLabel(symptomOptions, string(code), lang)
}

// DurationLabel returns the localized display label for a duration code.
func DurationLabel(code DurationCode, lang string) (string, bool) {
	return lookupLabel(durationOptions, string(code), lang)
}

// SeverityLabel returns the localized display label for a severity.
func SeverityLabel(s Severity, lang string) (string, bool) {
	return lookupLabel(severityOptions, string(s), lang)
}

var ErrIncompleteIntake = errors.New("main symptom, duration and severity are required")

// IntakeData is the structured symptom intake gathered before the first AI
// turn. It is ephemeral; the codes are mirrored onto the Consultation at save
// time and remain the system of record, the rendered seed message is display
// only.
type IntakeData struct {
	MainSymptom        SymptomCode   `json:"main_symptom"`
	Duration           DurationCode  `json:"duration"`
	Severity           Severity      `json:"severity"`
	AdditionalSymptoms []SymptomCode `json:"additional_symptoms"`
	AdditionalNotes    string        `json:"additional_notes"`
}

// Validate enforces the submission invariant: the three required fields must
// be set to known codes, and additional symptoms must exclude the main one.
func (d IntakeData) Validate() error {
	if d.MainSymptom == "" || d.Duration == "" || d.Severity == "" {
		return ErrIncompleteIntake
	}
	if _, ok := lookupLabel(symptomOptions, string(d.MainSymptom), LangEN); !ok {
		return fmt.Errorf("unknown symptom code %q", d.MainSymptom)
	}
	if _, ok := lookupLabel(durationOptions, string(d.Duration), LangEN); !ok {
		return fmt.Errorf("unknown duration code %q", d.Duration)
	}
	if _, ok := lookupLabel(severityOptions, string(d.Severity), LangEN); !ok {
		return fmt.Errorf("unknown severity %q", d.Severity)
	}
	for _, s := range d.AdditionalSymptoms {
		if s == d.MainSymptom {
			return fmt.Errorf("additional symptoms must not repeat the main symptom %q", s)
		}
		if _, ok := lookupLabel(symptomOptions, string(s), LangEN); !ok {
			return fmt.Errorf("unknown symptom code %q", s)
		}
	}
	return nil
}

// SeedMessage deterministically renders the intake into the natural-language
// first user turn in the active display language.
func (d IntakeData) SeedMessage(lang string) string {
	mainLabel, _ := SymptomLabel(d.MainSymptom, lang)
	durationLabel, _ := DurationLabel(d.Duration, lang)
	severityLabel, _ := SeverityLabel(d.Severity, lang)

	var extras []string
	for _, s := range d.AdditionalSymptoms {
		if label, ok := SymptomLabel(s, lang); ok {
			extras = append(extras, label)
		}
	}

	var b strings.Builder
	if lang == LangZH {
		b.WriteString("我的宠物出现以下症状：\n")
		b.WriteString("主要症状：" + mainLabel + "\n")
		b.WriteString("持续时间：" + durationLabel + "\n")
		b.WriteString("严重程度：" + severityLabel)
		if len(extras) > 0 {
			b.WriteString("\n其他症状：" + strings.Join(extras, "、"))
		}
		if d.AdditionalNotes != "" {
			b.WriteString("\n补充说明：" + d.AdditionalNotes)
		}
	} else {
		b.WriteString("My pet is showing the following symptoms:\n")
		b.WriteString("Main symptom: " + mainLabel + "\n")
		b.WriteString("Duration: " + durationLabel + "\n")
		b.WriteString("Severity: " + severityLabel)
		if len(extras) > 0 {
			b.WriteString("\nOther symptoms: " + strings.Join(extras, ", "))
		}
		if d.AdditionalNotes != "" {
			b.WriteString("\nAdditional notes: " + d.AdditionalNotes)
		}
	}
	return b.String()
}
