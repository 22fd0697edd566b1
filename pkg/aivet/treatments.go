package aivet

import "strings"

// TreatmentCode is one entry in the closed vocabulary of diagnostic and
// treatment line items the assistant is allowed to reference. The assistant
// must never invent codes outside this table.
type TreatmentCode struct {
	Code   string `json:"code"`
	NameZH string `json:"name_zh"`
	NameEN string `json:"name_en"`
}

var treatmentCodes = []TreatmentCode{
	{Code: "EXAM-001", NameZH: "基础体检", NameEN: "Basic Examination"},
	{Code: "EXAM-002", NameZH: "全面体检", NameEN: "Comprehensive Examination"},
	{Code: "BLOOD-001", NameZH: "血常规检查", NameEN: "Complete Blood Count"},
	{Code: "BLOOD-002", NameZH: "血液生化检查", NameEN: "Blood Chemistry Panel"},
	{Code: "XRAY-001", NameZH: "X光检查", NameEN: "X-Ray"},
	{Code: "ULTRA-001", NameZH: "B超检查", NameEN: "Ultrasound"},
	{Code: "VACC-001", NameZH: "常规疫苗接种", NameEN: "Routine Vaccination"},
	{Code: "DEWORM-001", NameZH: "体内驱虫", NameEN: "Internal Deworming"},
	{Code: "DEWORM-002", NameZH: "体外驱虫", NameEN: "External Deworming"},
	{Code: "DENTAL-001", NameZH: "牙齿清洁", NameEN: "Dental Cleaning"},
	{Code: "DENTAL-002", NameZH: "拔牙手术", NameEN: "Tooth Extraction"},
	{Code: "SURG-001", NameZH: "绝育手术", NameEN: "Spay/Neuter Surgery"},
	{Code: "SURG-002", NameZH: "软组织手术", NameEN: "Soft Tissue Surgery"},
	{Code: "HOSP-001", NameZH: "住院观察", NameEN: "Hospitalization"},
	{Code: "IV-001", NameZH: "静脉输液", NameEN: "IV Fluids"},
	{Code: "MED-001", NameZH: "口服药物治疗", NameEN: "Oral Medication"},
	{Code: "MED-002", NameZH: "注射药物治疗", NameEN: "Injectable Medication"},
	{Code: "SKIN-001", NameZH: "皮肤刮片检查", NameEN: "Skin Scraping"},
	{Code: "FECAL-001", NameZH: "粪便检查", NameEN: "Fecal Examination"},
	{Code: "URINE-001", NameZH: "尿液检查", NameEN: "Urinalysis"},
}

// TreatmentCodes returns the full vocabulary.
func TreatmentCodes() []TreatmentCode {
	out := make([]TreatmentCode, len(treatmentCodes))
	copy(out, treatmentCodes)
	return out
}

// LookupTreatmentCode finds a code by its identifier, nil if unknown.
func LookupTreatmentCode(code string) *TreatmentCode {
	for i := range treatmentCodes {
		if treatmentCodes[i].Code == code {
			tc := treatmentCodes[i]
			return &tc
		}
	}
	return nil
}

// Category returns the code's category prefix, e.g. "BLOOD" for "BLOOD-001".
func (t TreatmentCode) Category() string {
	if i := strings.Index(t.Code, "-"); i > 0 {
		return t.Code[:i]
	}
	return t.Code
}
