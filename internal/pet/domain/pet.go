package domain

import (
	"fmt"
	"time"
)

// Pet is the minimal pet profile the triage core needs for AI context.
// Full pet management (photos, documents, reminders) lives outside this
// service; rows are written by the host application.
type Pet struct {
	ID        string     `json:"id" gorm:"primaryKey"`
	UserID    string     `json:"user_id" gorm:"index;not null"`
	Name      string     `json:"name" gorm:"not null"`
	Species   string     `json:"species" gorm:"not null"` // dog | cat
	Birthdate *time.Time `json:"birthdate,omitempty"`
	WeightKG  *float64   `json:"weight,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func (Pet) TableName() string {
	return "pets"
}

// SpeciesLabel returns the localized species display name.
func (p *Pet) SpeciesLabel(lang string) string {
	if lang == "zh" {
		if p.Species == "dog" {
			return "狗"
		}
		return "猫"
	}
	if p.Species == "dog" {
		return "Dog"
	}
	return "Cat"
}

// AgeLabel computes the localized age bucket: whole years once the pet is a
// year old, months before that.
func (p *Pet) AgeLabel(now time.Time, lang string) string {
	if p.Birthdate == nil {
		return ""
	}
	years := now.Year() - p.Birthdate.Year()
	months := int(now.Month()) - int(p.Birthdate.Month())
	if months < 0 {
		years--
		months += 12
	}
	if years > 0 {
		if lang == "zh" {
			return fmt.Sprintf("%d岁", years)
		}
		return fmt.Sprintf("%d years", years)
	}
	if lang == "zh" {
		return fmt.Sprintf("%d个月", months)
	}
	return fmt.Sprintf("%d months", months)
}

// WeightLabel formats the weight in kilograms, "" when unknown.
func (p *Pet) WeightLabel() string {
	if p.WeightKG == nil {
		return ""
	}
	return fmt.Sprintf("%g kg", *p.WeightKG)
}
