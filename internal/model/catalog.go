package model

import "encoding/json"

// Flower is a display record for a blooming species.
type Flower struct {
	ID                  string `json:"id" yaml:"id"`
	Name                string `json:"name" yaml:"name"`
	ScientificName      string `json:"scientificName" yaml:"scientific_name"`
	BloomingSeason      string `json:"bloomingSeason" yaml:"blooming_season"`
	ImageURL            string `json:"imageUrl" yaml:"image_url"`
	IsCurrentlyBlooming bool   `json:"isCurrentlyBlooming" yaml:"is_currently_blooming"`
	Description         string `json:"description" yaml:"description"`
}

// RiskLevel is the severity attached to a health alert.
type RiskLevel string

// Health alert risk levels.
const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Label returns the display form shown on alert cards, e.g. "High Risk".
func (r RiskLevel) Label() string {
	if r == "" {
		return ""
	}
	return string(r) + " Risk"
}

// HealthAlert is a pollen-related health advisory.
type HealthAlert struct {
	ID                 string    `json:"-" yaml:"id"`
	Title              string    `json:"title" yaml:"title"`
	RiskLevel          RiskLevel `json:"riskLevel" yaml:"risk_level"`
	PopulationAffected string    `json:"populationAffected" yaml:"population_affected"`
	Description        string    `json:"description" yaml:"description"`
	Precautions        []string  `json:"precautions" yaml:"precautions"`
}

// MarshalJSON renders the risk level with its "Risk" suffix.
func (a HealthAlert) MarshalJSON() ([]byte, error) {
	type wire struct {
		Title              string   `json:"title"`
		RiskLevel          string   `json:"riskLevel"`
		PopulationAffected string   `json:"populationAffected"`
		Description        string   `json:"description"`
		Precautions        []string `json:"precautions"`
	}
	precautions := a.Precautions
	if precautions == nil {
		precautions = []string{}
	}
	return json.Marshal(wire{
		Title:              a.Title,
		RiskLevel:          a.RiskLevel.Label(),
		PopulationAffected: a.PopulationAffected,
		Description:        a.Description,
		Precautions:        precautions,
	})
}
