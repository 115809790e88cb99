package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Campaign lifecycle states. Only publish constrains transitions (status must
// not already be active); every other change is a plain field update.
const (
	CampaignDraft     = "draft"
	CampaignActive    = "active"
	CampaignPaused    = "paused"
	CampaignCompleted = "completed"
	CampaignArchived  = "archived"
)

// AllCampaignStatuses returns every valid campaign status.
func AllCampaignStatuses() []string {
	return []string{CampaignDraft, CampaignActive, CampaignPaused, CampaignCompleted, CampaignArchived}
}

// IsValidCampaignStatus reports whether s is a valid campaign status.
func IsValidCampaignStatus(s string) bool {
	return contains(AllCampaignStatuses(), s)
}

// Campaign objectives.
const (
	ObjectiveAwareness    = "awareness"
	ObjectiveTraffic      = "traffic"
	ObjectiveEngagement   = "engagement"
	ObjectiveLeads        = "leads"
	ObjectiveSales        = "sales"
	ObjectiveAppPromotion = "app_promotion"
)

// AllObjectives returns every valid campaign objective.
func AllObjectives() []string {
	return []string{
		ObjectiveAwareness,
		ObjectiveTraffic,
		ObjectiveEngagement,
		ObjectiveLeads,
		ObjectiveSales,
		ObjectiveAppPromotion,
	}
}

// IsValidObjective reports whether o is a valid campaign objective.
func IsValidObjective(o string) bool {
	return contains(AllObjectives(), o)
}

// Budget types.
const (
	BudgetDaily    = "daily"
	BudgetLifetime = "lifetime"
)

// Campaign is an advertising campaign owned by a user and run through one of
// their ad accounts.
type Campaign struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID      string             `bson:"user_id" json:"user_id"`
	AdAccountID string             `bson:"ad_account_id" json:"ad_account_id"`

	Name       string     `bson:"name" json:"name"`
	Platform   string     `bson:"platform" json:"platform"`
	Objective  string     `bson:"objective" json:"objective"`
	Budget     float64    `bson:"budget" json:"budget"`
	BudgetType string     `bson:"budget_type" json:"budget_type"`
	StartDate  *time.Time `bson:"start_date" json:"start_date"`
	EndDate    *time.Time `bson:"end_date" json:"end_date"`
	Status     string     `bson:"status" json:"status"`

	Targeting  map[string]any `bson:"targeting" json:"targeting"`
	AdCreative map[string]any `bson:"ad_creative" json:"ad_creative"`
	Metrics    Metrics        `bson:"metrics" json:"metrics"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Metrics holds delivery counters reported for a campaign.
type Metrics struct {
	Impressions int64   `bson:"impressions" json:"impressions"`
	Clicks      int64   `bson:"clicks" json:"clicks"`
	Conversions int64   `bson:"conversions" json:"conversions"`
	Spend       float64 `bson:"spend" json:"spend"`
	CTR         float64 `bson:"ctr" json:"ctr"`
	CPC         float64 `bson:"cpc" json:"cpc"`
}

// CampaignSummary aggregates a user's campaigns for the dashboard.
type CampaignSummary struct {
	TotalCampaigns   int64   `json:"total_campaigns"`
	ActiveCampaigns  int64   `json:"active_campaigns"`
	TotalSpend       float64 `json:"total_spend"`
	TotalImpressions int64   `json:"total_impressions"`
	TotalClicks      int64   `json:"total_clicks"`
	AverageCTR       float64 `json:"average_ctr"`
}
