// internal/app/store/campaigns/campaignstore.go
package campaignstore

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/ashishmicrocom/adPatterns/internal/app/store/storeutil"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/patch"
	"github.com/ashishmicrocom/adPatterns/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrAlreadyActive is returned by Publish when the campaign is already active.
var ErrAlreadyActive = errors.New("campaign is already active")

type Store struct {
	c   *mongo.Collection
	now func() time.Time
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:   db.Collection("campaigns"),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Filter narrows List. Empty fields do not filter.
type Filter struct {
	Status   string
	Platform string
}

// List returns a window of the owner's campaigns, newest first.
func (s *Store) List(ctx context.Context, userID string, f Filter, skip, limit int64) ([]models.Campaign, error) {
	q := bson.M{"user_id": userID}
	if f.Status != "" {
		q["status"] = f.Status
	}
	if f.Platform != "" {
		q["platform"] = f.Platform
	}

	cur, err := s.c.Find(ctx, q, storeutil.Window(skip, limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Campaign{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a campaign with zeroed metrics and fresh timestamps.
func (s *Store) Create(ctx context.Context, c models.Campaign) (models.Campaign, error) {
	c.ID = primitive.NewObjectID()
	if c.Status == "" {
		c.Status = models.CampaignDraft
	}
	if c.BudgetType == "" {
		c.BudgetType = models.BudgetDaily
	}
	c.Metrics = models.Metrics{}
	now := s.now()
	c.CreatedAt = now
	c.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.Campaign{}, err
	}
	return c, nil
}

// Get loads one campaign scoped to its owner.
func (s *Store) Get(ctx context.Context, userID string, id primitive.ObjectID) (*models.Campaign, error) {
	var c models.Campaign
	if err := s.c.FindOne(ctx, storeutil.Owned(userID, id)).Decode(&c); err != nil {
		return nil, storeutil.NotFound(err)
	}
	return &c, nil
}

// Update applies the supplied fields plus updated_at and returns the result.
func (s *Store) Update(ctx context.Context, userID string, id primitive.ObjectID, m *patch.Mask) (*models.Campaign, error) {
	set := append(m.SetDoc(), bson.E{Key: "updated_at", Value: s.now()})

	var c models.Campaign
	err := s.c.FindOneAndUpdate(ctx,
		storeutil.Owned(userID, id),
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&c)
	if err != nil {
		return nil, storeutil.NotFound(err)
	}
	return &c, nil
}

// Delete removes one campaign scoped to its owner.
func (s *Store) Delete(ctx context.Context, userID string, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, storeutil.Owned(userID, id))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return storeutil.ErrNotFound
	}
	return nil
}

// Publish moves a non-active campaign to active in one atomic update and
// sets start_date to now when it is missing. Returns ErrAlreadyActive when
// the campaign is already active and storeutil.ErrNotFound when it does not
// belong to userID.
func (s *Store) Publish(ctx context.Context, userID string, id primitive.ObjectID) (*models.Campaign, error) {
	now := s.now()
	filter := storeutil.Owned(userID, id)
	filter["status"] = bson.M{"$ne": models.CampaignActive}

	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "status", Value: models.CampaignActive},
			{Key: "updated_at", Value: now},
			{Key: "start_date", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$start_date", now}}}},
		}}},
	}

	var c models.Campaign
	err := s.c.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&c)
	if err == nil {
		return &c, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	// Nothing matched: either missing or already active.
	if _, getErr := s.Get(ctx, userID, id); getErr != nil {
		return nil, getErr
	}
	return nil, ErrAlreadyActive
}

// Summary aggregates the owner's campaigns for the dashboard.
// average_ctr is clicks/impressions*100 rounded to two decimals.
func (s *Store) Summary(ctx context.Context, userID string) (models.CampaignSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total_campaigns", Value: bson.M{"$sum": 1}},
			{Key: "active_campaigns", Value: bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$status", models.CampaignActive}}, 1, 0},
			}}},
			{Key: "total_spend", Value: bson.M{"$sum": "$metrics.spend"}},
			{Key: "total_impressions", Value: bson.M{"$sum": "$metrics.impressions"}},
			{Key: "total_clicks", Value: bson.M{"$sum": "$metrics.clicks"}},
		}}},
	}

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return models.CampaignSummary{}, err
	}
	defer cur.Close(ctx)

	var row struct {
		TotalCampaigns   int64   `bson:"total_campaigns"`
		ActiveCampaigns  int64   `bson:"active_campaigns"`
		TotalSpend       float64 `bson:"total_spend"`
		TotalImpressions int64   `bson:"total_impressions"`
		TotalClicks      int64   `bson:"total_clicks"`
	}
	if cur.Next(ctx) {
		if err := cur.Decode(&row); err != nil {
			return models.CampaignSummary{}, err
		}
	}
	if err := cur.Err(); err != nil {
		return models.CampaignSummary{}, err
	}

	return models.CampaignSummary{
		TotalCampaigns:   row.TotalCampaigns,
		ActiveCampaigns:  row.ActiveCampaigns,
		TotalSpend:       row.TotalSpend,
		TotalImpressions: row.TotalImpressions,
		TotalClicks:      row.TotalClicks,
		AverageCTR:       AverageCTR(row.TotalClicks, row.TotalImpressions),
	}, nil
}

// AverageCTR returns clicks/impressions as a percentage rounded to two
// decimals, or 0 when there are no impressions.
func AverageCTR(clicks, impressions int64) float64 {
	if impressions <= 0 {
		return 0
	}
	pct := float64(clicks) / float64(impressions) * 100
	return math.Round(pct*100) / 100
}
