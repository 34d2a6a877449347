package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nordsol/leadportal_backend/config"
	"github.com/nordsol/leadportal_backend/models"
)

// ErrVersionConflict is returned when a commission persist races another
// write on the same deal. Callers reload the deal and retry.
var ErrVersionConflict = errors.New("deal was modified concurrently")

// ErrCreditWindowClosed is returned when a credit-back arrives after the
// share's window has expired.
var ErrCreditWindowClosed = errors.New("credit window has expired")

// ErrAlreadyCredited is returned when a company tries to credit back the
// same deal twice.
var ErrAlreadyCredited = errors.New("company has already credited back this deal")

type DealRepository struct {
	deals       *mongo.Collection
	shares      *mongo.Collection
	commissions *mongo.Collection
}

func NewDealRepository(db *mongo.Client) *DealRepository {
	return &DealRepository{
		deals:       config.GetCollection(db, "deals"),
		shares:      config.GetCollection(db, "leadShares"),
		commissions: config.GetCollection(db, "commissions"),
	}
}

// GetByDealID loads a deal by its CRM deal id.
func (r *DealRepository) GetByDealID(ctx context.Context, dealID int) (*models.Deal, error) {
	var deal models.Deal
	err := r.deals.FindOne(ctx, bson.M{"dealId": dealID}).Decode(&deal)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("deal %d not found", dealID)
		}
		return nil, err
	}
	return &deal, nil
}

// Upsert inserts or refreshes a deal synced from the CRM. Commission
// fields are never touched here; the CRM does not own those. The stored
// credited state is re-applied onto the incoming assignments before the
// write, and the version is bumped so a racing recalculation fails its
// version check and re-reads.
func (r *DealRepository) Upsert(ctx context.Context, deal *models.Deal) error {
	now := time.Now()

	var existing models.Deal
	err := r.deals.FindOne(ctx, bson.M{"dealId": deal.DealID}).Decode(&existing)
	if err != nil && err != mongo.ErrNoDocuments {
		return err
	}
	if err == nil {
		existing.RestoreCreditedState(deal.Companies)
	}

	update := bson.M{
		"$set": bson.M{
			"title":         deal.Title,
			"contactPerson": deal.ContactPerson,
			"openerName":    deal.OpenerName,
			"stage":         deal.Stage,
			"companies":     deal.Companies,
			"updatedAt":     now,
		},
		"$setOnInsert": bson.M{
			"dealId":        deal.DealID,
			"adminApproval": models.ApprovalPending,
			"createdAt":     deal.CreatedAt,
		},
		"$inc": bson.M{"version": int64(1)},
	}
	opts := options.Update().SetUpsert(true)
	_, err = r.deals.UpdateOne(ctx, bson.M{"dealId": deal.DealID}, update, opts)
	return err
}

// Find returns all deals matching the filter, newest first.
func (r *DealRepository) Find(ctx context.Context, filter bson.M) ([]models.Deal, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.deals.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var deals []models.Deal
	if err := cursor.All(ctx, &deals); err != nil {
		return nil, err
	}
	return deals, nil
}

// FindInRange returns deals created in [start, end), newest first.
func (r *DealRepository) FindInRange(ctx context.Context, start, end time.Time) ([]models.Deal, error) {
	return r.Find(ctx, bson.M{
		"createdAt": bson.M{"$gte": start, "$lt": end},
	})
}

// SaveCommissionResult persists a calculated breakdown onto the deal.
// The version check makes the recompute-and-persist a single logical
// write: if another writer (a credit-back flip, another recalculation)
// got in between, nothing is written and ErrVersionConflict is returned.
func (r *DealRepository) SaveCommissionResult(ctx context.Context, dealID int, version int64, breakdown models.CommissionBreakdown) error {
	result, err := r.deals.UpdateOne(ctx,
		bson.M{"dealId": dealID, "version": version},
		bson.M{
			"$set": bson.M{
				"totalCommission": breakdown.Total,
				"baseBonus":       breakdown.BaseBonus,
				"updatedAt":       time.Now(),
			},
			"$inc": bson.M{"version": int64(1)},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrVersionConflict
	}
	return nil
}

// SetApproval updates the admin approval state of a deal.
func (r *DealRepository) SetApproval(ctx context.Context, dealID int, approval string) error {
	result, err := r.deals.UpdateOne(ctx,
		bson.M{"dealId": dealID},
		bson.M{
			"$set": bson.M{"adminApproval": approval, "updatedAt": time.Now()},
			"$inc": bson.M{"version": int64(1)},
		},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("deal %d not found", dealID)
	}
	return nil
}

// CreateLeadShares records handing a deal's contact details to the named
// companies and creates the matching commission line items. The credit
// window expiry is stamped here, once, and never recomputed.
func (r *DealRepository) CreateLeadShares(ctx context.Context, deal *models.Deal, companyNames []string, sharedAt time.Time) ([]models.LeadShare, error) {
	if len(companyNames) > models.MaxCompaniesPerLead {
		return nil, fmt.Errorf("a deal can be shared with at most %d companies", models.MaxCompaniesPerLead)
	}

	expires := models.CreditWindowExpiry(sharedAt)
	shares := make([]models.LeadShare, 0, len(companyNames))
	shareDocs := make([]interface{}, 0, len(companyNames))
	commissionDocs := make([]interface{}, 0, len(companyNames))

	for _, name := range companyNames {
		leadType := ""
		for _, a := range deal.Companies {
			if a.CompanyName == name {
				leadType = a.LeadType
				break
			}
		}
		if leadType == "" {
			return nil, fmt.Errorf("company %q is not assigned to deal %d", name, deal.DealID)
		}

		amount := models.OffertCommission
		if leadType == models.LeadTypePlatsbesok {
			amount = models.PlatsbesokCommission
		}

		share := models.LeadShare{
			DealID:              deal.DealID,
			CompanyName:         name,
			SharedAt:            sharedAt,
			CreditWindowExpires: expires,
			CreatedAt:           time.Now(),
		}
		shares = append(shares, share)
		shareDocs = append(shareDocs, share)
		commissionDocs = append(commissionDocs, models.Commission{
			DealID:      deal.DealID,
			CompanyName: name,
			LeadType:    leadType,
			Amount:      amount,
			CreatedAt:   time.Now(),
		})
	}

	if _, err := r.shares.InsertMany(ctx, shareDocs); err != nil {
		return nil, fmt.Errorf("failed to insert lead shares: %w", err)
	}
	if _, err := r.commissions.InsertMany(ctx, commissionDocs); err != nil {
		return nil, fmt.Errorf("failed to insert commission items: %w", err)
	}

	return shares, nil
}

// MarkCreditedBack flips the credited flag for one company on one deal.
// Only allowed while the share's credit window is still open; flipping
// twice is a conflict. The deal document's assignment slot and
// creditedCompanies list are updated in the same call, with a version
// bump so a racing recalculation does not lose the flip.
func (r *DealRepository) MarkCreditedBack(ctx context.Context, dealID int, companyName string, now time.Time) error {
	var share models.LeadShare
	err := r.shares.FindOne(ctx, bson.M{"dealId": dealID, "companyName": companyName}).Decode(&share)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return fmt.Errorf("no lead share found for deal %d and company %q", dealID, companyName)
		}
		return err
	}

	if !now.Before(share.CreditWindowExpires) {
		return ErrCreditWindowClosed
	}

	result, err := r.commissions.UpdateOne(ctx,
		bson.M{"dealId": dealID, "companyName": companyName, "creditedBack": false},
		bson.M{"$set": bson.M{"creditedBack": true, "creditedAt": now}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrAlreadyCredited
	}

	dealResult, err := r.deals.UpdateOne(ctx,
		bson.M{"dealId": dealID, "companies.companyName": companyName},
		bson.M{
			"$set":      bson.M{"companies.$.credited": true, "updatedAt": now},
			"$addToSet": bson.M{"creditedCompanies": companyName},
			"$inc":      bson.M{"version": int64(1)},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to flag credited company on deal %d: %w", dealID, err)
	}
	if dealResult.MatchedCount == 0 {
		// A share exists but the deal has no matching slot. The commission
		// item was already flipped, so this must not pass silently.
		return fmt.Errorf("deal %d has no assignment slot for company %q; commission item flipped but deal not updated", dealID, companyName)
	}

	return nil
}

// ActiveShares returns all lead shares, optionally limited to those whose
// credit window is still open at now.
func (r *DealRepository) ActiveShares(ctx context.Context, now time.Time, includeExpired bool) ([]models.LeadShare, error) {
	filter := bson.M{}
	if !includeExpired {
		filter["creditWindowExpires"] = bson.M{"$gt": now}
	}
	cursor, err := r.shares.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var shares []models.LeadShare
	if err := cursor.All(ctx, &shares); err != nil {
		return nil, err
	}
	return shares, nil
}

// CommissionsForDeal returns all persisted commission line items for a
// deal.
func (r *DealRepository) CommissionsForDeal(ctx context.Context, dealID int) ([]models.Commission, error) {
	cursor, err := r.commissions.Find(ctx, bson.M{"dealId": dealID})
	if err != nil {
		return nil, err
	}
	var items []models.Commission
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}
