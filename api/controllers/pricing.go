package controllers

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/repairshop-backend/api/responses"
	"github.com/angelmondragon/repairshop-backend/api/validators"
	"github.com/angelmondragon/repairshop-backend/internal/pricing"
	pkgerrors "github.com/angelmondragon/repairshop-backend/pkg/errors"
	"github.com/angelmondragon/repairshop-backend/pkg/logger"
)

type quoteRequest struct {
	ModelID idRef                  `json:"modelId" validate:"required"`
	Repairs []bookingRepairRequest `json:"repairs" validate:"required,min=1,dive"`
}

func (q quoteRequest) toInput() (pricing.PreviewInput, error) {
	modelID, err := uuid.Parse(q.ModelID.String())
	if err != nil {
		return pricing.PreviewInput{}, pkgerrors.Validation("modelId", "must be a valid uuid")
	}
	input := pricing.PreviewInput{ModelID: modelID, Selections: make([]pricing.Selection, 0, len(q.Repairs))}
	details := map[string]string{}
	for i, repair := range q.Repairs {
		id, err := uuid.Parse(repair.RepairID.String())
		if err != nil {
			details[fmt.Sprintf("repairs[%d].repairId", i)] = "must be a valid uuid"
			continue
		}
		input.Selections = append(input.Selections, pricing.Selection{RepairID: id, QualityTierID: repair.qualityID()})
	}
	if len(details) > 0 {
		return pricing.PreviewInput{}, pkgerrors.Invalid("invalid quote request", details)
	}
	return input, nil
}

type quoteLine struct {
	RepairID    uuid.UUID       `json:"repairId"`
	RepairName  string          `json:"repairName"`
	Duration    string          `json:"duration,omitempty"`
	Price       decimal.Decimal `json:"price"`
	PartQuality *partQuality    `json:"partQuality,omitempty"`
}

type partQuality struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type quoteResponse struct {
	Lines            []quoteLine     `json:"lines"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	Discount         decimal.Decimal `json:"discount"`
	DiscountRuleName string          `json:"discountRuleName,omitempty"`
	Tax              decimal.Decimal `json:"tax"`
	TaxPercentage    decimal.Decimal `json:"taxPercentage"`
	Total            decimal.Decimal `json:"total"`
}

func toQuoteResponse(b *pricing.Breakdown) quoteResponse {
	resp := quoteResponse{
		Lines:            make([]quoteLine, 0, len(b.Lines)),
		Subtotal:         b.Subtotal,
		Discount:         b.Discount,
		DiscountRuleName: b.DiscountRuleName,
		Tax:              b.Tax,
		TaxPercentage:    b.TaxPercentage,
		Total:            b.Total,
	}
	for _, line := range b.Lines {
		out := quoteLine{
			RepairID:   line.RepairID,
			RepairName: line.Name,
			Duration:   line.Duration,
			Price:      line.UnitPrice,
		}
		if line.QualityTierID != "" {
			out.PartQuality = &partQuality{ID: line.QualityTierID, Name: line.QualityTierName}
		}
		resp.Lines = append(resp.Lines, out)
	}
	return resp
}

// PricingQuote previews the price breakdown for a selection without
// persisting anything.
func PricingQuote(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}

		var payload quoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		breakdown, err := svc.Preview(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toQuoteResponse(breakdown))
	}
}
