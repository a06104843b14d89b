package service

import (
	"strings"

	"github.com/mmynk/tabout/internal/calculator"
	"github.com/mmynk/tabout/internal/models"
	"github.com/mmynk/tabout/pkg/api"
)

// feeOptions resolves a request's fees, expanding a named preset.
func feeOptions(f api.Fees) (calculator.FeeOptions, error) {
	if name := strings.TrimSpace(f.Preset); name != "" {
		opts, ok := calculator.Preset(name)
		if !ok {
			return calculator.FeeOptions{}, invalidArgument("unknown fee preset %q", name)
		}
		if f.HasService || f.HasTax || !f.ServicePercentage.IsZero() || !f.TaxPercentage.IsZero() {
			return calculator.FeeOptions{}, invalidArgument("fee preset %q sets service and tax itself", name)
		}
		if !opts.HasDeliveryFee && (f.HasDeliveryFee || !f.DeliveryFee.IsZero()) {
			return calculator.FeeOptions{}, invalidArgument("fee preset %q has no delivery fee", name)
		}
		opts.DeliveryFee = f.DeliveryFee
		return opts, nil
	}

	return calculator.FeeOptions{
		HasService:        f.HasService,
		ServicePercentage: f.ServicePercentage,
		HasTax:            f.HasTax,
		TaxPercentage:     f.TaxPercentage,
		HasDeliveryFee:    f.HasDeliveryFee,
		DeliveryFee:       f.DeliveryFee,
		AllocationMethod:  calculator.AllocationMethod(f.AllocationMethod),
	}, nil
}

func calculatorItems(items []api.Item) []calculator.Item {
	out := make([]calculator.Item, len(items))
	for i, item := range items {
		out[i] = calculator.Item{
			ID:      item.ID,
			Name:    strings.TrimSpace(item.Name),
			Price:   item.Price,
			OwnerID: item.OwnerID,
		}
	}
	return out
}

func toBreakdown(r *calculator.SplitResult) api.Breakdown {
	shares := make([]api.Share, len(r.Participants))
	for i, p := range r.Participants {
		shares[i] = api.Share{
			ParticipantID: p.ParticipantID,
			ItemSubtotal:  p.ItemSubtotal,
			ServiceShare:  p.ServiceShare,
			TaxShare:      p.TaxShare,
			DeliveryShare: p.DeliveryShare,
			TotalAmount:   p.TotalAmount,
		}
	}
	return api.Breakdown{
		SplitType:      string(r.SplitType),
		Subtotal:       r.Subtotal,
		ServiceAmount:  r.ServiceAmount,
		TaxAmount:      r.TaxAmount,
		DeliveryAmount: r.DeliveryAmount,
		TotalAmount:    r.TotalAmount,
		Shares:         shares,
	}
}

func toAPIParticipant(p models.Participant, names map[string]*models.User) api.Participant {
	out := api.Participant{
		UserID:        p.UserID,
		ItemSubtotal:  p.ItemSubtotal,
		ServiceShare:  p.ServiceShare,
		TaxShare:      p.TaxShare,
		DeliveryShare: p.DeliveryShare,
		TotalAmount:   p.TotalAmount,
		AmountPaid:    p.AmountPaid,
		Status:        string(p.Status),
		Version:       p.Version,
	}
	if u, ok := names[p.UserID]; ok {
		out.DisplayName = u.DisplayName
	}
	return out
}

func toAPISplit(s *models.Split, names map[string]*models.User) api.Split {
	out := api.Split{
		ID:          s.ID,
		Description: s.Description,
		Currency:    s.Currency,
		SplitType:   s.SplitType,
		Fees: api.Fees{
			HasService:        s.HasService,
			ServicePercentage: s.ServicePercentage,
			HasTax:            s.HasTax,
			TaxPercentage:     s.TaxPercentage,
			HasDeliveryFee:    s.HasDeliveryFee,
			DeliveryFee:       s.DeliveryFee,
			AllocationMethod:  s.AllocationMethod,
		},
		Subtotal:       s.Subtotal,
		ServiceAmount:  s.ServiceAmount,
		TaxAmount:      s.TaxAmount,
		DeliveryAmount: s.DeliveryFee,
		TotalAmount:    s.TotalAmount,
		CreatedBy:      s.CreatedBy,
		PaidBy:         s.PaidBy,
		Settled:        s.Settled,
		CreatedAt:      s.CreatedAt,
		Participants:   make([]api.Participant, len(s.Participants)),
	}
	for _, item := range s.Items {
		out.Items = append(out.Items, api.Item{ID: item.ID, Name: item.Name, Price: item.Price, OwnerID: item.OrderedBy})
	}
	for i, p := range s.Participants {
		out.Participants[i] = toAPIParticipant(p, names)
	}
	return out
}

func toAPISummary(sum models.SplitSummary) api.SplitSummary {
	return api.SplitSummary{
		ID:          sum.Split.ID,
		Description: sum.Split.Description,
		Currency:    sum.Split.Currency,
		SplitType:   sum.Split.SplitType,
		TotalAmount: sum.Split.TotalAmount,
		PaidBy:      sum.Split.PaidBy,
		Settled:     sum.Split.Settled,
		CreatedAt:   sum.Split.CreatedAt,
		Mine:        toAPIParticipant(sum.Mine, nil),
	}
}

func toAPIUser(u *models.User) api.User {
	return api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Currency:    u.Currency,
		Language:    u.Language,
		CreatedAt:   u.CreatedAt,
	}
}
