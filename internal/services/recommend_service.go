package services

import (
	"sort"
	"time"

	"freshmarket/internal/ml"
	"freshmarket/internal/models"
	"freshmarket/internal/repositories"
)

// Recommendation is one ranked product suggestion.
type Recommendation struct {
	ProductName       string  `json:"product_name"`
	ImageURL          string  `json:"image_url"`
	PredictedQuantity float64 `json:"predicted_quantity"`
}

// RecommendService ranks the catalog for a customer by the purchase
// quantity the regression model predicts for them.
type RecommendService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	model       ml.Regressor
	encoder     *ml.ProductEncoder
}

// NewRecommendService creates a new RecommendService.
func NewRecommendService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, model ml.Regressor, encoder *ml.ProductEncoder) *RecommendService {
	return &RecommendService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		model:       model,
		encoder:     encoder,
	}
}

// customerFeatures are the scalar features derived from one customer's
// whole order history.
type customerFeatures struct {
	totalOrders       int
	avgQuantity       float64
	mostBoughtProduct int
}

// TopPicks returns up to 10 catalog products ranked by predicted
// purchase quantity for the customer, calendar features held at now. A
// customer with no order history gets an empty result, not an error.
func (s *RecommendService) TopPicks(customerID string, now time.Time) ([]Recommendation, error) {
	orders, err := s.orderRepo.GetByCustomer(customerID)
	if err != nil {
		return nil, err
	}

	features, ok := s.deriveFeatures(orders)
	if !ok {
		return nil, nil
	}

	products, err := s.productRepo.GetAll()
	if err != nil {
		return nil, err
	}

	month := float64(now.Month())
	// The models were trained with Monday=0 weekdays.
	dayOfWeek := float64((int(now.Weekday()) + 6) % 7)

	type scored struct {
		Recommendation
		productID int
	}
	var ranked []scored
	seen := map[string]bool{}
	for _, p := range products {
		if seen[p.ProductName] {
			continue
		}
		seen[p.ProductName] = true
		id, known := s.encoder.Transform(p.ProductName)
		if !known {
			// The encoder never saw this product at training time.
			continue
		}
		predicted := s.model.PredictSingle([]float64{
			float64(id),
			month,
			dayOfWeek,
			float64(features.totalOrders),
			features.avgQuantity,
			float64(features.mostBoughtProduct),
		})
		ranked = append(ranked, scored{
			Recommendation: Recommendation{
				ProductName:       p.ProductName,
				ImageURL:          p.ImageURL,
				PredictedQuantity: predicted,
			},
			productID: id,
		})
	}

	// Descending by prediction; equal scores break on the lower product
	// id so the ranking is reproducible.
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].PredictedQuantity != ranked[j].PredictedQuantity {
			return ranked[i].PredictedQuantity > ranked[j].PredictedQuantity
		}
		return ranked[i].productID < ranked[j].productID
	})
	if len(ranked) > 10 {
		ranked = ranked[:10]
	}

	recs := make([]Recommendation, 0, len(ranked))
	for _, r := range ranked {
		recs = append(recs, r.Recommendation)
	}
	return recs, nil
}

// deriveFeatures folds the order rows into the model's customer scalars:
// distinct order count, mean per-row quantity, and the modal encoded
// product id with ties broken toward the lowest id.
func (s *RecommendService) deriveFeatures(orders []models.Order) (customerFeatures, bool) {
	if len(orders) == 0 {
		return customerFeatures{}, false
	}

	orderIDs := map[string]bool{}
	productCounts := map[int]int{}
	quantitySum := 0
	rows := 0
	for _, o := range orders {
		id, known := s.encoder.Transform(o.ProductName)
		if !known {
			continue
		}
		orderIDs[o.OrderID] = true
		productCounts[id]++
		quantitySum += o.Quantity
		rows++
	}
	if rows == 0 {
		return customerFeatures{}, false
	}

	mostBought, bestCount := 0, -1
	ids := make([]int, 0, len(productCounts))
	for id := range productCounts {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if productCounts[id] > bestCount {
			mostBought, bestCount = id, productCounts[id]
		}
	}

	return customerFeatures{
		totalOrders:       len(orderIDs),
		avgQuantity:       float64(quantitySum) / float64(rows),
		mostBoughtProduct: mostBought,
	}, true
}
