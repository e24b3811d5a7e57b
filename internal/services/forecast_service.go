package services

import (
	"fmt"
	"sort"
	"time"

	"freshmarket/internal/ml"
	"freshmarket/internal/models"
	"freshmarket/internal/repositories"

	"gonum.org/v1/gonum/stat"
)

// ProductScore is one entry of the demand overview: a product and its
// mean predicted demand score.
type ProductScore struct {
	ProductName string  `json:"product_name"`
	MeanScore   float64 `json:"mean_score"`
}

// SeriesPoint is one dated prediction for a product.
type SeriesPoint struct {
	Date  time.Time `json:"date"`
	Score float64   `json:"score"`
}

// ForecastReport is the demand panel payload: the top movers and a
// per-product prediction time series.
type ForecastReport struct {
	Top    []ProductScore           `json:"top"`
	Series map[string][]SeriesPoint `json:"series"`
}

// ForecastService builds the per (product, date) feature table and
// scores it with the demand model.
type ForecastService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	model       ml.Regressor
}

// NewForecastService creates a new ForecastService.
func NewForecastService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, model ml.Regressor) *ForecastService {
	return &ForecastService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		model:       model,
	}
}

// demandRow is one (product, date) daily aggregate with its joined
// metadata and derived features.
type demandRow struct {
	productName string
	date        time.Time
	quantity    float64
	orderPrice  float64 // mean order-row price that day

	brand         string
	discountPrice float64
	category      string
	subCategory   string

	lag1, lag2, lag3 float64
	rollingMean3     float64
}

// Forecast aggregates order history, derives the feature matrix,
// standardizes it and scores every row, reporting the ten products
// with the highest mean predicted score.
func (s *ForecastService) Forecast() (*ForecastReport, error) {
	orders, err := s.orderRepo.GetAll()
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.GetAll()
	if err != nil {
		return nil, err
	}

	rows, err := s.aggregate(orders)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &ForecastReport{Series: map[string][]SeriesPoint{}}, nil
	}

	s.joinMetadata(rows, products)
	s.deriveLags(rows)

	matrix := s.featureMatrix(rows)
	standardize(matrix)

	report := &ForecastReport{Series: map[string][]SeriesPoint{}}
	scoreSum := map[string]float64{}
	scoreCount := map[string]int{}
	for i, row := range rows {
		score := s.model.PredictSingle(matrix[i])
		scoreSum[row.productName] += score
		scoreCount[row.productName]++
		report.Series[row.productName] = append(report.Series[row.productName], SeriesPoint{
			Date:  row.date,
			Score: score,
		})
	}

	for name, sum := range scoreSum {
		report.Top = append(report.Top, ProductScore{
			ProductName: name,
			MeanScore:   sum / float64(scoreCount[name]),
		})
	}
	sort.SliceStable(report.Top, func(i, j int) bool {
		if report.Top[i].MeanScore != report.Top[j].MeanScore {
			return report.Top[i].MeanScore > report.Top[j].MeanScore
		}
		return report.Top[i].ProductName < report.Top[j].ProductName
	})
	if len(report.Top) > 10 {
		report.Top = report.Top[:10]
	}
	return report, nil
}

// aggregate folds order lines into per (product, date) rows: summed
// quantity, mean price. Rows come out sorted by product then date so
// lag features can be computed in one pass.
func (s *ForecastService) aggregate(orders []models.Order) ([]*demandRow, error) {
	type key struct {
		product string
		date    time.Time
	}
	agg := map[key]*demandRow{}
	priceCount := map[key]int{}
	for _, o := range orders {
		date, err := o.ParseDate()
		if err != nil {
			return nil, fmt.Errorf("date format error in order %s: %w", o.OrderID, err)
		}
		k := key{product: o.ProductName, date: date}
		row, ok := agg[k]
		if !ok {
			row = &demandRow{productName: o.ProductName, date: date}
			agg[k] = row
		}
		row.quantity += float64(o.Quantity)
		row.orderPrice += o.Price
		priceCount[k]++
	}

	rows := make([]*demandRow, 0, len(agg))
	for k, row := range agg {
		row.orderPrice /= float64(priceCount[k])
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].productName != rows[j].productName {
			return rows[i].productName < rows[j].productName
		}
		return rows[i].date.Before(rows[j].date)
	})
	return rows, nil
}

// joinMetadata left-joins catalog metadata onto the demand rows. Orders
// referencing products no longer in the catalog keep zero-valued
// fields rather than poisoning the model input.
func (s *ForecastService) joinMetadata(rows []*demandRow, products []models.Product) {
	byName := map[string]models.Product{}
	for _, p := range products {
		if _, ok := byName[p.ProductName]; !ok {
			byName[p.ProductName] = p
		}
	}
	for _, row := range rows {
		p, ok := byName[row.productName]
		if !ok {
			continue
		}
		row.brand = p.Brand
		row.discountPrice = p.DiscountPrice
		row.category = p.Category
		row.subCategory = p.SubCategory
	}
}

// deriveLags fills lag-1/2/3 quantities and the trailing 3-period
// rolling mean (current period excluded) within each product group.
// Rows must already be sorted by product then date. Missing history
// defaults to zero.
func (s *ForecastService) deriveLags(rows []*demandRow) {
	start := 0
	for i := 1; i <= len(rows); i++ {
		if i == len(rows) || rows[i].productName != rows[start].productName {
			group := rows[start:i]
			for j, row := range group {
				if j >= 1 {
					row.lag1 = group[j-1].quantity
				}
				if j >= 2 {
					row.lag2 = group[j-2].quantity
				}
				if j >= 3 {
					row.lag3 = group[j-3].quantity
					row.rollingMean3 = (group[j-1].quantity + group[j-2].quantity + group[j-3].quantity) / 3
				}
			}
			start = i
		}
	}
}

// featureMatrix builds the 14-column matrix the demand model was
// trained on. Categorical columns are label-encoded fresh per run, ids
// assigned over the sorted distinct values.
func (s *ForecastService) featureMatrix(rows []*demandRow) [][]float64 {
	productEnc := fitEncoding(rows, func(r *demandRow) string { return r.productName })
	brandEnc := fitEncoding(rows, func(r *demandRow) string { return r.brand })
	categoryEnc := fitEncoding(rows, func(r *demandRow) string { return r.category })
	subCategoryEnc := fitEncoding(rows, func(r *demandRow) string { return r.subCategory })

	matrix := make([][]float64, len(rows))
	for i, r := range rows {
		matrix[i] = []float64{
			float64(productEnc[r.productName]),
			float64(brandEnc[r.brand]),
			r.orderPrice,
			r.discountPrice,
			float64(categoryEnc[r.category]),
			float64(subCategoryEnc[r.subCategory]),
			float64(r.date.Day()),
			float64(int(r.date.Month())),
			r.orderPrice - r.discountPrice,
			r.orderPrice * r.discountPrice,
			r.lag1,
			r.lag2,
			r.lag3,
			r.rollingMean3,
		}
	}
	return matrix
}

func fitEncoding(rows []*demandRow, value func(*demandRow) string) map[string]int {
	seen := map[string]bool{}
	var values []string
	for _, r := range rows {
		v := value(r)
		if !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
	}
	sort.Strings(values)
	enc := make(map[string]int, len(values))
	for i, v := range values {
		enc[v] = i
	}
	return enc
}

// standardize centers and scales each column in place. Constant
// columns scale to zero instead of dividing by zero.
func standardize(matrix [][]float64) {
	if len(matrix) == 0 {
		return
	}
	cols := len(matrix[0])
	column := make([]float64, len(matrix))
	for c := 0; c < cols; c++ {
		for r := range matrix {
			column[r] = matrix[r][c]
		}
		mean := stat.Mean(column, nil)
		std := stat.PopStdDev(column, nil)
		for r := range matrix {
			if std == 0 {
				matrix[r][c] = 0
				continue
			}
			matrix[r][c] = (matrix[r][c] - mean) / std
		}
	}
}
