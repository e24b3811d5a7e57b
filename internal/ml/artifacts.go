// Package ml loads the pretrained inference artifacts and exposes them
// as opaque scorers. Artifacts are read once per process lifetime and
// memoized; training is out of scope.
package ml

import (
	"fmt"
	"sync"

	"github.com/dmitryikh/leaves"
)

// Regressor scores one feature vector. Both the purchase-quantity
// recommender and the demand forecaster satisfy it.
type Regressor interface {
	PredictSingle(features []float64) float64
}

type leavesRegressor struct {
	ensemble *leaves.Ensemble
}

func (r *leavesRegressor) PredictSingle(features []float64) float64 {
	// 0 estimators means "use all trees in the ensemble".
	return r.ensemble.PredictSingle(features, 0)
}

// Artifacts bundles the three pretrained artifacts the panels need.
type Artifacts struct {
	Recommender Regressor
	Demand      Regressor
	Encoder     *ProductEncoder
}

var (
	loadOnce sync.Once
	loaded   *Artifacts
	loadErr  error
)

// Load reads the recommender model (XGBoost format), the demand model
// (LightGBM format) and the product label encoder. Subsequent calls
// return the memoized result regardless of the paths passed.
func Load(recommenderPath, demandPath, encoderPath string) (*Artifacts, error) {
	loadOnce.Do(func() {
		loaded, loadErr = loadArtifacts(recommenderPath, demandPath, encoderPath)
	})
	return loaded, loadErr
}

func loadArtifacts(recommenderPath, demandPath, encoderPath string) (*Artifacts, error) {
	rec, err := leaves.XGEnsembleFromFile(recommenderPath, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load recommender model %s: %w", recommenderPath, err)
	}

	demand, err := leaves.LGEnsembleFromFile(demandPath, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load demand model %s: %w", demandPath, err)
	}

	encoder, err := LoadProductEncoder(encoderPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load product encoder %s: %w", encoderPath, err)
	}

	return &Artifacts{
		Recommender: &leavesRegressor{ensemble: rec},
		Demand:      &leavesRegressor{ensemble: demand},
		Encoder:     encoder,
	}, nil
}
