// Package preprocess implements the column-wise preprocessing transform:
// median imputation and standardization for numeric columns, most-frequent
// imputation and drop-first one-hot encoding for the categorical column,
// and passthrough for the boolean flag.
//
// All statistics are frozen at Fit time from training data only. Transform
// never refits, which is what prevents inference-time data leakage.
package preprocess

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"fraudlab/internal/domain"
)

// Transformer errors
var (
	// ErrNotFitted is returned when Transform or OutputFeatureNames is
	// called before Fit.
	ErrNotFitted = errors.New("column transformer not fitted")

	// ErrEmptyFit is returned when Fit is called with no records.
	ErrEmptyFit = errors.New("cannot fit column transformer on empty dataset")
)

// ColumnTransformer is the fitted preprocessing transform. Fields are
// exported so a fitted transformer serializes as part of the artifact blob.
type ColumnTransformer struct {
	Config domain.FeatureConfig
	Fitted bool

	// Numeric statistics, aligned with Config.NumericFeatures.
	Medians []float64
	Means   []float64
	Stds    []float64 // 1 for zero-variance columns

	// Categorical vocabulary, sorted lexicographically. The first entry is
	// the dropped reference category.
	Vocabulary   []string
	MostFrequent string
}

// NewColumnTransformer creates an unfitted transformer for the given
// feature configuration.
func NewColumnTransformer(cfg domain.FeatureConfig) *ColumnTransformer {
	return &ColumnTransformer{Config: cfg}
}

// Fit computes imputation and scaling statistics for the numeric columns
// and the category vocabulary from the training records.
func (t *ColumnTransformer) Fit(records []domain.FeatureRecord) error {
	if len(records) == 0 {
		return ErrEmptyFit
	}

	nNum := len(t.Config.NumericFeatures)
	t.Medians = make([]float64, nNum)
	t.Means = make([]float64, nNum)
	t.Stds = make([]float64, nNum)

	for j, name := range t.Config.NumericFeatures {
		values := make([]float64, 0, len(records))
		for i := range records {
			v, ok := records[i].NumericValue(name)
			if !ok {
				return fmt.Errorf("unknown numeric feature %q", name)
			}
			if !math.IsNaN(v) {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			return fmt.Errorf("numeric feature %q has no observed values", name)
		}

		sort.Float64s(values)
		t.Medians[j] = median(values)

		// Scaling statistics are computed post-imputation, matching the
		// imputer -> scaler composition order.
		imputed := make([]float64, len(records))
		for i := range records {
			v, _ := records[i].NumericValue(name)
			if math.IsNaN(v) {
				v = t.Medians[j]
			}
			imputed[i] = v
		}
		t.Means[j] = stat.Mean(imputed, nil)
		t.Stds[j] = stat.PopStdDev(imputed, nil)
		if t.Stds[j] == 0 {
			t.Stds[j] = 1 // zero-variance column passes through unscaled
		}
	}

	if err := t.fitCategorical(records); err != nil {
		return err
	}

	t.Fitted = true
	return nil
}

// fitCategorical builds the category vocabulary and most-frequent value
// for the single categorical column.
func (t *ColumnTransformer) fitCategorical(records []domain.FeatureRecord) error {
	for _, name := range t.Config.CategoricalFeatures {
		counts := make(map[string]int)
		for i := range records {
			v, ok := records[i].CategoricalValue(name)
			if !ok {
				return fmt.Errorf("unknown categorical feature %q", name)
			}
			if v != "" {
				counts[v]++
			}
		}
		if len(counts) == 0 {
			return fmt.Errorf("categorical feature %q has no observed values", name)
		}

		vocab := make([]string, 0, len(counts))
		for v := range counts {
			vocab = append(vocab, v)
		}
		sort.Strings(vocab)
		t.Vocabulary = vocab

		// Most frequent category; ties break to the lexicographically
		// smallest, which the sorted iteration gives us.
		best := vocab[0]
		for _, v := range vocab {
			if counts[v] > counts[best] {
				best = v
			}
		}
		t.MostFrequent = best
	}
	return nil
}

// Transform maps feature records to the dense design matrix. Column order:
// numeric columns, one-hot columns (vocabulary minus the dropped first
// category), boolean flags. Unknown categories encode as all zeros.
func (t *ColumnTransformer) Transform(records []domain.FeatureRecord) ([][]float64, error) {
	if !t.Fitted {
		return nil, ErrNotFitted
	}

	nNum := len(t.Config.NumericFeatures)
	nCat := len(t.Vocabulary) - 1
	nBool := len(t.Config.BooleanFeatures)
	width := nNum + nCat + nBool

	X := make([][]float64, len(records))
	for i := range records {
		row := make([]float64, width)

		for j, name := range t.Config.NumericFeatures {
			v, _ := records[i].NumericValue(name)
			if math.IsNaN(v) {
				v = t.Medians[j]
			}
			row[j] = (v - t.Means[j]) / t.Stds[j]
		}

		for _, name := range t.Config.CategoricalFeatures {
			v, _ := records[i].CategoricalValue(name)
			if v == "" {
				v = t.MostFrequent
			}
			if idx := t.vocabIndex(v); idx > 0 {
				row[nNum+idx-1] = 1
			}
		}

		for j, name := range t.Config.BooleanFeatures {
			v, _ := records[i].BooleanValue(name)
			row[nNum+nCat+j] = v
		}

		X[i] = row
	}
	return X, nil
}

// OutputFeatureNames reconstructs the post-encoding feature name list:
// static numeric names, one-hot names derived from the fitted vocabulary,
// then boolean names. Only valid after Fit, since the one-hot names are
// not known until the vocabulary exists.
func (t *ColumnTransformer) OutputFeatureNames() ([]string, error) {
	if !t.Fitted {
		return nil, ErrNotFitted
	}

	names := make([]string, 0, len(t.Config.NumericFeatures)+len(t.Vocabulary)-1+len(t.Config.BooleanFeatures))
	names = append(names, t.Config.NumericFeatures...)
	for _, cat := range t.Vocabulary[1:] {
		names = append(names, t.Config.CategoricalFeatures[0]+"_"+cat)
	}
	names = append(names, t.Config.BooleanFeatures...)
	return names, nil
}

// median returns the median of a sorted slice, averaging the two middle
// values for even lengths.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// vocabIndex returns the index of category v in the fitted vocabulary, or
// -1 when the category was never seen at fit time.
func (t *ColumnTransformer) vocabIndex(v string) int {
	for i, cat := range t.Vocabulary {
		if cat == v {
			return i
		}
	}
	return -1
}
