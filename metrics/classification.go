// Package metrics implements classification metrics used to evaluate search
// candidates.
package metrics

import (
	"gonum.org/v1/gonum/mat"

	scierr "github.com/parsearch/parsearch/pkg/errors"
)

func checkLabels(yTrue, yPred mat.Matrix, op string) (int, error) {
	rTrue, cTrue := yTrue.Dims()
	rPred, cPred := yPred.Dims()
	if rTrue == 0 {
		return 0, scierr.NewValueError(op, "empty label vector")
	}
	if rTrue != rPred {
		return 0, scierr.NewDimensionError(op, rTrue, rPred, 0)
	}
	if cTrue != 1 || cPred != 1 {
		return 0, scierr.NewValueError(op, "labels must be column vectors")
	}
	return rTrue, nil
}

// AccuracyScore returns the fraction of exactly matching labels.
func AccuracyScore(yTrue, yPred mat.Matrix) (float64, error) {
	n, err := checkLabels(yTrue, yPred, "AccuracyScore")
	if err != nil {
		return 0, err
	}

	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.At(i, 0) == yPred.At(i, 0) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// labelSet returns the sorted union of labels present in either vector.
func labelSet(yTrue, yPred mat.Matrix) []int {
	n, _ := yTrue.Dims()
	seen := make(map[int]bool)
	for i := 0; i < n; i++ {
		seen[int(yTrue.At(i, 0))] = true
		seen[int(yPred.At(i, 0))] = true
	}
	labels := make([]int, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	for i := 1; i < len(labels); i++ {
		for j := i; j > 0 && labels[j-1] > labels[j]; j-- {
			labels[j-1], labels[j] = labels[j], labels[j-1]
		}
	}
	return labels
}

// ConfusionMatrix returns counts[i][j] = samples of true label labels[i]
// predicted as labels[j], together with the sorted labels.
func ConfusionMatrix(yTrue, yPred mat.Matrix) ([][]int, []int, error) {
	n, err := checkLabels(yTrue, yPred, "ConfusionMatrix")
	if err != nil {
		return nil, nil, err
	}

	labels := labelSet(yTrue, yPred)
	index := make(map[int]int, len(labels))
	for i, label := range labels {
		index[label] = i
	}

	counts := make([][]int, len(labels))
	for i := range counts {
		counts[i] = make([]int, len(labels))
	}
	for i := 0; i < n; i++ {
		counts[index[int(yTrue.At(i, 0))]][index[int(yPred.At(i, 0))]]++
	}
	return counts, labels, nil
}

// perClass accumulates true positives, predicted positives and actual
// positives for each label.
type perClass struct {
	tp, predicted, actual int
}

func tally(yTrue, yPred mat.Matrix) ([]int, map[int]*perClass) {
	n, _ := yTrue.Dims()
	labels := labelSet(yTrue, yPred)
	stats := make(map[int]*perClass, len(labels))
	for _, label := range labels {
		stats[label] = &perClass{}
	}
	for i := 0; i < n; i++ {
		trueLabel := int(yTrue.At(i, 0))
		predLabel := int(yPred.At(i, 0))
		stats[trueLabel].actual++
		stats[predLabel].predicted++
		if trueLabel == predLabel {
			stats[trueLabel].tp++
		}
	}
	return labels, stats
}

// PrecisionScore returns macro-averaged precision. Classes with no predicted
// samples contribute zero and raise an UndefinedMetricWarning.
func PrecisionScore(yTrue, yPred mat.Matrix) (float64, error) {
	if _, err := checkLabels(yTrue, yPred, "PrecisionScore"); err != nil {
		return 0, err
	}

	labels, stats := tally(yTrue, yPred)
	sum := 0.0
	for _, label := range labels {
		s := stats[label]
		if s.predicted == 0 {
			scierr.Warn(scierr.NewUndefinedMetricWarning("precision", "no predicted samples", 0))
			continue
		}
		sum += float64(s.tp) / float64(s.predicted)
	}
	return sum / float64(len(labels)), nil
}

// RecallScore returns macro-averaged recall. Classes with no true samples
// contribute zero and raise an UndefinedMetricWarning.
func RecallScore(yTrue, yPred mat.Matrix) (float64, error) {
	if _, err := checkLabels(yTrue, yPred, "RecallScore"); err != nil {
		return 0, err
	}

	labels, stats := tally(yTrue, yPred)
	sum := 0.0
	for _, label := range labels {
		s := stats[label]
		if s.actual == 0 {
			scierr.Warn(scierr.NewUndefinedMetricWarning("recall", "no true samples", 0))
			continue
		}
		sum += float64(s.tp) / float64(s.actual)
	}
	return sum / float64(len(labels)), nil
}

// F1Score returns the macro-averaged harmonic mean of per-class precision
// and recall.
func F1Score(yTrue, yPred mat.Matrix) (float64, error) {
	if _, err := checkLabels(yTrue, yPred, "F1Score"); err != nil {
		return 0, err
	}

	labels, stats := tally(yTrue, yPred)
	sum := 0.0
	for _, label := range labels {
		s := stats[label]
		var precision, recall float64
		if s.predicted > 0 {
			precision = float64(s.tp) / float64(s.predicted)
		}
		if s.actual > 0 {
			recall = float64(s.tp) / float64(s.actual)
		}
		if precision+recall > 0 {
			sum += 2 * precision * recall / (precision + recall)
		}
	}
	return sum / float64(len(labels)), nil
}
