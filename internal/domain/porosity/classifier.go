// Package porosity считает соотношение сторон найденных пор и определяет
// преобладающий тип пористости.
package porosity

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"porosity-bot/internal/domain/entity"
)

var (
	// ErrNoDetections на изображении не найдено ни одной рамки.
	ErrNoDetections = errors.New("no detections")
	// ErrDegenerateBox у рамки нулевая или отрицательная ширина или высота,
	// либо соотношение сторон не конечно.
	ErrDegenerateBox = errors.New("degenerate bounding box")
	// ErrZeroTotalWeight сумма весов истории равна нулю.
	ErrZeroTotalWeight = errors.New("zero total weight")
	// ErrNegativeWeight вес замера меньше нуля.
	ErrNegativeWeight = errors.New("negative weight")
)

// Policy задаёт, как из набора рамок получается соотношение сторон изображения.
type Policy string

const (
	// PolicyFirstBox берёт только первую (самую уверенную) рамку.
	PolicyFirstBox Policy = "first"
	// PolicyMeanOfBoxes усредняет соотношения всех рамок.
	PolicyMeanOfBoxes Policy = "mean"
)

// ParsePolicy разбирает имя политики из конфигурации.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyFirstBox, PolicyMeanOfBoxes:
		return Policy(s), nil
	case "":
		return PolicyFirstBox, nil
	}
	return "", fmt.Errorf("unknown aspect ratio policy %q", s)
}

type band struct {
	lower float64 // не включается
	upper float64 // включается
	label entity.Classification
}

// Диапазоны проверяются по порядку. Значение 1 обрабатывается отдельно.
var bands = []band{
	{lower: 1, upper: 2, label: entity.GasOutAndIntergranularPores},
	{lower: 2, upper: 3, label: entity.IntergranularAndPullOutPores},
	{lower: 3, upper: 4, label: entity.EjectionPores},
	{lower: 4, upper: 14, label: entity.Capillaries},
}

// PoreClassifier переводит рамки детектора в соотношение сторон, ведёт
// взвешенное среднее по сессии и классифицирует его.
type PoreClassifier struct {
	policy Policy
}

// NewPoreClassifier создаёт классификатор с заданной политикой.
func NewPoreClassifier(policy Policy) *PoreClassifier {
	if policy == "" {
		policy = PolicyFirstBox
	}
	return &PoreClassifier{policy: policy}
}

// Policy возвращает текущую политику
func (c *PoreClassifier) Policy() Policy {
	return c.policy
}

// ComputeAspectRatio возвращает ширину, делённую на высоту, для набора рамок
// одного изображения.
func (c *PoreClassifier) ComputeAspectRatio(boxes entity.DetectionSet) (float64, error) {
	if len(boxes) == 0 {
		return 0, ErrNoDetections
	}

	if c.policy == PolicyMeanOfBoxes {
		ratios := make([]float64, 0, len(boxes))
		for i, b := range boxes {
			r, err := boxRatio(b)
			if err != nil {
				return 0, fmt.Errorf("box %d: %w", i, err)
			}
			ratios = append(ratios, r)
		}
		return stat.Mean(ratios, nil), nil
	}

	return boxRatio(boxes[0])
}

func boxRatio(b entity.BoundingBox) (float64, error) {
	w, h := b.Width(), b.Height()
	if w <= 0 || h <= 0 {
		return 0, fmt.Errorf("%w: %gx%g", ErrDegenerateBox, w, h)
	}
	// Очень малая высота или NaN в координатах не должны попасть в историю
	r := w / h
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return 0, fmt.Errorf("%w: ratio %v", ErrDegenerateBox, r)
	}
	return r, nil
}

// RecordAndAverage дописывает замер в историю и возвращает взвешенное среднее
// всех соотношений: sum(ratio_i*weight_i) / sum(weight_i).
func (c *PoreClassifier) RecordAndAverage(history *entity.MeasurementHistory, ratio float64, weight int) (float64, error) {
	if weight < 0 {
		return 0, fmt.Errorf("%w: %d", ErrNegativeWeight, weight)
	}

	history.Append(ratio, weight)

	if history.TotalWeight() == 0 {
		return 0, ErrZeroTotalWeight
	}

	ratios, weights := history.Series()
	return stat.Mean(ratios, weights), nil
}

// Classify сопоставляет соотношению сторон тип пор. Значения вне диапазонов
// (меньше 1, больше 14, NaN) дают entity.Unclassified.
func (c *PoreClassifier) Classify(ratio float64) entity.Classification {
	return Classify(ratio)
}

// Classify то же, что PoreClassifier.Classify: классификация не зависит от
// политики.
func Classify(ratio float64) entity.Classification {
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return entity.Unclassified
	}
	if ratio == 1 {
		return entity.GasOutPores
	}
	for _, b := range bands {
		if ratio > b.lower && ratio <= b.upper {
			return b.label
		}
	}
	return entity.Unclassified
}
