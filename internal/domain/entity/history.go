package entity

// MeasurementHistory накопленные замеры сессии: соотношение сторон по
// каждому изображению и его вес (число найденных рамок). Срезы растут только
// вместе, поэтому их длины всегда равны.
type MeasurementHistory struct {
	ratios  []float64
	weights []float64
}

// Append добавляет замер одного изображения.
func (h *MeasurementHistory) Append(ratio float64, weight int) {
	h.ratios = append(h.ratios, ratio)
	h.weights = append(h.weights, float64(weight))
}

// Len возвращает число замеров
func (h *MeasurementHistory) Len() int {
	return len(h.ratios)
}

// Ratios возвращает копию соотношений сторон
func (h *MeasurementHistory) Ratios() []float64 {
	return append([]float64(nil), h.ratios...)
}

// Weights возвращает копию весов
func (h *MeasurementHistory) Weights() []int {
	out := make([]int, len(h.weights))
	for i, w := range h.weights {
		out[i] = int(w)
	}
	return out
}

// TotalWeight возвращает сумму весов
func (h *MeasurementHistory) TotalWeight() int {
	total := 0
	for _, w := range h.weights {
		total += int(w)
	}
	return total
}

// Reset очищает историю, начиная новую сессию замеров.
func (h *MeasurementHistory) Reset() {
	h.ratios = nil
	h.weights = nil
}

// Series возвращает копии обоих рядов в виде float64 для статистики.
func (h *MeasurementHistory) Series() (ratios, weights []float64) {
	return append([]float64(nil), h.ratios...), append([]float64(nil), h.weights...)
}
