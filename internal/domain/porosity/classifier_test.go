package porosity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"porosity-bot/internal/domain/entity"
)

func box(w, h float64) entity.BoundingBox {
	return entity.BoundingBox{X1: 5, Y1: 7, X2: 5 + w, Y2: 7 + h}
}

func TestComputeAspectRatioAndClassify(t *testing.T) {
	c := NewPoreClassifier(PolicyFirstBox)
	cases := []struct {
		name  string
		w, h  float64
		ratio float64
		want  entity.Classification
	}{
		{"square", 10, 10, 1.0, entity.GasOutPores},
		{"one and a half", 15, 10, 1.5, entity.GasOutAndIntergranularPores},
		{"two and a half", 25, 10, 2.5, entity.IntergranularAndPullOutPores},
		{"three and a half", 35, 10, 3.5, entity.EjectionPores},
		{"ten", 100, 10, 10.0, entity.Capillaries},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ratio, err := c.ComputeAspectRatio(entity.DetectionSet{box(tc.w, tc.h)})
			require.NoError(t, err)
			require.InDelta(t, tc.ratio, ratio, 1e-12)
			require.Equal(t, tc.want, c.Classify(ratio))
		})
	}
}

func TestComputeAspectRatio_UsesFirstBoxOnly(t *testing.T) {
	c := NewPoreClassifier(PolicyFirstBox)
	ratio, err := c.ComputeAspectRatio(entity.DetectionSet{box(20, 10), box(100, 10), box(0, 10)})
	require.NoError(t, err)
	require.Equal(t, 2.0, ratio)
}

func TestComputeAspectRatio_MeanOfBoxes(t *testing.T) {
	c := NewPoreClassifier(PolicyMeanOfBoxes)
	ratio, err := c.ComputeAspectRatio(entity.DetectionSet{box(10, 10), box(30, 10)})
	require.NoError(t, err)
	require.InDelta(t, 2.0, ratio, 1e-12)

	_, err = c.ComputeAspectRatio(entity.DetectionSet{box(10, 10), box(10, 0)})
	require.ErrorIs(t, err, ErrDegenerateBox)
}

func TestComputeAspectRatio_Errors(t *testing.T) {
	c := NewPoreClassifier(PolicyFirstBox)

	_, err := c.ComputeAspectRatio(nil)
	require.ErrorIs(t, err, ErrNoDetections)

	_, err = c.ComputeAspectRatio(entity.DetectionSet{})
	require.ErrorIs(t, err, ErrNoDetections)

	_, err = c.ComputeAspectRatio(entity.DetectionSet{box(10, 0)})
	require.ErrorIs(t, err, ErrDegenerateBox)

	_, err = c.ComputeAspectRatio(entity.DetectionSet{box(0, 10)})
	require.ErrorIs(t, err, ErrDegenerateBox)
}

func TestComputeAspectRatio_RejectsBadExtents(t *testing.T) {
	cases := map[string]entity.BoundingBox{
		"tiny height":    {X1: 0, Y1: 0, X2: 10, Y2: 1e-320},
		"nan coordinate": {X1: math.NaN(), Y1: 0, X2: 10, Y2: 10},
		"inf coordinate": {X1: 0, Y1: 0, X2: math.Inf(1), Y2: 10},
		"inverted x":     {X1: 20, Y1: 0, X2: 10, Y2: 10},
		"inverted y":     {X1: 0, Y1: 10, X2: 10, Y2: 0},
		"inverted both":  {X1: 20, Y1: 10, X2: 10, Y2: 0},
	}
	for _, policy := range []Policy{PolicyFirstBox, PolicyMeanOfBoxes} {
		c := NewPoreClassifier(policy)
		for name, b := range cases {
			t.Run(string(policy)+"/"+name, func(t *testing.T) {
				ratio, err := c.ComputeAspectRatio(entity.DetectionSet{b})
				require.ErrorIs(t, err, ErrDegenerateBox)
				require.Zero(t, ratio)
			})
		}
	}
}

func TestClassify_Boundaries(t *testing.T) {
	cases := map[float64]entity.Classification{
		1:                      entity.GasOutPores,
		math.Nextafter(1, 2):   entity.GasOutAndIntergranularPores,
		2:                      entity.GasOutAndIntergranularPores,
		math.Nextafter(2, 3):   entity.IntergranularAndPullOutPores,
		3:                      entity.IntergranularAndPullOutPores,
		math.Nextafter(3, 4):   entity.EjectionPores,
		4:                      entity.EjectionPores,
		math.Nextafter(4, 5):   entity.Capillaries,
		14:                     entity.Capillaries,
		math.Nextafter(14, 15): entity.Unclassified,
		math.Nextafter(1, 0):   entity.Unclassified,
		0.5:                    entity.Unclassified,
		15:                     entity.Unclassified,
		0:                      entity.Unclassified,
		-3:                     entity.Unclassified,
	}
	for ratio, want := range cases {
		require.Equal(t, want, Classify(ratio), "ratio %v", ratio)
	}
}

func TestClassify_NonFinite(t *testing.T) {
	require.Equal(t, entity.Unclassified, Classify(math.NaN()))
	require.Equal(t, entity.Unclassified, Classify(math.Inf(1)))
	require.Equal(t, entity.Unclassified, Classify(math.Inf(-1)))
}

func TestClassify_Idempotent(t *testing.T) {
	c := NewPoreClassifier(PolicyFirstBox)
	for _, r := range []float64{0.5, 1, 1.5, 2.5, 3.5, 10, 15} {
		require.Equal(t, c.Classify(r), c.Classify(r))
	}
}

func TestRecordAndAverage_Weighted(t *testing.T) {
	c := NewPoreClassifier(PolicyFirstBox)
	var h entity.MeasurementHistory

	avg, err := c.RecordAndAverage(&h, 1, 2)
	require.NoError(t, err)
	require.InDelta(t, 1.0, avg, 1e-12)

	avg, err = c.RecordAndAverage(&h, 3, 2)
	require.NoError(t, err)
	require.InDelta(t, 2.0, avg, 1e-12)

	avg, err = c.RecordAndAverage(&h, 10, 6)
	require.NoError(t, err)
	require.InDelta(t, (1*2+3*2+10*6)/10.0, avg, 1e-12)
}

func TestRecordAndAverage_GrowsMonotonically(t *testing.T) {
	c := NewPoreClassifier(PolicyFirstBox)
	var h entity.MeasurementHistory
	for n := 1; n <= 10; n++ {
		_, err := c.RecordAndAverage(&h, float64(n)/3, n)
		require.NoError(t, err)
		require.Equal(t, n, h.Len())
		require.Len(t, h.Ratios(), n)
		require.Len(t, h.Weights(), n)
	}
}

func TestRecordAndAverage_ZeroTotalWeight(t *testing.T) {
	c := NewPoreClassifier(PolicyFirstBox)
	var h entity.MeasurementHistory

	_, err := c.RecordAndAverage(&h, 2, 0)
	require.ErrorIs(t, err, ErrZeroTotalWeight)
	require.Equal(t, 1, h.Len())

	avg, err := c.RecordAndAverage(&h, 4, 1)
	require.NoError(t, err)
	require.InDelta(t, 4.0, avg, 1e-12)
}

func TestRecordAndAverage_NegativeWeightLeavesHistory(t *testing.T) {
	c := NewPoreClassifier(PolicyFirstBox)
	var h entity.MeasurementHistory

	_, err := c.RecordAndAverage(&h, 2, -1)
	require.ErrorIs(t, err, ErrNegativeWeight)
	require.Zero(t, h.Len())
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	require.Equal(t, PolicyFirstBox, p)

	p, err = ParsePolicy("mean")
	require.NoError(t, err)
	require.Equal(t, PolicyMeanOfBoxes, p)

	_, err = ParsePolicy("median")
	require.Error(t, err)
}
