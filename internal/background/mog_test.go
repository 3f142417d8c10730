package background

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/your-org/mva/internal/frame"
)

func constantGrayFrame(w, h int, v byte, idx int32) *frame.Frame {
	pixels := make([]byte, w*h)
	for i := range pixels {
		pixels[i] = v
	}
	return &frame.Frame{Pixels: pixels, W: w, H: h, C: 1, FrameIndex: idx}
}

// TestMogConstantFrameIdempotence checks that a MoG model initialized on
// a flat 320x240 gray frame and fed the same frame 20 times
// should report zero foreground pixels from the second call on, and
// reconstruct the background as exactly the input value.
func TestMogConstantFrameIdempotence(t *testing.T) {
	m := NewMog(RelaxedParams)
	first := constantGrayFrame(320, 240, 128, 0)
	require.NoError(t, m.Init(first))

	for i := int32(0); i < 20; i++ {
		f := constantGrayFrame(320, 240, 128, i)
		fg, back, err := m.Update(f, nil)
		require.NoError(t, err)
		if i >= 1 {
			for _, v := range fg {
				require.EqualValues(t, 0, v)
			}
		}
		for _, v := range back.Pixels {
			require.EqualValues(t, 128, v)
		}
	}
	require.Equal(t, 20, m.FrameCount())
}

func TestMogFrameCountCapsAtThousand(t *testing.T) {
	m := NewMog(RelaxedParams)
	require.NoError(t, m.Init(constantGrayFrame(4, 4, 10, 0)))
	for i := 0; i < 1005; i++ {
		_, _, err := m.Update(constantGrayFrame(4, 4, 10, int32(i)), nil)
		require.NoError(t, err)
	}
	require.Equal(t, 1000, m.FrameCount())
}

func TestMogWeightsStaySortedAndNormalized(t *testing.T) {
	m := NewMog(RelaxedParams)
	require.NoError(t, m.Init(constantGrayFrame(2, 2, 50, 0)))

	for i, v := range []byte{50, 200, 50, 200, 50} {
		_, _, err := m.Update(constantGrayFrame(2, 2, v, int32(i)), nil)
		require.NoError(t, err)
	}

	slots := m.slots[0:k]
	var sum float32
	for i := 0; i < k; i++ {
		sum += slots[i].Weight
		if i > 0 {
			require.GreaterOrEqual(t, slots[i-1].SortKey, slots[i].SortKey)
		}
	}
	require.InDelta(t, 1.0, sum, 1e-4)
}

func TestMogFreezeSkipsModelUpdate(t *testing.T) {
	m := NewMog(RelaxedParams)
	require.NoError(t, m.Init(constantGrayFrame(4, 4, 100, 0)))
	_, _, err := m.Update(constantGrayFrame(4, 4, 100, 0), nil)
	require.NoError(t, err)

	before := m.slots[0]
	freeze := []frame.Rect{{X: 0, Y: 0, W: 4, H: 4}}
	_, _, err = m.Update(constantGrayFrame(4, 4, 250, 1), freeze)
	require.NoError(t, err)
	require.Equal(t, before, m.slots[0])
}
