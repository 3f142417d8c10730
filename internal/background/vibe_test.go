package background

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/your-org/mva/internal/frame"
)

func TestViBeConstantFrameIsBackground(t *testing.T) {
	v := NewViBe(DomainGray, false, 1)
	require.NoError(t, v.Init(constantGrayFrame(64, 48, 90, 0)))

	for i := int32(1); i < 10; i++ {
		fg, _, err := v.Update(constantGrayFrame(64, 48, 90, i), nil)
		require.NoError(t, err)
		for _, p := range fg {
			require.EqualValues(t, 0, p)
		}
	}
}

func TestViBeStepChangeIsForeground(t *testing.T) {
	v := NewViBe(DomainGray, false, 2)
	require.NoError(t, v.Init(constantGrayFrame(16, 16, 20, 0)))

	fg, _, err := v.Update(constantGrayFrame(16, 16, 220, 1), nil)
	require.NoError(t, err)

	foregroundCount := 0
	for _, p := range fg {
		if p != 0 {
			foregroundCount++
		}
	}
	require.Greater(t, foregroundCount, 0)
}

func TestViBeExtendedTracksBackgroundMean(t *testing.T) {
	v := NewViBe(DomainGray, true, 3)
	require.NoError(t, v.Init(constantGrayFrame(8, 8, 100, 0)))

	var back *frame.Frame
	var err error
	for i := int32(1); i <= 5; i++ {
		_, back, err = v.Update(constantGrayFrame(8, 8, 100, i), nil)
		require.NoError(t, err)
	}
	for _, p := range back.Pixels {
		require.EqualValues(t, 100, p)
	}
}

func TestViBeFreezeSkipsSampleUpdate(t *testing.T) {
	v := NewViBe(DomainGray, false, 4)
	require.NoError(t, v.Init(constantGrayFrame(4, 4, 50, 0)))

	before := make([]byte, len(v.samples))
	copy(before, v.samples)

	freeze := []frame.Rect{{X: 0, Y: 0, W: 4, H: 4}}
	_, _, err := v.Update(constantGrayFrame(4, 4, 50, 1), freeze)
	require.NoError(t, err)
	require.Equal(t, before, v.samples)
}
