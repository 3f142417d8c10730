package blob

// Config holds every tunable of the blob extraction pipeline.
type Config struct {
	MinArea               int
	MinAvgWidth           float64 // area/height must be >= this
	MinAvgHeight          float64 // area/width must be >= this
	CharRegionEnabled     bool
	CharRegionRatio       float64 // min_area_ratio_in_char_region

	CorrRatioCheck     bool
	CorrSumThreshold   float64 // rejects if rho_b+rho_g+rho_r exceeds this
	CorrHighThreshold  float64 // "two of three high" rule
	CorrLowThreshold   float64 // "all three low" rule

	MergeVertical   bool
	MergeHorizontal bool
	MergeBigSmall   bool

	RefineByShape bool
	RefineByGrad  bool
	RefineByColor bool

	StableSizeThreshold int     // area cutoff between "large" and "small" for IoU matching
	StableIoULarge      float64 // 0.95
	StableIoUSmall      float64 // 0.75
	StableMissLimit     int     // 15
	StableMatchStable   int     // 20
}

func DefaultConfig() Config {
	return Config{
		MinArea:             50,
		MinAvgWidth:         5,
		MinAvgHeight:        5,
		CharRegionRatio:     0.5,
		CorrSumThreshold:    2.7,
		CorrHighThreshold:   0.85,
		CorrLowThreshold:    0.8,
		MergeVertical:       true,
		MergeHorizontal:     true,
		MergeBigSmall:       true,
		RefineByShape:       false,
		RefineByGrad:        false,
		RefineByColor:       false,
		StableSizeThreshold: 2500,
		StableIoULarge:      0.95,
		StableIoUSmall:      0.75,
		StableMissLimit:     15,
		StableMatchStable:   20,
	}
}
