package analysis

// CurveStats holds the calculated statistics for a single curve.
type CurveStats struct {
	CurveIndex int    // 0-based position in the document
	CurveID    string // e.g., "C1", "C12"
	Legend     string
	NumRows    int
	NumColumns int // width of the widest row
	NumPoints  int // rows with a valid x and y value
	XMin       float64
	XMax       float64
	YMin       float64
	YMax       float64
	YMean      float64
	YStdDev    float64 // population standard deviation
	YSpan      float64 // YMax - YMin
	Error      string  // If the curve could not be analyzed
}

// RankedCurveInfo is used for ranking curves by different criteria.
type RankedCurveInfo struct {
	CurveID string
	Legend  string
	Value   float64
}

// AnalysisResults holds all results from the analysis.
type AnalysisResults struct {
	Results        []CurveStats
	RankedBySpan   []RankedCurveInfo // Sorted by y span, descending
	RankedByStdDev []RankedCurveInfo // Sorted by y standard deviation, descending
	AnalysisErrors []string
}

func NewAnalysisResults() *AnalysisResults {
	return &AnalysisResults{
		Results:        make([]CurveStats, 0),
		RankedBySpan:   make([]RankedCurveInfo, 0),
		RankedByStdDev: make([]RankedCurveInfo, 0),
		AnalysisErrors: make([]string, 0),
	}
}
