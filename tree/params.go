package tree

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"reflect"

	"github.com/pthm-cable/redwood/stats"
)

// Parameters controls the shape of a generated tree. Every field is sampled
// through its Variable or Pdf, so callers can substitute constants, ranges,
// normal distributions or hand-drawn curves.
type Parameters struct {
	// Trunk
	TrunkDiameter                       stats.Variable
	TrunkChords                         stats.Variable
	TrunkChordScale                     stats.Variable
	TrunkChordRadii                     stats.Variable
	TrunkChordEccentricity              stats.Variable
	TrunkChordGravity                   stats.Variable
	TrunkChordInitialVelocityMagnitude  stats.Variable
	TrunkChordInitialVelocityDeflection stats.Variable
	TrunkChordAngularVelocity           stats.Variable
	TrunkChordAngularVelocityDamping    stats.Variable
	HeartwoodDiameter                   stats.Variable
	TrunkSetback                        stats.Variable
	TrunkSetbackAcceleration            stats.Variable

	// Branches
	BranchCount                          stats.Variable
	BranchLength                         stats.Variable
	BranchSegmentLength                  stats.Variable
	BranchStraightnessBias               stats.Variable
	BranchSeparationBias                 stats.Variable
	BranchRadialBias                     stats.Variable
	BranchUpwardBias                     stats.Variable
	BranchSplitProbabilityScalar         stats.Variable
	BranchSplitMinimumFirstSegmentLength stats.Variable
	BranchYDeflectionRadians             stats.Variable
	BranchAvoidRadius                    stats.Variable
	BranchHeightDistribution             *stats.Pdf
	BranchSplitDistribution              *stats.Pdf

	// Leaves
	LeafClusterSplitProbability   stats.Variable
	LeafClusterDropOffProbability stats.Variable
	LeafClusterNodeCount          stats.Variable
	LeafClusterRadius             stats.Variable
}

// ErrMissingParameter is returned by Validate when a field is unset.
var ErrMissingParameter = errors.New("parameter is not set")

// BranchHeightHistogram is the default distribution of branch heights up the
// trunk: sparse low down, densest about four fifths of the way up.
const BranchHeightHistogram = "" +
	"                                                          *****      \n" +
	"                                                        **     **    \n" +
	"                                                       *         *   \n" +
	"                                                     **          *   \n" +
	"                                                  ***             *  \n" +
	"                              *******************                 *  \n"

// BranchSplitHistogram is the default split likelihood along a branch.
const BranchSplitHistogram = "" +
	"               ***********                                           \n" +
	"              *           *                                          \n" +
	"             *             *                                         \n" +
	"            *               ************                             \n" +
	"           *                            *******                      \n" +
	"          *                                    ****                  \n"

func radians(deg float64) float64 { return deg * math.Pi / 180 }

// DefaultParameters returns the baseline giant redwood.
func DefaultParameters() Parameters {
	return Parameters{
		TrunkDiameter:                       stats.ConfidenceInterval(0.99, 6, 14),
		TrunkChords:                         stats.ConfidenceInterval(0.8, 2, 4),
		TrunkChordScale:                     stats.Range(0.2, 0.6),
		TrunkChordRadii:                     stats.Range(0, 0.8),
		TrunkChordEccentricity:              stats.Range(0, 0.2),
		TrunkChordGravity:                   stats.Clamp(stats.ConfidenceInterval(0.8, 0.1, 0.2), 0.05, 0.6),
		TrunkChordInitialVelocityMagnitude:  stats.ConfidenceInterval(0.9, 0, 0.1),
		TrunkChordInitialVelocityDeflection: stats.Range(-math.Pi/8, math.Pi/8),
		TrunkChordAngularVelocity:           stats.ConfidenceInterval(0.8, radians(0), radians(20)),
		TrunkChordAngularVelocityDamping:    stats.Range(0.9, 1.0),
		HeartwoodDiameter:                   stats.ConfidenceInterval(0.999999, 2, 4),
		TrunkSetback:                        stats.Constant(0.01),
		TrunkSetbackAcceleration:            stats.ConfidenceInterval(0.98, 0.0005, 0.003),

		BranchCount:                          stats.Range(6, 12),
		BranchLength:                         stats.ConfidenceInterval(0.8, 15, 20),
		BranchSegmentLength:                  stats.ConfidenceInterval(0.9, 1.5, 2.5),
		BranchStraightnessBias:               stats.Constant(0.1),
		BranchSeparationBias:                 stats.Constant(3.0),
		BranchRadialBias:                     stats.Constant(1.0),
		BranchUpwardBias:                     stats.Constant(0.8),
		BranchSplitProbabilityScalar:         stats.Range(0.3, 0.5),
		BranchSplitMinimumFirstSegmentLength: stats.Constant(4),
		BranchYDeflectionRadians:             stats.ConfidenceInterval(0.99, radians(-5), radians(15)),
		BranchAvoidRadius:                    stats.Constant(4),
		BranchHeightDistribution:             stats.MustHistogram(BranchHeightHistogram),
		BranchSplitDistribution:              stats.MustHistogram(BranchSplitHistogram),

		LeafClusterSplitProbability:   stats.Constant(0.1),
		LeafClusterDropOffProbability: stats.Range(0.05, 0.15),
		LeafClusterNodeCount:          stats.Range(1, 3),
		LeafClusterRadius:             stats.ConfidenceInterval(0.9, 3, 5),
	}
}

// Validate reports the first unset field.
func (p Parameters) Validate() error {
	v := reflect.ValueOf(p)
	t := v.Type()
	for i := range v.NumField() {
		if v.Field(i).IsNil() {
			return fmt.Errorf("%s: %w", t.Field(i).Name, ErrMissingParameter)
		}
	}
	return nil
}

// LogValue implements slog.LogValuer.
func (p Parameters) LogValue() slog.Value {
	v := reflect.ValueOf(p)
	t := v.Type()
	attrs := make([]slog.Attr, 0, v.NumField())
	for i := range v.NumField() {
		attrs = append(attrs, slog.String(t.Field(i).Name, fmt.Sprint(v.Field(i).Interface())))
	}
	return slog.GroupValue(attrs...)
}
