package tree

import (
	"fmt"

	"github.com/pthm-cable/redwood/config"
	"github.com/pthm-cable/redwood/stats"
)

// paramBuilder converts config specs, keeping the first error.
type paramBuilder struct {
	err error
}

func (b *paramBuilder) variable(name string, spec config.VariableSpec) stats.Variable {
	if b.err != nil {
		return nil
	}
	v, err := spec.Variable()
	if err != nil {
		b.err = fmt.Errorf("%s: %w", name, err)
	}
	return v
}

func (b *paramBuilder) pdf(name string, spec config.PdfSpec) *stats.Pdf {
	if b.err != nil {
		return nil
	}
	p, err := spec.Pdf()
	if err != nil {
		b.err = fmt.Errorf("%s: %w", name, err)
	}
	return p
}

// ParametersFromConfig builds Parameters from the generation section of a
// config file.
func ParametersFromConfig(c config.GenerationConfig) (Parameters, error) {
	var b paramBuilder
	p := Parameters{
		TrunkDiameter:                       b.variable("trunk_diameter", c.TrunkDiameter),
		TrunkChords:                         b.variable("trunk_chords", c.TrunkChords),
		TrunkChordScale:                     b.variable("trunk_chord_scale", c.TrunkChordScale),
		TrunkChordRadii:                     b.variable("trunk_chord_radii", c.TrunkChordRadii),
		TrunkChordEccentricity:              b.variable("trunk_chord_eccentricity", c.TrunkChordEccentricity),
		TrunkChordGravity:                   b.variable("trunk_chord_gravity", c.TrunkChordGravity),
		TrunkChordInitialVelocityMagnitude:  b.variable("trunk_chord_initial_velocity_magnitude", c.TrunkChordInitialVelocityMagnitude),
		TrunkChordInitialVelocityDeflection: b.variable("trunk_chord_initial_velocity_deflection", c.TrunkChordInitialVelocityDeflection),
		TrunkChordAngularVelocity:           b.variable("trunk_chord_angular_velocity", c.TrunkChordAngularVelocity),
		TrunkChordAngularVelocityDamping:    b.variable("trunk_chord_angular_velocity_damping", c.TrunkChordAngularVelocityDamping),
		HeartwoodDiameter:                   b.variable("heartwood_diameter", c.HeartwoodDiameter),
		TrunkSetback:                        b.variable("trunk_setback", c.TrunkSetback),
		TrunkSetbackAcceleration:            b.variable("trunk_setback_acceleration", c.TrunkSetbackAcceleration),

		BranchCount:                          b.variable("branch_count", c.BranchCount),
		BranchLength:                         b.variable("branch_length", c.BranchLength),
		BranchSegmentLength:                  b.variable("branch_segment_length", c.BranchSegmentLength),
		BranchStraightnessBias:               b.variable("branch_straightness_bias", c.BranchStraightnessBias),
		BranchSeparationBias:                 b.variable("branch_separation_bias", c.BranchSeparationBias),
		BranchRadialBias:                     b.variable("branch_radial_bias", c.BranchRadialBias),
		BranchUpwardBias:                     b.variable("branch_upward_bias", c.BranchUpwardBias),
		BranchSplitProbabilityScalar:         b.variable("branch_split_probability_scalar", c.BranchSplitProbabilityScalar),
		BranchSplitMinimumFirstSegmentLength: b.variable("branch_split_minimum_first_segment_length", c.BranchSplitMinimumFirstSegmentLength),
		BranchYDeflectionRadians:             b.variable("branch_y_deflection", c.BranchYDeflection),
		BranchAvoidRadius:                    b.variable("branch_avoid_radius", c.BranchAvoidRadius),
		BranchHeightDistribution:             b.pdf("branch_height_distribution", c.BranchHeightDistribution),
		BranchSplitDistribution:              b.pdf("branch_split_distribution", c.BranchSplitDistribution),

		LeafClusterSplitProbability:   b.variable("leaf_cluster_split_probability", c.LeafClusterSplitProbability),
		LeafClusterDropOffProbability: b.variable("leaf_cluster_drop_off_probability", c.LeafClusterDropOffProbability),
		LeafClusterNodeCount:          b.variable("leaf_cluster_node_count", c.LeafClusterNodeCount),
		LeafClusterRadius:             b.variable("leaf_cluster_radius", c.LeafClusterRadius),
	}
	if b.err != nil {
		return Parameters{}, b.err
	}
	return p, p.Validate()
}
