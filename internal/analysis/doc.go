// Package analysis provides post-run analysis of recorded cloth runs.
//
//   - [PowerSpectrum], [DominantFrequency]: spectrum of a height series
//   - [GeneratePhasePortrait]: height against vertical velocity for one vertex
//   - [SeparationGrowth]: divergence rate of two nearby runs
//   - [Sweep]: a parameter sweep run as an ensemble
//
// # Sensitivity
//
// Two runs that differ by a tiny perturbation drift apart at a rate measured
// by [SeparationGrowth]; a positive rate means contact and friction amplify
// small differences:
//
//	rate := analysis.SeparationGrowth(base, perturbed, d0)
package analysis
