// Package analysis provides post-run tools for recorded trajectories.
//
//   - [PowerSpectrum], [DominantFrequency]: frequency content of a column,
//     e.g. a rocking box's tilt
//   - [Apexes]: local maxima, e.g. the peaks of a bouncing ball
//   - [ColumnSeries]: pull one column out of a stored states.csv
//   - [Sweep]: run a scene across a parameter range and collect apexes
//   - [NewPortrait]: 2D portrait of two columns (height against vertical
//     speed, or a top-down x/y track)
//
// # Example
//
//	header, _, states, _ := store.LoadStates(runID)
//	z, _ := analysis.ColumnSeries(header, states, "ball_z")
//	for _, i := range analysis.Apexes(z) {
//	    fmt.Println(z[i])
//	}
package analysis
