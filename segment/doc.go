// Package segment mirrors a series into fixed-capacity GPU textures.
//
// A Buffer splits the samples of one series across segments. Each segment
// is a width x height RG32Float texture holding up to Capacity samples;
// consecutive segments overlap by two samples so every interval between
// adjacent samples lives entirely inside one segment. Global position g of
// the first segment's coordinate system maps to segment g / IntervalCapacity
// and the data index g - validStart.
//
// Sync consumes the change counters of the series' delta.Buffer and uploads
// only the texture rows covering changed samples. Samples that left the
// series free whole segments from either end; new samples grow the first or
// last segment and allocate new ones on demand.
//
// Each texel stores (x - (x0 + xStep*p), y) in float32, where p is the
// sample's position inside its segment. x0 and xStep are kept in float64 on
// the CPU, so large absolute x values such as Unix milliseconds keep full
// precision on the GPU as long as samples are roughly evenly spaced.
package segment
