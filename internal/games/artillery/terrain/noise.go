package terrain

// Noise1D blends a seed array across octaves into a smooth curve of the
// same length. Each octave linearly interpolates between seeds spaced
// len>>o apart; later octaves carry 1/bias of the previous weight.
// Output values stay within the seed range.
func Noise1D(seeds []float64, octaves int, bias float64) []float64 {
	n := len(seeds)
	out := make([]float64, n)
	if n == 0 {
		return out
	}

	for x := 0; x < n; x++ {
		noise := 0.0
		scaleAcc := 0.0
		scale := 1.0

		for o := 0; o < octaves; o++ {
			pitch := n >> o
			if pitch < 1 {
				pitch = 1
			}
			s1 := (x / pitch) * pitch
			s2 := (s1 + pitch) % n

			blend := float64(x-s1) / float64(pitch)
			sample := (1-blend)*seeds[s1] + blend*seeds[s2]

			scaleAcc += scale
			noise += sample * scale
			scale /= bias
		}

		out[x] = noise / scaleAcc
	}
	return out
}
