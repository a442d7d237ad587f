package datasets

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// digitGlyphs are 8x8 prototype rasters for the digits 0-9. Characters map to
// pixel intensities on the 0-16 scale: ' '=0, '.'=5, 'o'=10, '#'=16.
var digitGlyphs = [10][8]string{
	{ // 0
		"  o##o  ",
		" o#  #o ",
		" #    # ",
		" #    # ",
		" #    # ",
		" #    # ",
		" o#  #o ",
		"  o##o  ",
	},
	{ // 1
		"   o#   ",
		"  o##   ",
		" o .#   ",
		"    #   ",
		"    #   ",
		"    #   ",
		"    #   ",
		"  o###o ",
	},
	{ // 2
		"  o##o  ",
		" #.  .# ",
		"     .# ",
		"    o#. ",
		"   o#.  ",
		"  o#.   ",
		" o#.    ",
		" ###### ",
	},
	{ // 3
		" o###o  ",
		" .   .# ",
		"     o# ",
		"   ###. ",
		"     o# ",
		"      # ",
		" .   .# ",
		" o###o  ",
	},
	{ // 4
		"    o#. ",
		"   o##. ",
		"  o#.#. ",
		" o#. #. ",
		" ###### ",
		"     #. ",
		"     #. ",
		"     #. ",
	},
	{ // 5
		" ###### ",
		" #.     ",
		" #      ",
		" ####o  ",
		"    .#o ",
		"      # ",
		" .   o# ",
		" o###o  ",
	},
	{ // 6
		"  o##o  ",
		" o#  .  ",
		" #.     ",
		" ####o  ",
		" #.  #o ",
		" #    # ",
		" o#  #o ",
		"  o##o  ",
	},
	{ // 7
		" ###### ",
		"     o# ",
		"     #. ",
		"    o#  ",
		"    #.  ",
		"   o#   ",
		"   #.   ",
		"   #    ",
	},
	{ // 8
		"  o##o  ",
		" #.  .# ",
		" #.  .# ",
		"  o##o  ",
		" #.  .# ",
		" #    # ",
		" #.  .# ",
		"  o##o  ",
	},
	{ // 9
		"  o##o  ",
		" o#  #o ",
		" #    # ",
		" o#  ## ",
		"  o##.# ",
		"     .# ",
		"  .  #o ",
		"  o##o  ",
	},
}

func glyphIntensity(c byte) float64 {
	switch c {
	case '#':
		return 16
	case 'o':
		return 10
	case '.':
		return 5
	default:
		return 0
	}
}

// DigitsOption configures LoadDigits.
type DigitsOption func(*digitsConfig)

type digitsConfig struct {
	samplesPerClass int
	noise           float64
	seed            uint64
}

// WithDigitsSamplesPerClass sets the number of samples generated per digit.
func WithDigitsSamplesPerClass(n int) DigitsOption {
	return func(c *digitsConfig) {
		if n > 0 {
			c.samplesPerClass = n
		}
	}
}

// WithDigitsNoise sets the standard deviation of the pixel noise.
func WithDigitsNoise(sigma float64) DigitsOption {
	return func(c *digitsConfig) {
		if sigma >= 0 {
			c.noise = sigma
		}
	}
}

// WithDigitsSeed sets the generator seed.
func WithDigitsSeed(seed uint64) DigitsOption {
	return func(c *digitsConfig) {
		c.seed = seed
	}
}

// LoadDigits generates the 8x8 handwritten-digit style dataset: ten glyph
// prototypes perturbed with Gaussian pixel noise, intensities clipped to the
// 0-16 range. Defaults produce 1790 samples with 64 features.
func LoadDigits(opts ...DigitsOption) *Dataset {
	cfg := &digitsConfig{
		samplesPerClass: 179,
		noise:           2.0,
		seed:            42,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	rng := rand.New(rand.NewPCG(cfg.seed, cfg.seed))

	nSamples := 10 * cfg.samplesPerClass
	data := mat.NewDense(nSamples, 64, nil)
	target := make([]int, nSamples)

	row := 0
	for digit := 0; digit < 10; digit++ {
		for s := 0; s < cfg.samplesPerClass; s++ {
			for r := 0; r < 8; r++ {
				line := digitGlyphs[digit][r]
				for c := 0; c < 8; c++ {
					v := glyphIntensity(line[c]) + rng.NormFloat64()*cfg.noise
					if v < 0 {
						v = 0
					}
					if v > 16 {
						v = 16
					}
					data.Set(row, r*8+c, v)
				}
			}
			target[row] = digit
			row++
		}
	}

	// Shuffle rows so class blocks do not align with CV folds.
	perm := rng.Perm(nSamples)
	shuffled := mat.NewDense(nSamples, 64, nil)
	shuffledTarget := make([]int, nSamples)
	for i, j := range perm {
		for c := 0; c < 64; c++ {
			shuffled.Set(i, c, data.At(j, c))
		}
		shuffledTarget[i] = target[j]
	}

	featureNames := make([]string, 64)
	for i := range featureNames {
		featureNames[i] = fmt.Sprintf("pixel_%d_%d", i/8, i%8)
	}
	targetNames := make([]string, 10)
	for i := range targetNames {
		targetNames[i] = fmt.Sprintf("%d", i)
	}

	return &Dataset{
		Data:         shuffled,
		Target:       shuffledTarget,
		FeatureNames: featureNames,
		TargetNames:  targetNames,
	}
}
