package semantic

// Center returns the component-wise mean of the given vectors: the latent
// "theme" point of a cluster.
func Center(vectors [][]float64) ([]float64, error) {
	if len(vectors) == 0 {
		return nil, ErrEmptyInput
	}

	dim := len(vectors[0])
	center := make([]float64, dim)
	for _, v := range vectors {
		if len(v) != dim {
			return nil, ErrDimensionMismatch
		}
		for i, x := range v {
			center[i] += x
		}
	}

	n := float64(len(vectors))
	for i := range center {
		center[i] /= n
	}
	return center, nil
}

// Heat maps a candidate's proximity to a cluster center onto [0,1]:
// cosine similarity rescaled from [-1,1]. 1 is on top of the theme, 0 is
// diametrically away. Drives hot/cold feedback.
func Heat(candidate, center []float64) (float64, error) {
	sim, err := Cosine(candidate, center)
	if err != nil {
		return 0, err
	}
	return (sim + 1) / 2, nil
}
