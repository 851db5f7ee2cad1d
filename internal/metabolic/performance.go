package metabolic

// OneRepMax estimates the maximum single-repetition lift weight from a
// heavier-reps set using the Epley formula. A single rep is already a
// true 1RM and is returned exactly, not run through the formula.
func OneRepMax(weight float64, reps int) float64 {
	if weight <= 0 || reps <= 0 {
		return 0
	}
	if reps == 1 {
		return weight
	}
	return weight * (1 + float64(reps)/30)
}
