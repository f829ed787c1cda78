package fixed

func Min(a, b Point) Point {
	if a.Lt(b) {
		return a
	}
	return b
}

func Max(a, b Point) Point {
	if a.Gt(b) {
		return a
	}
	return b
}

// Clamp bounds p to [low, high]. Low must not exceed high.
func Clamp(p, low, high Point) Point {
	if p.Lt(low) {
		return low
	}
	if p.Gt(high) {
		return high
	}
	return p
}

func Sum(points []Point) Point {
	sum := Zero
	for _, point := range points {
		sum = sum.Add(point)
	}
	return sum
}
