package engine

// LegalDestinations returns every site a player standing on from can legally
// reach this turn, nearest first.
func LegalDestinations(path *Path, from int) []int {
	if from >= path.Last() {
		return nil
	}
	var out []int
	end := path.FindNextBarrier(from)
	for i := from + 1; i <= end; i++ {
		if path.Available(i) {
			out = append(out, i)
		}
	}
	return out
}

// StepsTo returns the step count that moves a player from from to dest.
func StepsTo(from, dest int) int { return dest - from }

// NearestOfType returns the nearest legal destination of type t, or -1.
func NearestOfType(path *Path, from int, t SiteType) int {
	for _, d := range LegalDestinations(path, from) {
		if path.Sites[d].Type == t {
			return d
		}
	}
	return -1
}
