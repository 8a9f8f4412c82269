package sm

// Test machines shared across the package tests.

type fiveSum struct {
	count int
	sum   int
}

// consumeFive sums five inputs and then reports the sum forever. It needs
// an input on every tick.
func consumeFive() Machine[int, Opt[int]] {
	return Define(fiveSum{}, func(s fiveSum, in Opt[int]) (fiveSum, Opt[Opt[int]]) {
		v := in.Must()
		switch {
		case s.count < 4:
			return fiveSum{count: s.count + 1, sum: s.sum + v}, Some(None[int]())
		case s.count == 4:
			sum := s.sum + v
			return fiveSum{count: 5, sum: sum}, Some(Some(sum))
		default:
			return s, Some(Some(s.sum))
		}
	}, func(s fiveSum) bool { return s.count == 5 })
}

// char emits c once and is done.
func char(c rune) Machine[rune, rune] {
	return Define(false, func(bool, Opt[rune]) (bool, Opt[rune]) {
		return true, Some(c)
	}, func(done bool) bool { return done })
}

func word(s string) Machine[rune, rune] {
	runes := []rune(s)
	rest := make([]Machine[rune, rune], 0, len(runes)-1)
	for _, r := range runes[1:] {
		rest = append(rest, char(r))
	}
	return Sequence(char(runes[0]), rest...)
}

func ints(from, to int) []int {
	out := make([]int, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, i)
	}
	return out
}

func some(vs ...int) []Opt[int] {
	out := make([]Opt[int], len(vs))
	for i, v := range vs {
		out[i] = Some(v)
	}
	return out
}

func isEven(i int) bool { return i%2 == 0 }

func double(i int) int { return i * 2 }

func triple(i int) int { return i * 3 }
