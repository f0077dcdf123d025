package bot

import "math/rand/v2"

var nameList = []string{
	"Daniel", "Alejandro", "Pablo", "Gabriel", "Fernando", "Hugo",
	"Lucía", "María", "Sara", "Javier", "Diego", "Elena",
}

// Names returns n distinct bot names in random order. n is capped at the size of the list.
func Names(rng *rand.Rand, n int) []string {
	names := append([]string(nil), nameList...)
	swap := func(i, j int) { names[i], names[j] = names[j], names[i] }
	if rng != nil {
		rng.Shuffle(len(names), swap)
	} else {
		rand.Shuffle(len(names), swap)
	}
	if n > len(names) {
		n = len(names)
	}
	if n < 0 {
		n = 0
	}
	return names[:n]
}
