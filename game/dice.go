package game

import "riskodds/utils"

// Source is the randomness provider for dice rolls. *rand.Rand from golang.org/x/exp/rand
// satisfies it.
type Source interface {
	Intn(n int) int
}

// rollDice draws num dice with the given number of faces and returns them highest first.
func rollDice(source Source, num, faces int) []int {
	rolls := make([]int, num)
	for i := 0; i < num; i++ {
		rolls[i] = source.Intn(faces) + 1
	}
	utils.SortDescending(rolls)
	return rolls
}
