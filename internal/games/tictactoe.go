package games

import (
	"math/rand"

	"connectibles/internal/apperr"
)

// Marks. The human always plays X against the AI.
const (
	Human = "X"
	AI    = "O"
)

type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// mediumSmartChance is the probability that medium plays the heuristic move.
const mediumSmartChance = 0.6

// ParseDifficulty validates a difficulty string.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(s); d {
	case Easy, Medium, Hard:
		return d, nil
	}
	return "", apperr.InvalidDifficulty
}

// Board cells are "", "X" or "O", indexed row-major 0..8.
type Board [9]string

var winLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

var corners = []int{0, 2, 6, 8}

const center = 4

// Winner returns the mark holding a full line, or "".
func (b Board) Winner() string {
	for _, line := range winLines {
		a := b[line[0]]
		if a != "" && a == b[line[1]] && a == b[line[2]] {
			return a
		}
	}
	return ""
}

// Full reports whether no empty cell remains.
func (b Board) Full() bool {
	for _, c := range b {
		if c == "" {
			return false
		}
	}
	return true
}

// Draw is a full board without a winning line.
func (b Board) Draw() bool {
	return b.Winner() == "" && b.Full()
}

// EmptyCells lists free cell indexes in ascending order.
func (b Board) EmptyCells() []int {
	cells := make([]int, 0, 9)
	for i, c := range b {
		if c == "" {
			cells = append(cells, i)
		}
	}
	return cells
}

// Place puts mark on cell, failing on occupied or out of range cells.
func (b Board) Place(cell int, mark string) (Board, error) {
	if cell < 0 || cell > 8 {
		return b, apperr.InvalidMove.Withf("cell %d is off the board", cell)
	}
	if b[cell] != "" {
		return b, apperr.InvalidMove.Withf("cell %d is taken", cell)
	}
	b[cell] = mark
	return b, nil
}

// AIMove picks the AI's cell for the difficulty, or -1 on a full board.
func AIMove(b Board, d Difficulty, rng *rand.Rand) int {
	if b.Full() {
		return -1
	}
	switch d {
	case Hard:
		return BestMove(b, rng)
	case Medium:
		if rng.Float64() < mediumSmartChance {
			return BestMove(b, rng)
		}
	}
	return randomCell(b.EmptyCells(), rng)
}

// BestMove applies the heuristic in priority order: win, block, center,
// random free corner, random free cell.
func BestMove(b Board, rng *rand.Rand) int {
	empty := b.EmptyCells()
	if len(empty) == 0 {
		return -1
	}
	if cell, ok := completingMove(b, AI); ok {
		return cell
	}
	if cell, ok := completingMove(b, Human); ok {
		return cell
	}
	if b[center] == "" {
		return center
	}
	freeCorners := make([]int, 0, len(corners))
	for _, c := range corners {
		if b[c] == "" {
			freeCorners = append(freeCorners, c)
		}
	}
	if len(freeCorners) > 0 {
		return randomCell(freeCorners, rng)
	}
	return randomCell(empty, rng)
}

// completingMove finds a cell that gives mark a full line.
func completingMove(b Board, mark string) (int, bool) {
	for _, cell := range b.EmptyCells() {
		next := b
		next[cell] = mark
		if next.Winner() == mark {
			return cell, true
		}
	}
	return -1, false
}

func randomCell(cells []int, rng *rand.Rand) int {
	return cells[rng.Intn(len(cells))]
}
