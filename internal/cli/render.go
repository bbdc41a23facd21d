package cli

import (
	"strings"

	"github.com/hailam/pawndropper/internal/board"
)

// renderBoard draws pos with the pieces of side at the bottom.
func renderBoard(pos *board.Position, side board.Color, last board.Move) string {
	ranks := []int{7, 6, 5, 4, 3, 2, 1, 0}
	files := []int{0, 1, 2, 3, 4, 5, 6, 7}
	if side == board.Black {
		ranks = []int{0, 1, 2, 3, 4, 5, 6, 7}
		files = []int{7, 6, 5, 4, 3, 2, 1, 0}
	}

	var sb strings.Builder
	for _, rank := range ranks {
		sb.WriteString("  ")
		sb.WriteByte(byte('1' + rank))
		for _, file := range files {
			sq := board.NewSquare(file, rank)
			marked := last != board.NoMove && (sq == last.From() || sq == last.To())
			if marked {
				sb.WriteByte('[')
			} else {
				sb.WriteByte(' ')
			}
			if pc := pos.PieceAt(sq); pc != board.NoPiece {
				sb.WriteString(pc.String())
			} else {
				sb.WriteByte('.')
			}
			if marked {
				sb.WriteByte(']')
			} else {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("   ")
	for _, file := range files {
		sb.WriteByte(' ')
		sb.WriteByte(byte('a' + file))
		sb.WriteByte(' ')
	}
	return sb.String()
}
