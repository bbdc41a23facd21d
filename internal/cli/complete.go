package cli

import (
	"strings"

	"github.com/samber/lo"
)

var commandNames = []string{
	"board", "eval", "exit", "fen", "games", "help", "moves",
	"new", "pgn", "quit", "stats", "undo",
}

// completer completes command names and legal moves in SAN.
type completer struct {
	s *Session
}

// Do implements the readline.AutoCompleter interface
func (c *completer) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])
	if strings.ContainsRune(text, ' ') {
		fields := strings.Fields(text)
		if len(fields) == 0 || fields[0] != "new" {
			return nil, 0
		}
		prefix := ""
		if !strings.HasSuffix(text, " ") {
			prefix = fields[len(fields)-1]
		}
		return suffixes([]string{"white", "black"}, prefix), len(prefix)
	}

	candidates := append(c.s.game.LegalSANs(), commandNames...)
	return suffixes(candidates, text), len(text)
}

// suffixes returns what each candidate starting with prefix adds to it.
func suffixes(candidates []string, prefix string) [][]rune {
	matches := lo.Filter(candidates, func(c string, _ int) bool {
		return strings.HasPrefix(c, prefix)
	})
	return lo.Map(matches, func(c string, _ int) []rune {
		return []rune(c[len(prefix):])
	})
}
