// Package chunk splits document text into overlapping bounded-size segments.
package chunk

// Splitter splits text into overlapping character-based chunks. Cuts prefer
// natural boundaries (paragraph break, newline, sentence end, space) and fall
// back to a hard character cut when the window contains none.
type Splitter struct {
	chunkSize    int
	chunkOverlap int
}

// NewSplitter creates a splitter with the given size and overlap (in runes).
func NewSplitter(chunkSize, chunkOverlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 5000
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize / 10
	}
	return &Splitter{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// separators in preference order; each cut lands just after a separator.
var separators = []string{"\n\n", "\n", ". ", " "}

// Split returns the chunk sequence for text. Deterministic: the same text
// always yields the same chunks. Empty input yields nil; text no longer than
// the chunk size yields a single chunk. Every adjacent pair of chunks shares
// exactly the configured overlap, so the non-overlapping portions concatenate
// back to the original text.
func (s *Splitter) Split(text string) []string {
	if text == "" {
		return nil
	}
	runes := []rune(text)
	if len(runes) <= s.chunkSize {
		return []string{text}
	}
	var chunks []string
	start := 0
	for {
		end := start + s.chunkSize
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}
		cut := start + s.bestCut(runes[start:end])
		chunks = append(chunks, string(runes[start:cut]))
		next := cut - s.chunkOverlap
		if next <= start {
			next = start + 1
		}
		start = next
	}
	return chunks
}

// bestCut returns the cut offset for a full window, preferring the last natural
// separator in the second half of the window so chunks keep making progress.
// The cut always lands past the overlap so the next start advances and the
// shared region stays exactly the configured overlap, even when the overlap
// exceeds half the chunk size. Returns the window length when no separator is
// found (hard cut).
func (s *Splitter) bestCut(window []rune) int {
	minPos := len(window) / 2
	if s.chunkOverlap > minPos {
		minPos = s.chunkOverlap
	}
	for _, sep := range separators {
		if pos := lastIndexAfter(window, sep, minPos); pos >= 0 {
			return pos
		}
	}
	return len(window)
}

// lastIndexAfter returns the offset just past the last occurrence of sep whose
// end lies after minPos, or -1 when there is none.
func lastIndexAfter(window []rune, sep string, minPos int) int {
	sepRunes := []rune(sep)
	for i := len(window) - len(sepRunes); i >= 0; i-- {
		if i+len(sepRunes) <= minPos {
			return -1
		}
		match := true
		for j, r := range sepRunes {
			if window[i+j] != r {
				match = false
				break
			}
		}
		if match {
			return i + len(sepRunes)
		}
	}
	return -1
}
