package vt

// altScreenSequences are the escape sequences the scrollback rebuild filter
// strips so that a fresh emulator replaying raw history never re-enters the
// alternate screen or performs a full-screen erase that would otherwise
// discard the very history we're trying to recover. Longest-prefix-first so
// `ESC[?1049h` isn't short-circuited by a shorter unrelated match.
var altScreenSequences = [][]byte{
	[]byte("\x1b[?1049h"),
	[]byte("\x1b[?1049l"),
	[]byte("\x1b[?47h"),
	[]byte("\x1b[?47l"),
	[]byte("\x1b[2J"),
	[]byte("\x1b[3J"),
}

// filterAltScreen scans data bytewise and drops occurrences of the
// recognized alternate-screen-enter/exit and full-screen-erase sequences.
// Unrecognized sequences pass through unmodified. Idempotent: the scan
// repeats until a pass removes nothing, so a sequence spliced together by
// an earlier removal is stripped too and a second call has nothing left to
// remove.
func filterAltScreen(data []byte) []byte {
	for {
		out := make([]byte, 0, len(data))

		for i := 0; i < len(data); {
			if data[i] == 0x1b {
				if seq, ok := matchAltScreenSeq(data[i:]); ok {
					i += len(seq)
					continue
				}
			}
			out = append(out, data[i])
			i++
		}

		if len(out) == len(data) {
			return out
		}
		data = out
	}
}

func matchAltScreenSeq(rest []byte) ([]byte, bool) {
	for _, seq := range altScreenSequences {
		if len(rest) >= len(seq) && hasPrefix(rest, seq) {
			return seq, true
		}
	}
	return nil, false
}

func hasPrefix(b, prefix []byte) bool {
	if len(b) < len(prefix) {
		return false
	}
	for i := range prefix {
		if b[i] != prefix[i] {
			return false
		}
	}
	return true
}
