package filter

// East Asian ideograph block, inclusive.
const (
	cjkFirst = 0x2E80
	cjkLast  = 0x9FFF
)

// IsSkippable reports whether r is noise that may appear between the content
// characters of a term without breaking recognition. ASCII letters, ASCII
// digits and East Asian ideographs are content; everything else is noise,
// including the utf8.RuneError produced for malformed input.
func IsSkippable(r rune) bool {
	return !isASCIIAlnum(r) && (r < cjkFirst || r > cjkLast)
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
