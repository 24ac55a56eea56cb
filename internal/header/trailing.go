package header

// CountTrailingBreaks counts the consecutive line breaks starting at off.
// A \r\n pair is one break; a bare \r is content, not a break, and stops
// the count. EOF right after the header therefore counts as zero breaks.
func CountTrailingBreaks(content []byte, off uint32) int {
	n, _ := scanBreaks(content, off)
	return n
}

// scanBreaks returns the break count and the offset just past them.
func scanBreaks(content []byte, off uint32) (count int, end uint32) {
	i := int(off)
	for i < len(content) {
		switch {
		case content[i] == '\n':
			i++
			count++
		case content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n':
			i += 2
			count++
		default:
			return count, u32(i)
		}
	}
	return count, u32(i)
}
