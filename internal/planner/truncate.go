package planner

const ellipsis = "..."

// TruncateLabel fits label into a slot of slotWidth cells. Labels shorter than
// slotWidth-2 are returned unchanged; longer ones keep slotWidth-5 runes and
// end with a three-character ellipsis. Slots narrower than five cells render
// the ellipsis alone.
func TruncateLabel(label string, slotWidth int) string {
	runes := []rune(label)
	if len(runes) < slotWidth-2 {
		return label
	}
	keep := max(slotWidth-len(ellipsis)-2, 0)
	return string(runes[:keep]) + ellipsis
}
