package blob

import "io"

// Print writes the text of each blob from start to the tail with no
// separator.
func (c *Chain) Print(w io.Writer, start Handle) error {
	for _, text := range c.From(start) {
		if _, err := io.WriteString(w, text); err != nil {
			return err
		}
	}
	return nil
}

// PrintLines writes the text of each blob from start to the tail, one blob
// per line.
func (c *Chain) PrintLines(w io.Writer, start Handle) error {
	for _, text := range c.From(start) {
		if _, err := io.WriteString(w, text); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}
