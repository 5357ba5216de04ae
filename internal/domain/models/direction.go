package models

type Direction string

const (
	Long  Direction = "long"
	Short Direction = "short"
)

// Opposite returns the other side of the trade.
func (d Direction) Opposite() Direction {
	if d == Long {
		return Short
	}
	return Long
}

func (d Direction) Valid() bool {
	return d == Long || d == Short
}
