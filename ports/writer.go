package ports

// RowWriter is the destination sheet. row is 1-based; values align with the
// output headers starting at column A.
type RowWriter interface {
	WriteRow(row int, values []string) error
}
