package roster

// Required column headers, matched case-sensitively.
const (
	ColumnName     = "Name"
	ColumnID       = "ID"
	ColumnUsername = "username"
)

// RequiredColumns lists the headers every roster must carry.
var RequiredColumns = []string{ColumnName, ColumnID, ColumnUsername}

// Record is one roster row. Line is the CSV line the row started on.
type Record struct {
	Line     int    `json:"line"`
	Name     string `json:"name" validate:"required"`
	ID       string `json:"id" validate:"required"`
	Username string `json:"username" validate:"required"`
}
