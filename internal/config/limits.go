package config

const (
	// MaxWorkspaceNameLength is the maximum length for workspace names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (names should be short and descriptive).
	MaxWorkspaceNameLength = 255

	// MaxFolderNameLength is the maximum length for folder names.
	// Same as workspace names for consistency.
	MaxFolderNameLength = 255

	// MaxBulkSelectionSize caps how many folders one bulk request may
	// select. Larger selections indicate a runaway client.
	MaxBulkSelectionSize = 1000
)
