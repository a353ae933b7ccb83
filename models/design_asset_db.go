package models

// DesignSource is the active design_assets row used to locate a design's remote file
type DesignSource struct {
	DesignNumber string
	DriveFileID  string
}
