package models

// Category selects which reference catalog a name is looked up in.
type Category string

const (
	CategoryFileType     Category = "FILE_TYPE"
	CategoryOutputFormat Category = "OUTPUT_FORMAT"
)

// Reference names that must exist in the catalog.
const (
	FileTypeOther  = "OTHER"
	FileTypePrompt = "PROMPT"

	// DefaultOutputFormatID is the Excel row, used when an output format
	// name cannot be resolved.
	DefaultOutputFormatID = 1
)

// FileType is a row of the input file type catalog.
type FileType struct {
	ID   int    `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name string `json:"name" gorm:"not null;uniqueIndex;size:32"`
}

// OutputFormat is a row of the output format catalog.
type OutputFormat struct {
	ID   int    `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name string `json:"name" gorm:"not null;uniqueIndex;size:32"`
}

func (FileType) TableName() string {
	return "file_types"
}

func (OutputFormat) TableName() string {
	return "output_formats"
}

// DefaultFileTypes is the reference data seeded into file_types.
var DefaultFileTypes = []FileType{
	{ID: 1, Name: "XLSX"},
	{ID: 2, Name: "XLS"},
	{ID: 3, Name: "CSV"},
	{ID: 4, Name: "DOCX"},
	{ID: 5, Name: "PDF"},
	{ID: 6, Name: "PNG"},
	{ID: 7, Name: "JPG"},
	{ID: 8, Name: "JPEG"},
	{ID: 9, Name: FileTypePrompt},
	{ID: 10, Name: FileTypeOther},
}

// DefaultOutputFormats is the reference data seeded into output_formats.
var DefaultOutputFormats = []OutputFormat{
	{ID: DefaultOutputFormatID, Name: "Excel"},
	{ID: 2, Name: "Word"},
	{ID: 3, Name: "Text"},
}
