package todo

import "github.com/iudanet/todoist/pkg/api"

// Requestor tags of the page controls
const (
	RequestorNewEntry api.Requestor = iota + 1
	RequestorDelete
	RequestorEdit
	RequestorExport
	RequestorLoad
)

// Dialog titles
const (
	TitleSuccess   = "Success message"
	TitleFailure   = "Failure message"
	TitleEmptyFile = "Empty file message"
	TitleNewNote   = "New note"
	TitleEditNote  = "Edit note"
)

// Dialog texts
const (
	PromptWrite      = "Start writing below: "
	PlaceholderWrite = "Write here"

	MsgExported     = "Exported to file successfully."
	MsgExportFailed = "Failed to export to file, check terminal log for details."
	MsgLoaded       = "Loaded from file successfully."
	MsgLoadedTwice  = "Loaded from file already, please restart to load again."
	MsgLoadFailed   = "Failed load file, check terminal log for details."
	MsgEmptyFile    = "File is empty, no entries loaded."
	MsgTooMany      = "Too many entries, delete some before adding more."
)

// Page element ids
const (
	IDTitle          = "main-page-title"
	IDSubtitle       = "main-page-subtitle"
	IDButtonBar      = "exportButtonDiv"
	IDExportButton   = "export-to-file-button"
	IDLoadButton     = "load-from-file-button"
	IDNewEntryDiv    = "newListEntryDialogButtonDiv"
	IDNewEntryButton = "newListEntryDialogButton"
)
