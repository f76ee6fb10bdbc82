package intent

// Event names shared with the display layer. The frontend listens for
// these by string, so renaming one here is a breaking change.
const (
	// EventOpenPDFFile is the outbound open notification. The payload is
	// the document path. Fired at most once per accepted request.
	EventOpenPDFFile = "open-pdf-file"

	// EventFileDrop carries a drop payload forwarded by the webview: a
	// JSON array of path strings. The webview forwards DOM drops only
	// while the native drop callback is disabled, so one gesture never
	// arrives on both channels.
	EventFileDrop = "file-drop"

	// EventFileDropHover and EventFileDropCancelled accompany a drag in
	// progress. They carry no behavior yet but the subscriptions stay
	// registered.
	EventFileDropHover     = "file-drop-hover"
	EventFileDropCancelled = "file-drop-cancelled"
)
