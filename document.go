package tourguide

// Document is the live document that step targets are resolved against.
type Document interface {
	// Query returns the first element matching selector. A nil element
	// with a nil error means nothing matched; an error means the selector
	// itself is invalid.
	Query(selector string) (Element, error)
}

// Element is a handle to a document node. Handles may go stale when the
// node is removed from the document; class operations on a stale handle
// must be harmless.
type Element interface {
	AddClass(name string)
	RemoveClass(name string)
}
