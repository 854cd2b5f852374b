// Package render builds the comment section as a golang.org/x/net/html node
// tree.
//
// A section starts empty (NewSection) and grows one batch at a time
// (RenderBatch). Every comment node carries its id, so a later batch can
// attach replies under parents rendered earlier; Find locates them with a
// cascadia attribute selector. A comment whose id is already present is
// skipped, and a reply whose parent is unknown attaches to the section root.
//
// Content fields arrive already sanitized by the pipeline package and are
// parsed back into nodes here; plain-text fields (content warnings, handles,
// dates) are inserted as text nodes.
package render
