package domain

import "errors"

// ErrTemplateNotFound is returned when no active template exists for a type/language pair.
var ErrTemplateNotFound = errors.New("template not found")

// ErrConfigsNotFound is returned when a template has no question configuration set.
var ErrConfigsNotFound = errors.New("question configs not found")

// ErrCorruptPackage is returned when the document package cannot be opened as a zip container.
var ErrCorruptPackage = errors.New("corrupt document package")

// ErrEntryNotFound is returned when a named entry does not exist inside the document package.
var ErrEntryNotFound = errors.New("package entry not found")

// ErrWorksheetNotFound is returned when the package contains no usable worksheet.
var ErrWorksheetNotFound = errors.New("worksheet not found")
