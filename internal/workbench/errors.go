package workbench

import "errors"

var (
	// ErrNoFile is returned when an operation needs a selected capture file.
	ErrNoFile = errors.New("no capture file selected")
	// ErrNoCrop is returned when preview or convert is requested without a valid crop.
	ErrNoCrop = errors.New("no crop rectangle set")
	// ErrUnsupportedFile is returned when a dropped file has no accepted extension.
	ErrUnsupportedFile = errors.New("unsupported capture file type")
)
