// Package ocr provides the text-recognition collaborator of the label scanner.
//
// The scanner depends only on the Recognizer interface; Tesseract is the
// production implementation, wrapping the Tesseract engine via gosseract/v2.
//
// # Prerequisites
//
// Tesseract and its English language data must be installed:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng libtesseract-dev
//   - macOS: brew install tesseract
//
// A custom tessdata directory can be supplied through the TESSDATA_PREFIX
// setting.
//
// # Error Handling
//
// Recognize returns wrapped errors for engine setup failures and ErrNoText
// when the image yielded only whitespace. Callers decide whether an empty
// label is a failure; the label parser itself accepts any string.
package ocr
