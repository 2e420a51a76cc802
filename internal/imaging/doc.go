// Package imaging loads label photos and prepares them for OCR.
//
// It covers the image side of the scanner: a TTL cache of decoded images,
// region cropping, PNG/base64 encoding for previews, and the preprocessing
// chain (upscale, grayscale, dark-background inversion, sharpen) applied
// before text recognition.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left corner. For
// regions, (x1,y1) is inclusive and (x2,y2) is exclusive.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. Preprocess and CropRegion never
// modify their input and may run concurrently on the same image.
package imaging
