// Package label turns raw OCR text from a packaged-food label into structured data.
//
// The package is the text half of the scanner. It never touches images or the
// OCR engine; callers hand it whatever text the recognizer produced and get
// back a Record plus derived facts.
//
// # Pipeline
//
// A parse runs in a single pass:
//
//  1. Normalize: collapse whitespace, fold ligatures and accents, and drop
//     characters outside [A-Za-z0-9 .,;:%/()].
//  2. Segment: cut the text into zones (Product Name, Ingredients, Vitamins
//     and Minerals, Nutrition Facts, Special Notes) using section markers such
//     as "Ingredients:" and "Contains:".
//  3. ExtractNutrients: scan the Nutrition Facts zone token by token and
//     record values such as "Fat 2 g" or "Calories 120 kcal".
//
// Allergens and dietary suitability are derived on demand from a Record with
// DetectAllergens and AssessSuitability (or the Record methods of the same
// purpose).
//
// # Error Handling
//
// Every function in this package is total. A missing marker leaves the field
// nil, an unparsable nutrient value skips the dependent suitability check, and
// text without any marker lands in SpecialNotes. Nothing returns an error.
//
// # Thread Safety
//
// All functions are pure and may be called concurrently. The vocabularies and
// rule tables are package-level read-only data.
package label
