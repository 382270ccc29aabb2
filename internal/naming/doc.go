// Package naming implements the filename policy of a cleanup run: deriving
// the raw (unprocessed) filename implied by a final preprocessed file, and
// classifying every other file in a subject folder as retained, disposed of,
// or unrelated.
//
// Matching rules:
//   - final files are recognized by prefix: "swraimg.nii" with label "swra"
//     implies the raw file "img.nii";
//   - a file is associated with the raw data when it contains any raw
//     filename as a substring ("wraimg.nii", "meanimg.nii", "img.nii.gz");
//   - an associated file is retained when it starts with a keep-list prefix
//     or is itself a raw file, and disposed of otherwise.
//
// Substring matching lets one raw name cover all of its preprocessing-stage
// derivatives, but a short raw name can match unrelated files ("sub1" is
// contained in "sub10_run.nii"). No disambiguation is attempted; callers
// should keep raw names specific.
package naming
