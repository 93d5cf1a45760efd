// Package utils provides loose-typed conversion helpers.
//
// The external inventory API encodes the same logical value differently
// depending on endpoint and deployment (VIP flags as 0/1 or booleans,
// custom-field values as strings, numbers or objects). These helpers
// normalize such values at the edges so the rest of the code works with
// concrete Go types.
package utils
