// SPDX-License-Identifier: MPL-2.0

// Package manifest reads the manifest.json descriptor shipped inside every
// Bedrock behavior or resource pack.
//
// Pack manifests in the wild are frequently hand-edited, so reading is
// forgiving in two places:
//
//   - Encoding: byte-order marks for UTF-8, UTF-16LE and UTF-16BE are honoured.
//     When the body is not valid in the BOM-indicated encoding the BOM is
//     stripped and the charset is guessed from the content.
//   - Syntax: when strict JSON parsing fails the text is compiled as CUE,
//     which accepts line comments and trailing commas.
//
// The resulting [Descriptor] carries only what installation needs: the pack
// name, description, id, version and [Kind].
package manifest
