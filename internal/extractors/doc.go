// Package extractors provides the extension-dispatch registry for text
// extraction. Format-specific extractors live in subpackages.
package extractors
