// Package pages flattens a PDF page tree into an ordered list of pages.
//
// Intermediate /Pages nodes are walked depth-first in /Kids order. The
// inheritable attributes Resources, MediaBox, CropBox and Rotate are
// carried down to each leaf [Page]. A node object reached twice makes the
// tree corrupt.
package pages
