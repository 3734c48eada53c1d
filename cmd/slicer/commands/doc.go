// Package commands implements the slicer command tree.
//
//	slicer split page.png -l 120 -l 480 --out ./slices --format jpeg
//	slicer plan page.png -l 120 -l 480
//	slicer version
package commands
