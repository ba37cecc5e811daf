// Package render turns a manifest and its preload results into slide markup.
//
// Units is the pure step: one Unit per slide, in manifest order, with stable
// element IDs. Slides and Page write HTML through html/template so slide
// text is never interpreted as markup.
package render
