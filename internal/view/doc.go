// Package view derives the visible rows of a snapshot: text filtering,
// duplicate detection by file name, the modified-today filter and stable
// column sorting. [Apply] is a pure function; [Engine] keeps options and
// rows together for the single consumer that drives the UI.
package view
